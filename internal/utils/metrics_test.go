package utils

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCollectorCounters(t *testing.T) {
	m := NewMetricsCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncrementCounter("hits")
		}()
	}
	wg.Wait()
	m.AddCounter("hits", 5)

	assert.Equal(t, int64(55), m.GetCounterValue("hits"))
	assert.Equal(t, int64(0), m.GetCounterValue("missing"))
}

func TestMetricsCollectorHistogram(t *testing.T) {
	m := NewMetricsCollector()
	m.RecordHistogram("latency", 30)
	m.RecordHistogram("latency", 10)
	m.RecordHistogram("latency", 20)

	histograms := m.GetMetrics()["histograms"].(map[string]map[string]int64)
	assert.Equal(t, map[string]int64{"count": 3, "sum": 60, "min": 10, "max": 30}, histograms["latency"])
}

func TestAppMetricsGeneration(t *testing.T) {
	am := NewAppMetricsWith(NewMetricsCollector(), NewNopLogger())

	am.GenerationStarted()
	am.RecordGeneration("google", "gemini-2.5-pro", 120, 40*time.Millisecond, nil)
	am.GenerationStarted()
	am.RecordGeneration("google", "gemini-2.5-pro", 0, 10*time.Millisecond, errors.New("quota"))

	c := am.Collector()
	assert.Equal(t, int64(2), c.GetCounterValue(MetricGeneratorCalls))
	assert.Equal(t, int64(1), c.GetCounterValue(MetricGeneratorFailures))
	assert.Equal(t, int64(120), c.GetCounterValue(MetricGeneratorTokens))
	assert.Equal(t, int64(0), c.GetGauge(MetricGeneratorInFlight))
}

func TestAppMetricsParse(t *testing.T) {
	am := NewAppMetricsWith(NewMetricsCollector(), NewNopLogger())

	am.RecordHookParse(9, 1)
	am.RecordScriptParse(4, 2, 1)

	c := am.Collector()
	assert.Equal(t, int64(9), c.GetCounterValue(MetricHooksParsed))
	assert.Equal(t, int64(2), c.GetCounterValue(MetricShotsDropped))
	assert.Equal(t, int64(1), c.GetCounterValue(MetricSectionsMissing))
}
