// internal/utils/metrics.go
package utils

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector collects application metrics
type MetricsCollector struct {
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram

	mu sync.RWMutex
}

// Counter metric - using atomic operations for thread-safe value updates
type Counter struct {
	name  string
	value int64 // Use atomic operations for this field
}

// Gauge metric - using atomic operations for thread-safe value updates
type Gauge struct {
	name  string
	value int64 // Use atomic operations for this field
}

// Histogram metric (simple implementation tracking count, sum, min, max)
type Histogram struct {
	name  string
	count int64
	sum   int64
	min   int64
	max   int64
	mu    sync.Mutex
}

var (
	globalMetrics *MetricsCollector
	metricsOnce   sync.Once
)

// NewMetricsCollector returns an empty collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters:   make(map[string]*Counter),
		gauges:     make(map[string]*Gauge),
		histograms: make(map[string]*Histogram),
	}
}

// GetMetricsCollector returns the global metrics collector
func GetMetricsCollector() *MetricsCollector {
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsCollector()
	})
	return globalMetrics
}

// IncrementCounter increments a counter metric using atomic operations to reduce lock contention
func (m *MetricsCollector) IncrementCounter(name string) {
	// First try with read lock (fast path for existing counters)
	m.mu.RLock()
	counter, exists := m.counters[name]
	m.mu.RUnlock()

	if exists {
		atomic.AddInt64(&counter.value, 1)
		return
	}

	// Slow path: need to create new counter
	m.mu.Lock()
	// Double-check after acquiring write lock
	counter, exists = m.counters[name]
	if !exists {
		counter = &Counter{name: name}
		m.counters[name] = counter
	}
	m.mu.Unlock()

	atomic.AddInt64(&counter.value, 1)
}

// AddCounter adds a value to a counter metric using atomic operations
func (m *MetricsCollector) AddCounter(name string, value int64) {
	// First try with read lock (fast path for existing counters)
	m.mu.RLock()
	counter, exists := m.counters[name]
	m.mu.RUnlock()

	if exists {
		atomic.AddInt64(&counter.value, value)
		return
	}

	// Slow path: need to create new counter
	m.mu.Lock()
	// Double-check after acquiring write lock
	counter, exists = m.counters[name]
	if !exists {
		counter = &Counter{name: name}
		m.counters[name] = counter
	}
	m.mu.Unlock()

	atomic.AddInt64(&counter.value, value)
}

// SetGauge sets a gauge metric using atomic operations
func (m *MetricsCollector) SetGauge(name string, value int64) {
	// First try with read lock (fast path for existing gauges)
	m.mu.RLock()
	gauge, exists := m.gauges[name]
	m.mu.RUnlock()

	if exists {
		atomic.StoreInt64(&gauge.value, value)
		return
	}

	// Slow path: need to create new gauge
	m.mu.Lock()
	// Double-check after acquiring write lock
	gauge, exists = m.gauges[name]
	if !exists {
		gauge = &Gauge{name: name}
		m.gauges[name] = gauge
	}
	m.mu.Unlock()

	atomic.StoreInt64(&gauge.value, value)
}

// IncGauge increments a gauge metric
func (m *MetricsCollector) IncGauge(name string) {
	// First try with read lock (fast path for existing gauges)
	m.mu.RLock()
	gauge, exists := m.gauges[name]
	m.mu.RUnlock()

	if exists {
		atomic.AddInt64(&gauge.value, 1)
		return
	}

	// Slow path: gauge doesn't exist, use SetGauge to create and set
	m.SetGauge(name, 1)
}

// DecGauge decrements a gauge metric
func (m *MetricsCollector) DecGauge(name string) {
	// First try with read lock (fast path for existing gauges)
	m.mu.RLock()
	gauge, exists := m.gauges[name]
	m.mu.RUnlock()

	if exists {
		atomic.AddInt64(&gauge.value, -1)
		return
	}

	// Slow path: gauge doesn't exist, use SetGauge to create and set
	m.SetGauge(name, -1)
}

// GetGauge gets the current value of a gauge using atomic load
func (m *MetricsCollector) GetGauge(name string) int64 {
	m.mu.RLock()
	gauge, exists := m.gauges[name]
	m.mu.RUnlock()

	if !exists {
		return 0
	}

	return atomic.LoadInt64(&gauge.value)
}

// RecordHistogram records a value in a histogram
func (m *MetricsCollector) RecordHistogram(name string, value int64) {
	// First try with read lock (fast path for existing histograms)
	m.mu.RLock()
	histogram, exists := m.histograms[name]
	m.mu.RUnlock()

	if !exists {
		// Slow path: need to create new histogram
		m.mu.Lock()
		// Double-check after acquiring write lock
		histogram, exists = m.histograms[name]
		if !exists {
			histogram = &Histogram{
				name: name,
				min:  value,
				max:  value,
			}
			m.histograms[name] = histogram
		}
		m.mu.Unlock()
	}

	histogram.mu.Lock()
	defer histogram.mu.Unlock()

	histogram.count++
	histogram.sum += value

	if value < histogram.min {
		histogram.min = value
	}
	if value > histogram.max {
		histogram.max = value
	}
}

// GetMetrics returns a snapshot of all metrics
func (m *MetricsCollector) GetMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	metrics := make(map[string]interface{})

	// Collect counters using atomic load
	counters := make(map[string]int64)
	for name, counter := range m.counters {
		counters[name] = atomic.LoadInt64(&counter.value)
	}
	metrics["counters"] = counters

	// Collect gauges using atomic load
	gauges := make(map[string]int64)
	for name, gauge := range m.gauges {
		gauges[name] = atomic.LoadInt64(&gauge.value)
	}
	metrics["gauges"] = gauges

	// Collect histograms (still needs mutex for min/max consistency)
	histograms := make(map[string]map[string]int64)
	for name, histogram := range m.histograms {
		histogram.mu.Lock()
		histograms[name] = map[string]int64{
			"count": histogram.count,
			"sum":   histogram.sum,
			"min":   histogram.min,
			"max":   histogram.max,
		}
		histogram.mu.Unlock()
	}
	metrics["histograms"] = histograms

	return metrics
}

// GetCounterValue gets the current value of a counter using atomic load
func (m *MetricsCollector) GetCounterValue(name string) int64 {
	m.mu.RLock()
	counter, exists := m.counters[name]
	m.mu.RUnlock()

	if !exists {
		return 0
	}

	return atomic.LoadInt64(&counter.value)
}

// Metric names
const (
	MetricAPIRequests        = "api.requests"
	MetricAPILatency         = "api.latency_ms"
	MetricGeneratorCalls     = "generator.calls"
	MetricGeneratorFailures  = "generator.failures"
	MetricGeneratorLatency   = "generator.latency_ms"
	MetricGeneratorInFlight  = "generator.in_flight"
	MetricGeneratorTokens    = "generator.tokens"
	MetricHooksParsed        = "parser.hooks_parsed"
	MetricHookBlocksDropped  = "parser.hook_blocks_dropped"
	MetricShotsParsed        = "parser.shots_parsed"
	MetricShotsDropped       = "parser.shots_dropped"
	MetricSectionsMissing    = "parser.sections_missing"
	MetricNotificationsSent  = "notifications.sent"
	MetricOperationsRejected = "operations.rejected"
)

// AppMetrics records application-level metrics
type AppMetrics struct {
	metrics *MetricsCollector
	logger  *Logger
}

// NewAppMetrics creates an AppMetrics over the global collector and logger
func NewAppMetrics() *AppMetrics {
	return NewAppMetricsWith(GetMetricsCollector(), GetLogger())
}

// NewAppMetricsWith creates an AppMetrics over the given collector and logger
func NewAppMetricsWith(metrics *MetricsCollector, logger *Logger) *AppMetrics {
	return &AppMetrics{metrics: metrics, logger: logger}
}

// Collector returns the underlying collector
func (am *AppMetrics) Collector() *MetricsCollector {
	return am.metrics
}

// RecordAPIRequest records metrics for an API request
func (am *AppMetrics) RecordAPIRequest(endpoint, method string, statusCode int, duration time.Duration) {
	am.metrics.IncrementCounter(MetricAPIRequests)
	am.metrics.IncrementCounter(fmt.Sprintf("api.responses_%dxx", statusCode/100))
	am.metrics.RecordHistogram(MetricAPILatency, duration.Milliseconds())

	am.logger.Debug("API request completed", map[string]interface{}{
		"endpoint": endpoint,
		"method":   method,
		"status":   statusCode,
		"duration": duration.Milliseconds(),
	})
}

// GenerationStarted marks a generator call as in flight
func (am *AppMetrics) GenerationStarted() {
	am.metrics.IncGauge(MetricGeneratorInFlight)
}

// RecordGeneration records a finished generator call
func (am *AppMetrics) RecordGeneration(provider, model string, tokensUsed int, duration time.Duration, err error) {
	am.metrics.DecGauge(MetricGeneratorInFlight)
	am.metrics.IncrementCounter(MetricGeneratorCalls)
	am.metrics.RecordHistogram(MetricGeneratorLatency, duration.Milliseconds())

	fields := map[string]interface{}{
		"provider":    provider,
		"model":       model,
		"duration_ms": duration.Milliseconds(),
	}
	if err != nil {
		am.metrics.IncrementCounter(MetricGeneratorFailures)
		fields["error"] = err
		am.logger.Warn("Generator call failed", fields)
		return
	}

	am.metrics.AddCounter(MetricGeneratorTokens, int64(tokensUsed))
	fields["tokens"] = tokensUsed
	am.logger.Info("Generator call completed", fields)
}

// RecordHookParse records the outcome of parsing a hook batch
func (am *AppMetrics) RecordHookParse(parsed, dropped int) {
	am.metrics.AddCounter(MetricHooksParsed, int64(parsed))
	am.metrics.AddCounter(MetricHookBlocksDropped, int64(dropped))
}

// RecordScriptParse records the outcome of parsing a script
func (am *AppMetrics) RecordScriptParse(shots, dropped, missingSections int) {
	am.metrics.AddCounter(MetricShotsParsed, int64(shots))
	am.metrics.AddCounter(MetricShotsDropped, int64(dropped))
	am.metrics.AddCounter(MetricSectionsMissing, int64(missingSections))
}

// RecordNotification counts a user-facing notification by severity
func (am *AppMetrics) RecordNotification(severity string) {
	am.metrics.IncrementCounter(MetricNotificationsSent)
	am.metrics.IncrementCounter(MetricNotificationsSent + "." + severity)
}

// RecordRejectedOperation counts an operation refused because it was already in flight
func (am *AppMetrics) RecordRejectedOperation(operation string) {
	am.metrics.IncrementCounter(MetricOperationsRejected)
	am.logger.Warn("Operation already in flight", map[string]interface{}{"operation": operation})
}

// StartMetricsCollection logs a metrics summary every interval until ctx is done
func (am *AppMetrics) StartMetricsCollection(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				am.logger.Info("Periodic metrics report", map[string]interface{}{
					"metrics": am.metrics.GetMetrics(),
				})
			}
		}
	}()
}
