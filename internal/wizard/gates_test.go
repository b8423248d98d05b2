package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Corphon/HookForge/internal/models"
)

func TestReachableStages(t *testing.T) {
	withAngles := NewState()
	withAngles.Angles = models.NewAngleSet()

	withHooks := withAngles.Clone()
	withHooks.Hooks = []models.Hook{{FormatName: "Tweet", HookText: "Buy my book", Variation: 1}}

	hooksOnly := NewState()
	hooksOnly.Hooks = withHooks.Hooks

	tests := []struct {
		name  string
		state State
		want  []models.Stage
	}{
		{"fresh session", NewState(), []models.Stage{models.StageAngles}},
		{"angles saved", withAngles, []models.Stage{models.StageAngles, models.StageFormats, models.StageGenerator}},
		{"hooks generated", withHooks, models.StageOrder},
		{"hooks without angles", hooksOnly, []models.Stage{models.StageAngles, models.StageScripts}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReachableStages(tt.state))
		})
	}
}

func TestCanEnterFollowsState(t *testing.T) {
	state := NewState()
	assert.True(t, CanEnter(state, models.StageAngles))
	assert.False(t, CanEnter(state, models.StageFormats))
	assert.False(t, CanEnter(state, models.Stage("nowhere")))

	state = Reduce(state, SetAngles{Angles: models.NewAngleSet()})
	assert.True(t, CanEnter(state, models.StageGenerator))

	state = Reduce(state, SetAngles{})
	assert.False(t, CanEnter(state, models.StageGenerator))
}
