// internal/wizard/gates.go
package wizard

import (
	"github.com/Corphon/HookForge/internal/models"
)

// stageGates decides, per stage, whether its prerequisites are met.
var stageGates = map[models.Stage]func(State) bool{
	models.StageAngles:    func(State) bool { return true },
	models.StageFormats:   func(s State) bool { return s.Angles != nil },
	models.StageGenerator: func(s State) bool { return s.Angles != nil },
	models.StageScripts:   func(s State) bool { return len(s.Hooks) > 0 },
}

// ReachableStages returns the stages state allows, in wizard order.
// It is evaluated from scratch on every call.
func ReachableStages(state State) []models.Stage {
	stages := make([]models.Stage, 0, len(models.StageOrder))
	for _, stage := range models.StageOrder {
		if stageGates[stage](state) {
			stages = append(stages, stage)
		}
	}
	return stages
}

// CanEnter reports whether stage is reachable from state.
func CanEnter(state State, stage models.Stage) bool {
	gate, ok := stageGates[stage]
	return ok && gate(state)
}
