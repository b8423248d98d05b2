// internal/wizard/state.go
package wizard

import (
	"github.com/Corphon/HookForge/internal/models"
)

// State is the whole session. Values are treated as immutable: the reducer
// always returns a fresh State and never writes through a previous one.
type State struct {
	Angles            models.AngleSet           `json:"angles"`
	SourceText        string                    `json:"source_text"`
	SelectedFormatIDs []int                     `json:"selected_format_ids"`
	Hooks             []models.Hook             `json:"hooks"`
	Busy              map[models.Operation]bool `json:"busy"`
	Error             *string                   `json:"error"`
	Notifications     []models.Notification     `json:"notifications"`
	Theme             models.Theme              `json:"theme"`
}

// NewState returns the state a session starts with.
func NewState() State {
	return State{
		SelectedFormatIDs: []int{},
		Hooks:             []models.Hook{},
		Busy: map[models.Operation]bool{
			models.OperationAnalyzing:        false,
			models.OperationGeneratingHooks:  false,
			models.OperationGeneratingScript: false,
		},
		Notifications: []models.Notification{},
		Theme:         models.ThemeLight,
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Angles = s.Angles.Clone()
	out.SelectedFormatIDs = append([]int{}, s.SelectedFormatIDs...)
	out.Hooks = append([]models.Hook{}, s.Hooks...)
	out.Notifications = append([]models.Notification{}, s.Notifications...)

	out.Busy = make(map[models.Operation]bool, len(s.Busy))
	for k, v := range s.Busy {
		out.Busy[k] = v
	}
	if s.Error != nil {
		msg := *s.Error
		out.Error = &msg
	}
	return out
}

// IsBusy reports whether op is in flight.
func (s State) IsBusy(op models.Operation) bool {
	return s.Busy[op]
}

// IsFormatSelected reports whether the format id is in the selection.
func (s State) IsFormatSelected(id int) bool {
	for _, selected := range s.SelectedFormatIDs {
		if selected == id {
			return true
		}
	}
	return false
}

// ErrorMessage returns the current error or "".
func (s State) ErrorMessage() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}
