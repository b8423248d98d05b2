// internal/wizard/reducer.go
package wizard

import (
	"github.com/Corphon/HookForge/internal/models"
)

// Reduce applies action to state and returns the next state.
// It never mutates state, never panics on a known action and returns an
// unchanged copy for actions it does not handle.
func Reduce(state State, action Action) State {
	next := state.Clone()

	switch a := action.(type) {
	case SetBusy:
		next.Busy[a.Operation] = a.Busy
	case SetError:
		next.Error = nil
		if a.Message != nil {
			msg := *a.Message
			next.Error = &msg
		}
	case SetAngles:
		next.Angles = nil
		if a.Angles != nil {
			next.Angles = a.Angles.Normalize()
		}
	case SetSourceText:
		next.SourceText = a.Text
	case SetSelectedFormats:
		next.SelectedFormatIDs = normalizeSelection(a.IDs)
	case SetHooks:
		next.Hooks = append([]models.Hook{}, a.Hooks...)
	case DismissNotification:
		next.Notifications = removeNotification(next.Notifications, a.ID)
	case SetTheme:
		if a.Theme.Valid() {
			next.Theme = a.Theme
		}
	case restored:
		next.Angles = a.angles.Clone()
		if a.theme.Valid() {
			next.Theme = a.theme
		}
	case notificationAdded:
		next.Notifications = append(next.Notifications, a.notification)
	}

	return next
}

// normalizeSelection drops unknown and duplicate ids and keeps catalog order.
func normalizeSelection(ids []int) []int {
	out := []int{}
	for _, f := range models.FormatsByIDs(ids) {
		out = append(out, f.ID)
	}
	return out
}

func removeNotification(list []models.Notification, id uint64) []models.Notification {
	out := make([]models.Notification, 0, len(list))
	for _, n := range list {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}
