// internal/wizard/actions.go
package wizard

import (
	"github.com/Corphon/HookForge/internal/models"
)

// Action is one of the closed set of state transitions.
type Action interface {
	isAction()
}

// SetBusy toggles the busy flag of a single operation.
type SetBusy struct {
	Operation models.Operation
	Busy      bool
}

// SetError replaces the current error; nil clears it.
type SetError struct {
	Message *string
}

// SetAngles replaces the angle set; nil clears it. The store persists the change.
type SetAngles struct {
	Angles models.AngleSet
}

// SetSourceText replaces the book text used for downstream prompts.
type SetSourceText struct {
	Text string
}

// SetSelectedFormats replaces the format selection.
type SetSelectedFormats struct {
	IDs []int
}

// SetHooks replaces the hook sequence wholesale.
type SetHooks struct {
	Hooks []models.Hook
}

// RestoreFromStorage loads angles and theme from persistence.
// Only Store.Dispatch resolves it; Reduce leaves state unchanged.
type RestoreFromStorage struct{}

// EnqueueNotification appends a notification with a fresh id.
// Only Store.Dispatch resolves it; Reduce leaves state unchanged.
type EnqueueNotification struct {
	Message  string
	Severity models.Severity
}

// DismissNotification removes a notification if it is still queued.
type DismissNotification struct {
	ID uint64
}

// SetTheme replaces the theme. The store persists the change.
type SetTheme struct {
	Theme models.Theme
}

// restored carries what RestoreFromStorage read.
type restored struct {
	angles models.AngleSet
	theme  models.Theme
}

// notificationAdded carries a notification whose id the store assigned.
type notificationAdded struct {
	notification models.Notification
}

func (SetBusy) isAction()             {}
func (SetError) isAction()            {}
func (SetAngles) isAction()           {}
func (SetSourceText) isAction()       {}
func (SetSelectedFormats) isAction()  {}
func (SetHooks) isAction()            {}
func (RestoreFromStorage) isAction()  {}
func (EnqueueNotification) isAction() {}
func (DismissNotification) isAction() {}
func (SetTheme) isAction()            {}
func (restored) isAction()            {}
func (notificationAdded) isAction()   {}

// ErrorMessage builds a SetError for msg.
func ErrorMessage(msg string) SetError {
	return SetError{Message: &msg}
}

// ClearError builds a SetError that clears the current error.
func ClearError() SetError {
	return SetError{}
}
