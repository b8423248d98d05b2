// internal/models/session.go
package models

// Theme is the UI theme preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Severity classifies a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Notification is a short-lived user-facing message
type Notification struct {
	ID       uint64   `json:"id"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Operation names the generator-backed operations that carry a busy flag.
type Operation string

const (
	OperationAnalyzing        Operation = "analyzing"
	OperationGeneratingHooks  Operation = "generatingHooks"
	OperationGeneratingScript Operation = "generatingScript"
)

// Stage is one step of the wizard
type Stage string

const (
	StageAngles    Stage = "angles"
	StageFormats   Stage = "formats"
	StageGenerator Stage = "generator"
	StageScripts   Stage = "scripts"
)

// StageOrder is the fixed order of wizard stages.
var StageOrder = []Stage{StageAngles, StageFormats, StageGenerator, StageScripts}

// ParseStage converts a raw identifier into a Stage.
func ParseStage(raw string) (Stage, bool) {
	for _, s := range StageOrder {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}
