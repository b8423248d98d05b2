// internal/parser/angles.go
package parser

import (
	"strings"

	"github.com/Corphon/HookForge/internal/models"
)

// angleLabels maps generator labels to angle keys.
var angleLabels = func() map[string]models.AngleKey {
	m := make(map[string]models.AngleKey, len(models.AngleCatalog))
	for _, def := range models.AngleCatalog {
		m[def.Label] = def.Key
	}
	return m
}()

// ParseAngles extracts an AngleSet from "LABEL: value" lines.
// Unknown labels are ignored and the last occurrence of a label wins.
// The result always holds every catalog key.
func ParseAngles(text string) models.AngleSet {
	angles := models.NewAngleSet()
	for _, line := range splitLines(text) {
		label, value, ok := splitLabel(line)
		if !ok {
			continue
		}
		if key, known := angleLabels[label]; known {
			angles[key] = value
		}
	}
	return angles
}

// FormatAngles renders an AngleSet in the label format ParseAngles reads,
// one line per catalog angle in catalog order.
func FormatAngles(angles models.AngleSet) string {
	var b strings.Builder
	for _, def := range models.AngleCatalog {
		b.WriteString(def.Label)
		b.WriteString(": ")
		b.WriteString(angles[def.Key])
		b.WriteString("\n")
	}
	return b.String()
}
