// internal/models/script.go
package models

// SectionFallback marks a script section the generator did not deliver.
const SectionFallback = "N/A - Check AI response for formatting errors."

// CustomCategory is used when a script is built from a hook that was not generated.
const CustomCategory = "Custom"

// ScriptDocument is a parsed shot-by-shot video script
type ScriptDocument struct {
	Title           string         `json:"title"`
	Subtitle        string         `json:"subtitle"`
	CharacterGuide  string         `json:"character_guide"`
	SettingGuide    string         `json:"setting_guide"`
	Shots           []Shot         `json:"shots"`
	ProductionNotes string         `json:"production_notes"`
	Metadata        ScriptMetadata `json:"metadata"`
}

// Shot is one segment of a video script
type Shot struct {
	ShotNumber int    `json:"shot_number"`
	Name       string `json:"name"`
	Timing     string `json:"timing"`
	Voiceover  string `json:"voiceover"`
	Visual     string `json:"visual"`
	AIPrompt   string `json:"ai_prompt"`
}

// ScriptMetadata carries the context a script was requested with
type ScriptMetadata struct {
	Platform   string `json:"platform"`
	Duration   string `json:"duration"`
	Category   string `json:"category"`
	FormatName string `json:"format_name"`
	ShotCount  int    `json:"shot_count"`
}

// MissingSections reports which guide sections fell back to SectionFallback.
func (d ScriptDocument) MissingSections() []string {
	var missing []string
	if d.CharacterGuide == SectionFallback {
		missing = append(missing, "CHARACTER GUIDE")
	}
	if d.SettingGuide == SectionFallback {
		missing = append(missing, "SETTING GUIDE")
	}
	if d.ProductionNotes == SectionFallback {
		missing = append(missing, "PRODUCTION NOTES")
	}
	return missing
}
