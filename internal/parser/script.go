// internal/parser/script.go
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Corphon/HookForge/internal/models"
)

// Section headers of a generated script, in the order they are requested.
const (
	SectionCharacterGuide  = "CHARACTER GUIDE"
	SectionSettingGuide    = "SETTING GUIDE"
	SectionVideoScript     = "COMPLETE VIDEO SCRIPT"
	SectionProductionNotes = "PRODUCTION NOTES"
)

var scriptSections = []string{
	SectionCharacterGuide,
	SectionSettingGuide,
	SectionVideoScript,
	SectionProductionNotes,
}

// Shot field labels.
const (
	labelVoiceover = "VOICEOVER/DIALOGUE:"
	labelVisual    = "VISUAL DESCRIPTION:"
	labelAIPrompt  = "AI GENERATION PROMPT:"
)

// shotHeader matches "SHOT 3 - The Reveal (12-18s)".
var shotHeader = regexp.MustCompile(`(?i)^SHOT\s+(\d+)\s*[-–—:]\s*(.*?)\s*\(([^)]*)\)`)

const subtitleHookRunes = 60

// ScriptContext is the request context a script was generated for.
// It only feeds title, subtitle and metadata.
type ScriptContext struct {
	HookText   string
	FormatName string
	Category   string
	Length     string
	Platform   string
}

// ParseScript converts generator output into a ScriptDocument.
// Absent sections hold models.SectionFallback and incomplete shots are dropped.
func ParseScript(text string, ctx ScriptContext) models.ScriptDocument {
	sections := splitSections(splitLines(text))

	section := func(name string) string {
		body, ok := sections[name]
		if !ok {
			return models.SectionFallback
		}
		return body
	}

	var shots []models.Shot
	if body, ok := sections[SectionVideoScript]; ok {
		shots = parseShots(body)
	}
	if shots == nil {
		shots = []models.Shot{}
	}

	category := ctx.Category
	if category == "" {
		category = models.CustomCategory
	}

	return models.ScriptDocument{
		Title:           fmt.Sprintf("%s-Second Video Script", ctx.Length),
		Subtitle:        scriptSubtitle(ctx.HookText),
		CharacterGuide:  section(SectionCharacterGuide),
		SettingGuide:    section(SectionSettingGuide),
		Shots:           shots,
		ProductionNotes: section(SectionProductionNotes),
		Metadata: models.ScriptMetadata{
			Platform:   ctx.Platform,
			Duration:   ctx.Length,
			Category:   category,
			FormatName: ctx.FormatName,
			ShotCount:  len(shots),
		},
	}
}

// DroppedShots counts shot blocks in text that ParseScript would discard.
// Blocks without a SHOT header, such as an echoed placeholder line, are not shots.
func DroppedShots(text string) int {
	body, ok := splitSections(splitLines(text))[SectionVideoScript]
	if !ok {
		return 0
	}
	dropped := 0
	for _, block := range splitBlocks(body, BlockSeparator) {
		if at, _ := findShotHeader(splitLines(block)); at < 0 {
			continue
		}
		if _, ok := parseShot(block); !ok {
			dropped++
		}
	}
	return dropped
}

func scriptSubtitle(hook string) string {
	if utf8.RuneCountInString(hook) <= subtitleHookRunes {
		return fmt.Sprintf("Based on: \"%s\"", hook)
	}
	runes := []rune(hook)
	return fmt.Sprintf("Based on: \"%s...\"", string(runes[:subtitleHookRunes]))
}

// splitSections assigns every line to the most recent recognized header.
// A header repeated inside its own section is skipped and the body continues;
// a closed section seen again keeps its first body.
func splitSections(lines []string) map[string]string {
	bodies := make(map[string]*strings.Builder)
	var current *strings.Builder
	currentName := ""
	for _, line := range lines {
		if name, rest, ok := matchSectionHeader(line); ok {
			if current != nil && name == currentName {
				if rest != "" {
					current.WriteString("\n")
					current.WriteString(rest)
				}
				continue
			}
			if _, seen := bodies[name]; seen {
				current, currentName = nil, ""
				continue
			}
			current, currentName = &strings.Builder{}, name
			current.WriteString(rest)
			bodies[name] = current
			continue
		}
		if current == nil {
			continue
		}
		current.WriteString("\n")
		current.WriteString(line)
	}

	out := make(map[string]string, len(bodies))
	for name, b := range bodies {
		out[name] = strings.TrimSpace(b.String())
	}
	return out
}

// matchSectionHeader recognizes "### NAME ###", "## NAME", "**NAME**" and "NAME:" lines.
// Marked headers match in any case; bare ones only in upper case, since prose
// such as "Character guide: ..." is common inside a section.
// Text following the header on the same line is returned as rest.
func matchSectionHeader(line string) (name, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	marked := strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "**")
	stripped := strings.TrimLeft(trimmed, "#* ")

	for _, section := range scriptSections {
		if marked && !hasFoldPrefix(stripped, section) {
			continue
		}
		if !marked && !strings.HasPrefix(stripped, section) {
			continue
		}
		tail := stripped[len(section):]
		switch {
		case marked:
			tail = strings.TrimLeft(tail, "#*: ")
			return section, strings.TrimSpace(tail), true
		case strings.TrimSpace(tail) == "":
			return section, "", true
		case strings.HasPrefix(tail, ":"):
			return section, strings.TrimSpace(tail[1:]), true
		}
	}
	return "", "", false
}

func parseShots(body string) []models.Shot {
	var shots []models.Shot
	for _, block := range splitBlocks(body, BlockSeparator) {
		if shot, ok := parseShot(block); ok {
			shots = append(shots, shot)
		}
	}
	return shots
}

// parseShot extracts all six shot fields from one block or reports false.
func parseShot(block string) (models.Shot, bool) {
	lines := splitLines(block)

	headerAt, m := findShotHeader(lines)
	if headerAt < 0 {
		return models.Shot{}, false
	}

	number, err := strconv.Atoi(m[1])
	if err != nil || number < 1 {
		return models.Shot{}, false
	}
	name := strings.TrimSpace(strings.Trim(m[2], "*"))
	timing := strings.TrimSpace(m[3])
	if name == "" || timing == "" {
		return models.Shot{}, false
	}

	fields := newFieldScanner(labelVoiceover, labelVisual, labelAIPrompt)
	fields.scan(lines[headerAt+1:])

	voiceover, ok1 := fields.value(labelVoiceover)
	visual, ok2 := fields.value(labelVisual)
	prompt, ok3 := fields.value(labelAIPrompt)
	if !ok1 || !ok2 || !ok3 {
		return models.Shot{}, false
	}
	prompt = strings.TrimSpace(trimQuotes(prompt))
	if prompt == "" {
		return models.Shot{}, false
	}

	return models.Shot{
		ShotNumber: number,
		Name:       name,
		Timing:     timing,
		Voiceover:  voiceover,
		Visual:     visual,
		AIPrompt:   prompt,
	}, true
}

// findShotHeader returns the index and submatches of the first SHOT header line, or -1.
func findShotHeader(lines []string) (int, []string) {
	for i, line := range lines {
		candidate := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*#"))
		if m := shotHeader.FindStringSubmatch(candidate); m != nil {
			return i, m
		}
	}
	return -1, nil
}

func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	for _, pair := range [][2]string{{`"`, `"`}, {"“", "”"}} {
		if strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) && len(s) >= len(pair[0])+len(pair[1]) {
			return s[len(pair[0]) : len(s)-len(pair[1])]
		}
	}
	return s
}
