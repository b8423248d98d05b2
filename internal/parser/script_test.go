package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/HookForge/internal/models"
)

const sampleScript = `Sure! Here is your script.

### CHARACTER GUIDE ###
Mara, 34, salt-stained wool coat, silver streak in dark hair.

### SETTING GUIDE ###
A storm-battered lighthouse at dusk, sodium-orange light.

### COMPLETE VIDEO SCRIPT ###
---
SHOT 1 - The Hook (0-3s)
VOICEOVER/DIALOGUE: She kept the light on for a ship that sank forty years ago.
VISUAL DESCRIPTION: Close-up of a trembling hand on a brass lever.
AI GENERATION PROMPT: "Extreme close-up of a woman's weathered hand gripping a brass lever, slow dolly in, storm light flickering"
---
SHOT 2 - The Build (3-15s)
VOICEOVER/DIALOGUE: Every night, the same signal.
Every night, no answer.
VISUAL DESCRIPTION: Wide shot of the lighthouse beam sweeping the sea.
AI GENERATION PROMPT: "Aerial wide shot of a lighthouse on a cliff, beam sweeping over black waves, slow pan right"
---
SHOT 3 - Broken (15-20s)
VOICEOVER/DIALOGUE: Until someone answered.
AI GENERATION PROMPT: "A distant light blinking back across the water"
---
SHOT 4 - CTA (25-30s)
VOICEOVER/DIALOGUE: The Last Lighthouse Keeper. Out now.
VISUAL DESCRIPTION: Book cover on a rain-wet windowsill.
AI GENERATION PROMPT: "Book cover resting on a rain-streaked windowsill, candlelight, shallow depth of field, slow zoom in"
---

### PRODUCTION NOTES ###
- Music/Sound: low cello drone
- Transitions: hard cuts on the beam
`

func TestParseScriptExtractsSections(t *testing.T) {
	doc := ParseScript(sampleScript, ScriptContext{
		HookText:   "She kept the light on",
		FormatName: "POV Hook",
		Category:   "Immersion",
		Length:     "30",
		Platform:   "TikTok",
	})

	assert.Equal(t, "30-Second Video Script", doc.Title)
	assert.Equal(t, `Based on: "She kept the light on"`, doc.Subtitle)
	assert.Equal(t, "Mara, 34, salt-stained wool coat, silver streak in dark hair.", doc.CharacterGuide)
	assert.Equal(t, "A storm-battered lighthouse at dusk, sodium-orange light.", doc.SettingGuide)
	assert.True(t, strings.HasPrefix(doc.ProductionNotes, "- Music/Sound: low cello drone"))
	assert.Empty(t, doc.MissingSections())

	assert.Equal(t, models.ScriptMetadata{
		Platform:   "TikTok",
		Duration:   "30",
		Category:   "Immersion",
		FormatName: "POV Hook",
		ShotCount:  3,
	}, doc.Metadata)
}

func TestParseScriptDropsIncompleteShots(t *testing.T) {
	doc := ParseScript(sampleScript, ScriptContext{Length: "30"})

	require.Len(t, doc.Shots, 3)
	assert.Equal(t, []int{1, 2, 4}, []int{doc.Shots[0].ShotNumber, doc.Shots[1].ShotNumber, doc.Shots[2].ShotNumber})
	assert.Equal(t, 1, DroppedShots(sampleScript))

	first := doc.Shots[0]
	assert.Equal(t, "The Hook", first.Name)
	assert.Equal(t, "0-3s", first.Timing)
	assert.Equal(t, "Close-up of a trembling hand on a brass lever.", first.Visual)
	assert.Equal(t, "Extreme close-up of a woman's weathered hand gripping a brass lever, slow dolly in, storm light flickering", first.AIPrompt)

	assert.Equal(t, "Every night, the same signal.\nEvery night, no answer.", doc.Shots[1].Voiceover)
}

func TestParseScriptFallbackForAbsentSections(t *testing.T) {
	doc := ParseScript("The model rambled and produced nothing useful.", ScriptContext{Length: "60"})

	assert.Equal(t, models.SectionFallback, doc.CharacterGuide)
	assert.Equal(t, models.SectionFallback, doc.SettingGuide)
	assert.Equal(t, models.SectionFallback, doc.ProductionNotes)
	assert.NotNil(t, doc.Shots)
	assert.Empty(t, doc.Shots)
	assert.Equal(t, models.CustomCategory, doc.Metadata.Category)
	assert.Len(t, doc.MissingSections(), 3)
}

func TestParseScriptEmptySectionIsNotFallback(t *testing.T) {
	doc := ParseScript("### CHARACTER GUIDE ###\n\n### SETTING GUIDE ###\nFog.", ScriptContext{})

	assert.Equal(t, "", doc.CharacterGuide)
	assert.Equal(t, "Fog.", doc.SettingGuide)
	assert.Equal(t, models.SectionFallback, doc.ProductionNotes)
}

func TestParseScriptAlternateHeaderStyles(t *testing.T) {
	text := "## Character Guide\nAda, 40.\n\nSETTING GUIDE: Rainy Lisbon.\n\n**COMPLETE VIDEO SCRIPT**\n" +
		"SHOT 1 – Opening (0-5s)\nVOICEOVER/DIALOGUE: Hi.\nVISUAL DESCRIPTION: Tram.\nAI GENERATION PROMPT: Yellow tram in the rain\n" +
		"PRODUCTION NOTES:\nKeep it moody."

	doc := ParseScript(text, ScriptContext{})

	assert.Equal(t, "Ada, 40.", doc.CharacterGuide)
	assert.Equal(t, "Rainy Lisbon.", doc.SettingGuide)
	assert.Equal(t, "Keep it moody.", doc.ProductionNotes)
	require.Len(t, doc.Shots, 1)
	assert.Equal(t, "Opening", doc.Shots[0].Name)
	assert.Equal(t, "Yellow tram in the rain", doc.Shots[0].AIPrompt)
}

func TestParseScriptKeepsBodyAfterEchoedHeader(t *testing.T) {
	text := "### CHARACTER GUIDE ###\nCharacter guide:\nAda, 30, red coat.\n" +
		"### SETTING GUIDE ###\nLighthouse at dusk."

	doc := ParseScript(text, ScriptContext{})

	assert.Equal(t, "Character guide:\nAda, 30, red coat.", doc.CharacterGuide)
	assert.Equal(t, "Lighthouse at dusk.", doc.SettingGuide)
}

func TestParseScriptHeaderLikeProseStaysInSection(t *testing.T) {
	text := "### CHARACTER GUIDE ###\nSetting guide: see the lighthouse notes below.\nShe is 30.\n" +
		"**Character Guide**\nRed coat.\n" +
		"### SETTING GUIDE ###\nLighthouse at dusk."

	doc := ParseScript(text, ScriptContext{})

	assert.Equal(t, "Setting guide: see the lighthouse notes below.\nShe is 30.\nRed coat.", doc.CharacterGuide)
	assert.Equal(t, "Lighthouse at dusk.", doc.SettingGuide)
}

func TestDroppedShotsIgnoresPlaceholderBlocks(t *testing.T) {
	text := "### COMPLETE VIDEO SCRIPT ###\n---\n" +
		"SHOT 1 - Opening (0-3s)\nVOICEOVER/DIALOGUE: Hi.\nVISUAL DESCRIPTION: Dawn.\nAI GENERATION PROMPT: Sunrise\n---\n" +
		"SHOT 2 - Broken (3-6s)\nVOICEOVER/DIALOGUE: Missing the rest.\n---\n" +
		"[Continue with subsequent shots]\n"

	assert.Equal(t, 1, DroppedShots(text))
	assert.Len(t, ParseScript(text, ScriptContext{}).Shots, 1)
}

func TestParseScriptSubtitleTruncatesLongHooks(t *testing.T) {
	hook := strings.Repeat("é", 70)

	doc := ParseScript("", ScriptContext{HookText: hook})

	assert.Equal(t, `Based on: "`+strings.Repeat("é", 60)+`..."`, doc.Subtitle)
}

func TestParseScriptIsDeterministic(t *testing.T) {
	ctx := ScriptContext{HookText: "h", Length: "15", Platform: "Reels"}
	assert.Equal(t, ParseScript(sampleScript, ctx), ParseScript(sampleScript, ctx))
}

func TestParseScriptNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"### COMPLETE VIDEO SCRIPT ###",
		"### COMPLETE VIDEO SCRIPT ###\n---\nSHOT x - (\n---\nSHOT 0 - Zero (1s)\n",
		"\x00\xff###",
		"SHOT 1 - A (1s)\nAI GENERATION PROMPT: \"\"",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() { ParseScript(input, ScriptContext{}) }, "input %q", input)
	}
}
