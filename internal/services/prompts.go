// internal/services/prompts.go
package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Corphon/HookForge/internal/models"
)

const (
	// MaxAnalysisChars caps the pasted book text sent for angle extraction.
	MaxAnalysisChars = 100000
	// MaxExcerptChars caps the book excerpt sent with hook and script prompts.
	MaxExcerptChars = 10000

	bookTextMarker = "\n\n[BOOK TEXT FOLLOWS]\n\n"
)

var titleCaser = cases.Title(language.English)

const angleExtractionPrompt = `Analyze this book and extract the following marketing angles. Be SPECIFIC and compelling - avoid generic descriptions. Return your analysis in this EXACT format with clear labels:

BOOK_TITLE: [Extract or infer the book title]
READER_FANTASY: [What dream/desire does this story fulfill? Be specific - e.g., "escaping a soul-crushing corporate job to find purpose in art"]
EMOTIONAL_WRECKAGE: [The most gut-wrenching, tear-jerking moment that destroys readers emotionally. Be visceral and specific.]
IDENTITY_MIRROR: [Who will see themselves in this story? Be specific about demographics, life situations, or emotional states - e.g., "burnt-out millennials questioning their life choices"]
CULTURE_HOOK: [Unique cultural mashups or references - e.g., "Greek mythology meets cyberpunk" or "K-drama tropes in Victorian England"]
PERSONAL_WOUND: [The painful human truth or vulnerability at the heart of this story, even if it's fiction]
CINEMATIC_MOMENT: [The most visual, movie-worthy scene that would look amazing on screen. Describe it vividly.]
WHAT_IF_SETUP: [The high-concept premise in one sentence - e.g., "What if your soulmate could only meet you once?"]
TROPE_TWIST: [How does this book subvert or twist familiar tropes? - e.g., "The chosen one refuses the call and has to be dragged kicking and screaming"]
SHOCK_FACTOR: [The twist, revelation, or moment that makes readers gasp out loud. Be specific but don't spoil everything.]

Make each angle 1-3 sentences. Be SPECIFIC, VISCERAL, and EMOTIONALLY COMPELLING. Avoid generic phrases like "journey of self-discovery" - instead say what KIND of self-discovery and WHY it matters.
`

const hooksPromptTemplate = `You are a book marketing expert. I need you to create compelling, platform-ready content hooks for promoting my book.

BOOK DETAILS:
%s

BOOK EXCERPT (for context):
%s

CONTENT FORMATS TO USE:
%s

INSTRUCTIONS:
For EACH format listed above, create 3 unique variations of content hooks. Each hook should:
1. Be platform-ready for TikTok/Instagram/Reels (under 150 characters when possible)
2. Reference SPECIFIC details from the book angles or excerpt
3. Be emotionally engaging and visceral (not generic)
4. Match the format's style and purpose
5. Use the exact book details, character names, plot points from the content provided
6. Make each hook feel like it came from someone who ACTUALLY READ and LOVED this specific book.

Format your response EXACTLY like this for EACH hook, with each hook on a new set of lines:
FORMAT: [Format Name]
VARIATION: [1, 2, or 3]
CATEGORY: [The hook category]
HOOK: [The actual hook content - be specific and compelling]
---`

const scriptPromptTemplate = `
You are a video marketing scriptwriter specializing in book promotion AND AI video generation. Create a COMPLETE %[1]s-second video script for %[2]s with detailed shot-by-shot prompts for AI video generators (like Runway, Pika, or Kling AI).

BOOK DETAILS:
%[3]s

BOOK EXCERPT (for context):
%[4]s

SELECTED HOOK:
"%[5]s"

FORMAT: %[6]s
CATEGORY: %[7]s

VIDEO SPECIFICATIONS:
- Length: %[1]s seconds
- Platform: %[2]s
- Structure: HOOK (0-3s) -> BUILD (middle section) -> PAYOFF (emotional climax) -> CTA (final 5s)

CRITICAL REQUIREMENTS:
1. Create detailed CHARACTER DESCRIPTIONS for consistency across all shots.
2. Create detailed SCENERY/SETTING descriptions for visual continuity.
3. Write COMPLETE dialogue/voiceover for every section (not placeholders).
4. Provide shot-by-shot AI GENERATION PROMPTS with specific visual details.
5. Include timing for each shot.
6. Every AI generation prompt must be 20+ words with specific visual details.
7. Each prompt should work as a standalone instruction for an AI video generator.
8. Include camera movements (zoom in, pan right, dolly forward, etc.)
9. Make it specific to THIS book's story, characters, and scenes.
10. Make this script production-ready and specific to the book content provided!
11. YOU MUST generate between 4 and 7 shots for the COMPLETE VIDEO SCRIPT section. Do not leave it empty.

Format your response EXACTLY like this, using the delimiters to separate sections:

### CHARACTER GUIDE ###
[Describe main characters with specific visual details: age, appearance, clothing, distinctive features. Be detailed so AI generates them consistently.]

### SETTING GUIDE ###
[Describe key locations with specific details: time of day, lighting, weather, architecture, colors, mood]

### COMPLETE VIDEO SCRIPT ###
---
SHOT [N] - [NAME] ([TIMING])
VOICEOVER/DIALOGUE: [exact words to speak]
VISUAL DESCRIPTION: [what we see]
AI GENERATION PROMPT: "[Detailed prompt for AI video generator with character descriptions, setting, camera angle, movement, lighting, mood. Reference the CHARACTER GUIDE and SETTING GUIDE for consistency]"
---
[Continue with subsequent shots]

### PRODUCTION NOTES ###
- Music/Sound: [Specific recommendations]
- Text Overlays: [If needed, what text and when]
- Transitions: [How shots connect]
- Platform-Specific Tips: [[platform]-specific advice]
`

// ScriptRequest is what a script prompt is built from
type ScriptRequest struct {
	HookText   string
	FormatName string
	Category   string
	Length     string
	Platform   string
}

// BuildAnglePrompt returns the angle extraction prompt. Pasted text is appended
// after a marker; when a file is attached the prompt is sent alone.
func BuildAnglePrompt(bookText string) string {
	if bookText == "" {
		return angleExtractionPrompt
	}
	return angleExtractionPrompt + bookTextMarker + truncateRunes(bookText, MaxAnalysisChars)
}

// BuildHooksPrompt asks for three variations of every format.
func BuildHooksPrompt(angles models.AngleSet, formats []models.ContentFormat, bookText string) string {
	formatLines := make([]string, 0, len(formats))
	for _, f := range formats {
		formatLines = append(formatLines, "- "+f.Name)
	}

	return fmt.Sprintf(hooksPromptTemplate,
		anglesText(angles),
		truncateRunes(bookText, MaxExcerptChars),
		strings.Join(formatLines, "\n"),
	)
}

// BuildScriptPrompt asks for a sectioned, shot-by-shot script.
func BuildScriptPrompt(angles models.AngleSet, bookText string, req ScriptRequest) string {
	return fmt.Sprintf(scriptPromptTemplate,
		req.Length,
		req.Platform,
		anglesText(angles),
		truncateRunes(bookText, MaxExcerptChars),
		req.HookText,
		req.FormatName,
		req.Category,
	)
}

// anglesText renders one "Angle Name: value" line per catalog angle.
func anglesText(angles models.AngleSet) string {
	lines := make([]string, 0, len(models.AngleCatalog))
	for _, def := range models.AngleCatalog {
		lines = append(lines, fmt.Sprintf("%s: %s", angleKeyLabel(def.Key), angles[def.Key]))
	}
	return strings.Join(lines, "\n")
}

// angleKeyLabel turns "reader-fantasy" into "Reader Fantasy".
func angleKeyLabel(key models.AngleKey) string {
	return titleCaser.String(strings.ReplaceAll(string(key), "-", " "))
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
