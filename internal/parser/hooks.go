// internal/parser/hooks.go
package parser

import (
	"github.com/Corphon/HookForge/internal/models"
)

const (
	labelFormat    = "FORMAT:"
	labelVariation = "VARIATION:"
	labelCategory  = "CATEGORY:"
	labelHook      = "HOOK:"
)

// ParseHooks splits generator output on "---" and converts each block into a Hook.
// Blocks without a non-empty FORMAT and HOOK are skipped.
func ParseHooks(text string) []models.Hook {
	hooks := []models.Hook{}
	for _, block := range splitBlocks(text, BlockSeparator) {
		if hook, ok := parseHookBlock(block); ok {
			hooks = append(hooks, hook)
		}
	}
	return hooks
}

func parseHookBlock(block string) (models.Hook, bool) {
	lines := splitLines(block)

	formatName, _ := labelValue(lines, labelFormat)
	hookText, _ := labelValue(lines, labelHook)
	if formatName == "" || hookText == "" {
		return models.Hook{}, false
	}

	category, _ := labelValue(lines, labelCategory)
	rawVariation, _ := labelValue(lines, labelVariation)

	return models.Hook{
		FormatName: formatName,
		Variation:  parseVariation(rawVariation),
		Category:   category,
		HookText:   hookText,
	}, true
}

// MaxVariation is the number of variations requested per format.
const MaxVariation = 3

// parseVariation reads the leading digits of raw. Anything non-numeric or
// outside 1..MaxVariation yields 1.
func parseVariation(raw string) int {
	n := 0
	digits := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			break
		}
		digits++
		if n > MaxVariation {
			continue
		}
		n = n*10 + int(r-'0')
	}
	if digits == 0 || n < 1 || n > MaxVariation {
		return 1
	}
	return n
}

// HookBlockCount returns the number of non-blank blocks in text, kept or not.
func HookBlockCount(text string) int {
	return len(splitBlocks(text, BlockSeparator))
}
