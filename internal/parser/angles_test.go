package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Corphon/HookForge/internal/models"
)

func TestParseAnglesAlwaysReturnsCatalogKeys(t *testing.T) {
	inputs := []string{
		"",
		"no labels here at all",
		"UNKNOWN_LABEL: something\n:::\n\x00\xff",
		"BOOK_TITLE: Only the title",
	}
	for _, input := range inputs {
		angles := ParseAngles(input)
		require.Len(t, angles, len(models.AngleCatalog), "input %q", input)
		for _, def := range models.AngleCatalog {
			_, ok := angles[def.Key]
			assert.True(t, ok, "missing key %s for input %q", def.Key, input)
		}
	}
}

func TestParseAnglesMapsLabels(t *testing.T) {
	text := "Here is the analysis:\n\n" +
		"BOOK_TITLE: The Last Lighthouse Keeper\n" +
		"  READER_FANTASY :  quitting the city for the sea  \n" +
		"WHAT_IF_SETUP: What if the light went out: forever?\n" +
		"SOMETHING_ELSE: ignored\n"

	angles := ParseAngles(text)

	assert.Equal(t, "The Last Lighthouse Keeper", angles[models.AngleTitle])
	assert.Equal(t, "quitting the city for the sea", angles[models.AngleReaderFantasy])
	assert.Equal(t, "What if the light went out: forever?", angles[models.AnglePremise])
	assert.Equal(t, "", angles[models.AngleShockFactor])
}

func TestParseAnglesLastOccurrenceWins(t *testing.T) {
	angles := ParseAngles("SHOCK_FACTOR: first\r\nSHOCK_FACTOR: second\r\n")
	assert.Equal(t, "second", angles[models.AngleShockFactor])
}

func TestParseAnglesRoundTrip(t *testing.T) {
	original := models.NewAngleSet()
	original[models.AngleTitle] = "Salt & Ash"
	original[models.AngleCultureHook] = "Norse myth meets: noir"
	original[models.AngleTropeTwist] = "the mentor is the villain"
	original[models.AngleEmotionalCore] = ""

	parsed := ParseAngles(FormatAngles(original))

	assert.Equal(t, original, parsed)
}
