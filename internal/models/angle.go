// internal/models/angle.go
package models

// AngleKey identifies one marketing angle of a book
type AngleKey string

const (
	AngleTitle           AngleKey = "title"
	AngleReaderFantasy   AngleKey = "reader-fantasy"
	AngleEmotionalCore   AngleKey = "emotional-core"
	AngleIdentityMirror  AngleKey = "identity-mirror"
	AngleCultureHook     AngleKey = "culture-hook"
	AnglePersonalWound   AngleKey = "personal-wound"
	AngleCinematicMoment AngleKey = "cinematic-moment"
	AnglePremise         AngleKey = "premise"
	AngleTropeTwist      AngleKey = "trope-twist"
	AngleShockFactor     AngleKey = "shock-factor"
)

// AngleDefinition describes one entry of the fixed angle catalog
type AngleDefinition struct {
	Key         AngleKey `json:"key"`
	Label       string   `json:"label"` // label the generator is asked to emit, e.g. READER_FANTASY
	Name        string   `json:"name"`
	Emoji       string   `json:"emoji"`
	Placeholder string   `json:"placeholder"`
	HelpText    string   `json:"help_text"`
}

// AngleCatalog is the ordered, fixed set of angles every AngleSet carries.
var AngleCatalog = []AngleDefinition{
	{
		Key:         AngleTitle,
		Label:       "BOOK_TITLE",
		Name:        "Book Title",
		Emoji:       "📖",
		Placeholder: "e.g. The Last Lighthouse Keeper",
		HelpText:    "The title as readers will search for it.",
	},
	{
		Key:         AngleReaderFantasy,
		Label:       "READER_FANTASY",
		Name:        "Reader Fantasy",
		Emoji:       "✨",
		Placeholder: "e.g. escaping a soul-crushing corporate job to find purpose in art",
		HelpText:    "The dream or desire the story lets readers live out.",
	},
	{
		Key:         AngleEmotionalCore,
		Label:       "EMOTIONAL_WRECKAGE",
		Name:        "Emotional Wreckage",
		Emoji:       "💔",
		Placeholder: "e.g. the letter she finds after the funeral",
		HelpText:    "The most gut-wrenching moment of the book.",
	},
	{
		Key:         AngleIdentityMirror,
		Label:       "IDENTITY_MIRROR",
		Name:        "Identity Mirror",
		Emoji:       "🪞",
		Placeholder: "e.g. burnt-out millennials questioning their life choices",
		HelpText:    "Who will see themselves in this story.",
	},
	{
		Key:         AngleCultureHook,
		Label:       "CULTURE_HOOK",
		Name:        "Culture Hook",
		Emoji:       "🌍",
		Placeholder: "e.g. Greek mythology meets cyberpunk",
		HelpText:    "Cultural mashups or references that make the book stand out.",
	},
	{
		Key:         AnglePersonalWound,
		Label:       "PERSONAL_WOUND",
		Name:        "Personal Wound",
		Emoji:       "🩹",
		Placeholder: "e.g. never feeling good enough for a parent's approval",
		HelpText:    "The painful human truth at the heart of the story.",
	},
	{
		Key:         AngleCinematicMoment,
		Label:       "CINEMATIC_MOMENT",
		Name:        "Cinematic Moment",
		Emoji:       "🎬",
		Placeholder: "e.g. a duel on a collapsing glass bridge at dawn",
		HelpText:    "The most visual, movie-worthy scene.",
	},
	{
		Key:         AnglePremise,
		Label:       "WHAT_IF_SETUP",
		Name:        "What-If Setup",
		Emoji:       "❓",
		Placeholder: "e.g. What if your soulmate could only meet you once?",
		HelpText:    "The high-concept premise in one sentence.",
	},
	{
		Key:         AngleTropeTwist,
		Label:       "TROPE_TWIST",
		Name:        "Trope Twist",
		Emoji:       "🔀",
		Placeholder: "e.g. the chosen one refuses the call",
		HelpText:    "How the book subverts familiar tropes.",
	},
	{
		Key:         AngleShockFactor,
		Label:       "SHOCK_FACTOR",
		Name:        "Shock Factor",
		Emoji:       "⚡",
		Placeholder: "e.g. the narrator has been dead since chapter one",
		HelpText:    "The reveal that makes readers gasp out loud.",
	},
}

// AngleSet maps every catalog key to its free text.
type AngleSet map[AngleKey]string

// NewAngleSet returns an AngleSet holding every catalog key with an empty value.
func NewAngleSet() AngleSet {
	set := make(AngleSet, len(AngleCatalog))
	for _, def := range AngleCatalog {
		set[def.Key] = ""
	}
	return set
}

// Normalize returns a copy restricted to catalog keys, with missing keys set to "".
func (a AngleSet) Normalize() AngleSet {
	out := NewAngleSet()
	for key := range out {
		if v, ok := a[key]; ok {
			out[key] = v
		}
	}
	return out
}

// Clone returns an independent copy; nil stays nil.
func (a AngleSet) Clone() AngleSet {
	if a == nil {
		return nil
	}
	out := make(AngleSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Title returns the book title angle.
func (a AngleSet) Title() string {
	return a[AngleTitle]
}

// AngleDefinitionFor looks up a catalog entry by key.
func AngleDefinitionFor(key AngleKey) (AngleDefinition, bool) {
	for _, def := range AngleCatalog {
		if def.Key == key {
			return def, true
		}
	}
	return AngleDefinition{}, false
}
