// internal/models/hook.go
package models

// Hook is one generated promotional text variant
type Hook struct {
	FormatName string `json:"format_name"`
	Variation  int    `json:"variation"`
	Category   string `json:"category"`
	HookText   string `json:"hook_text"`
}

// ContentFormat is one entry of the fixed format catalog
type ContentFormat struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Example  string `json:"example"`
}

// HooksPerFormat is how many hooks a selected format is expected to yield.
const HooksPerFormat = 9

// FormatCatalog lists the formats a user can choose from.
var FormatCatalog = []ContentFormat{
	{ID: 1, Name: "POV Hook", Category: "Immersion", Example: "POV: you just found out the villain was right all along"},
	{ID: 2, Name: "Unpopular Opinion", Category: "Debate", Example: "Unpopular opinion: the love interest should have walked away"},
	{ID: 3, Name: "If You Liked X", Category: "Comparison", Example: "If you loved Circe, this retelling will wreck you"},
	{ID: 4, Name: "Trope Stack", Category: "Tropes", Example: "enemies to lovers ✔️ forced proximity ✔️ one bed ✔️"},
	{ID: 5, Name: "Quote Reveal", Category: "Excerpt", Example: "\"I burned the kingdom for you. Don't make me regret it.\""},
	{ID: 6, Name: "Reaction Bait", Category: "Emotion", Example: "Chapter 32 made me throw my kindle across the room"},
	{ID: 7, Name: "Things That Happen", Category: "Listicle", Example: "Things that happen in my book: a heist, a wedding, a betrayal"},
	{ID: 8, Name: "Tell Me Without Telling Me", Category: "Engagement", Example: "Tell me you read dark academia without telling me"},
	{ID: 9, Name: "What If", Category: "Premise", Example: "What if the only person who could save you was the one who cursed you?"},
	{ID: 10, Name: "Character Intro", Category: "Character", Example: "Meet Ada: disgraced surgeon, reluctant detective, terrible liar"},
	{ID: 11, Name: "Setting Tease", Category: "Worldbuilding", Example: "A city where it rains memories every Tuesday"},
	{ID: 12, Name: "Author Confession", Category: "Behind the Scenes", Example: "I wrote this book after the worst year of my life"},
}

// FormatByID looks up a catalog format.
func FormatByID(id int) (ContentFormat, bool) {
	for _, f := range FormatCatalog {
		if f.ID == id {
			return f, true
		}
	}
	return ContentFormat{}, false
}

// FormatsByIDs returns the catalog formats whose IDs are selected, in catalog order.
func FormatsByIDs(ids []int) []ContentFormat {
	selected := make(map[int]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	var formats []ContentFormat
	for _, f := range FormatCatalog {
		if selected[f.ID] {
			formats = append(formats, f)
		}
	}
	return formats
}

// FindHookByText returns the first hook with exactly the given text.
func FindHookByText(hooks []Hook, text string) (Hook, bool) {
	for _, h := range hooks {
		if h.HookText == text {
			return h, true
		}
	}
	return Hook{}, false
}
