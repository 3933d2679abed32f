package policy

import (
	"strings"

	"fable/pkg/schema"
)

// architectures maps a story category to its narrative template. The template
// is guidance for the text model only; nothing downstream verifies the beats
// were honored.
var architectures = map[string]schema.StoryArchitecture{
	"adventure": {
		Category: "adventure",
		Beats: []string{
			"ordinary day establishes the hero's world",
			"a call to adventure interrupts it",
			"first obstacle tests the hero and fails once",
			"a friend or tool provides the missing piece",
			"the big challenge is faced directly",
			"triumphant return with something learned",
		},
		FlowNotes:   "Each scene should raise the stakes slightly; resolve the climax through the hero's own choice, not luck.",
		Checkpoints: []string{"courage", "perseverance"},
	},
	"friendship": {
		Category: "friendship",
		Beats: []string{
			"two characters meet or one feels left out",
			"a misunderstanding or conflict separates them",
			"each feels the absence of the other",
			"a small gesture opens the door",
			"honest words repair the bond",
			"they enjoy something together they could not do alone",
		},
		FlowNotes:   "Keep the conflict age-appropriate and blame-free; both sides contribute to the repair.",
		Checkpoints: []string{"empathy", "apologizing and forgiving"},
	},
	"bedtime": {
		Category: "bedtime",
		Beats: []string{
			"winding down from the day's play",
			"a cozy routine begins (bath, pajamas, story)",
			"one gentle wonder or question drifts in",
			"the wonder resolves softly",
			"eyes grow heavy, the world goes quiet",
			"safe and warm, goodnight",
		},
		FlowNotes:   "Energy must decrease monotonically from first scene to last; end nearly silent.",
		Checkpoints: []string{"feeling safe", "daily routine"},
	},
	"learning": {
		Category: "learning",
		Beats: []string{
			"the child notices something puzzling",
			"a first guess turns out wrong",
			"someone or something offers a clue",
			"hands-on trying reveals how it works",
			"the child explains it in their own words",
			"the new knowledge is used to help someone",
		},
		FlowNotes:   "The child must discover the answer actively; adults hint, never lecture.",
		Checkpoints: []string{"curiosity", "learning from mistakes"},
	},
}

// SelectArchitecture returns the narrative template for a story category, or
// nil when the category is unknown or empty.
func SelectArchitecture(category string) *schema.StoryArchitecture {
	a, ok := architectures[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return nil
	}
	return &a
}
