package consistency

import (
	"regexp"
	"strings"

	"fable/pkg/schema"
)

// anyCasualOutfit is the instruction handed to the image prompt when nothing
// else decides an outfit. Pinned on first use so it stays identical.
const anyCasualOutfit = "a simple casual outfit, kept exactly the same in every scene"

// OutfitCache pins one clothing description per character for the duration of
// a single story run. Construct a fresh cache per run; it must never be
// shared across concurrent stories.
type OutfitCache struct {
	pinned map[string]string
}

func NewOutfitCache() *OutfitCache {
	return &OutfitCache{pinned: make(map[string]string)}
}

// Reset clears all pinned outfits, for callers that reuse a cache between
// runs instead of constructing a new one.
func (o *OutfitCache) Reset() {
	clear(o.pinned)
}

// Pinned returns the outfit pinned for a character, if any.
func (o *OutfitCache) Pinned(name string) (string, bool) {
	v, ok := o.pinned[outfitKey(name)]
	return v, ok
}

// Resolve decides what the character wears in this scene.
//
// Priority, highest first: a scene-specific role costume (applies to this
// scene only and is never pinned), the outfit already pinned this story, the
// character's stored base clothing, a theme-derived default, and finally the
// free-choice instruction. Everything below a role costume pins on first use,
// so the character's everyday identity persists while pretend-play scenes
// override it temporarily.
func (o *OutfitCache) Resolve(c schema.Character, sceneText string) string {
	if costume, ok := RoleCostume(sceneText); ok {
		return costume
	}

	key := outfitKey(c.Name)
	if v, ok := o.pinned[key]; ok {
		return v
	}

	outfit := strings.TrimSpace(c.Clothing)
	if outfit == "" {
		if theme, ok := DetectTheme(sceneText); ok {
			outfit = themeOutfits[theme]
		}
	}
	if outfit == "" {
		outfit = anyCasualOutfit
	}

	o.pinned[key] = outfit
	return outfit
}

func outfitKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type costumeRule struct {
	match   *regexp.Regexp
	costume string
}

// costumeRules are evaluated in order, first match wins. The pretend verbs
// cover "pretends to be", "dresses up as", "plays doctor" phrasings.
var costumeRules = []costumeRule{
	{rx(`pretend\w*|dress\w* up|play\w*`, `doctor`), "white doctor coat with stethoscope"},
	{rx(`pretend\w*|dress\w* up|play\w*`, `firefighter|fireman`), "firefighter uniform with helmet"},
	{rx(`pretend\w*|dress\w* up|play\w*`, `police\w*`), "police officer uniform with cap"},
	{rx(`pretend\w*|dress\w* up|play\w*`, `astronaut`), "white astronaut suit with round helmet"},
	{rx(`pretend\w*|dress\w* up|play\w*`, `pirate`), "pirate costume with tricorn hat"},
	{rx(`pretend\w*|dress\w* up|play\w*`, `chef|cook`), "chef hat and apron"},
	{rx(`pretend\w*|dress\w* up|play\w*`, `knight`), "toy knight armor"},
	{rx(`pretend\w*|dress\w* up|play\w*`, `superhero`), "superhero costume with cape"},
	{regexp.MustCompile(`(?i)\b(swim\w*|pool|beach)\b`), "swimsuit"},
}

func rx(verbs, role string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + verbs + `)\b[^.!?]*\b(` + role + `)\b`)
}

// RoleCostume returns a scene-specific costume when the scene text triggers
// one. Role costumes apply only to the triggering scene; callers must not pin
// them.
func RoleCostume(sceneText string) (string, bool) {
	for _, r := range costumeRules {
		if r.match.MatchString(sceneText) {
			return r.costume, true
		}
	}
	return "", false
}

type themeRule struct {
	theme    string
	keywords []string
}

// themeRules are scanned in order against the scene text, first match wins.
var themeRules = []themeRule{
	{"christmas", []string{"christmas", "santa", "reindeer", "stocking"}},
	{"halloween", []string{"halloween", "trick-or-treat", "jack-o'-lantern", "jack-o-lantern"}},
	{"beach", []string{"beach", "sandcastle", "seaside"}},
	{"bedtime", []string{"bedtime", "goodnight", "tucked in", "lullaby"}},
	{"birthday", []string{"birthday", "party hat"}},
	{"winter", []string{"winter", "snow", "sled", "ice skating"}},
}

var themeOutfits = map[string]string{
	"christmas": "festive red and green pajamas",
	"halloween": "a fun halloween costume",
	"beach":     "colorful swimsuit with a sun hat",
	"bedtime":   "cozy pajamas",
	"birthday":  "a bright party outfit",
	"winter":    "warm winter coat with scarf and mittens",
}

// DetectTheme returns the first theme whose keywords appear in the scene
// text, or false when none match.
func DetectTheme(sceneText string) (string, bool) {
	lower := strings.ToLower(sceneText)
	for _, r := range themeRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.theme, true
			}
		}
	}
	return "", false
}
