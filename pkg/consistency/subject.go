package consistency

import (
	"strings"

	"fable/pkg/schema"
)

// animalKeywords is the single shared keyword table used when a character
// carries no creation-time subject type. Checked against name and description.
var animalKeywords = []string{
	"dog", "puppy", "cat", "kitten", "bunny", "rabbit", "bear", "fox",
	"wolf", "lion", "tiger", "elephant", "monkey", "bird", "owl", "duck",
	"horse", "pony", "pig", "sheep", "cow", "mouse", "hamster", "turtle",
	"fish", "dolphin", "whale", "penguin", "frog", "squirrel", "hedgehog",
}

var creatureKeywords = []string{
	"dragon", "unicorn", "monster", "dinosaur", "fairy", "mermaid",
	"robot", "alien", "ghost", "troll", "giant", "gnome", "elf",
}

// ClassifySubject is the single source of truth for what a character is.
// A creation-time tag always wins. Untagged characters default to human:
// text-only characters are assumed human, and so are characters with a
// reference image, unless the keyword table clearly says otherwise.
func ClassifySubject(c schema.Character) schema.SubjectType {
	if c.SubjectType != "" {
		return c.SubjectType
	}

	haystack := strings.ToLower(c.Name + " " + c.FullDescription + " " + c.OtherFeatures)
	for _, kw := range creatureKeywords {
		if containsWord(haystack, kw) {
			return schema.SubjectCreature
		}
	}
	for _, kw := range animalKeywords {
		if containsWord(haystack, kw) {
			return schema.SubjectAnimal
		}
	}

	return schema.SubjectHuman
}

// IsHuman reports whether human-specific description fields (hair, skin,
// clothing, age) apply to this character.
func IsHuman(c schema.Character) bool {
	return ClassifySubject(c) == schema.SubjectHuman
}

// MentionsAnimal reports whether free text names an animal or creature,
// using the same keyword table as ClassifySubject. Scene text like "a dog
// runs by" counts even when no roster character is an animal.
func MentionsAnimal(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range animalKeywords {
		if containsWord(lower, kw) {
			return true
		}
	}
	for _, kw := range creatureKeywords {
		if containsWord(lower, kw) {
			return true
		}
	}
	return false
}

func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordByte(s[start-1])
		afterOK := end == len(s) || !isWordByte(s[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
