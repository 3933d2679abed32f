package prompt

import (
	"fmt"
	"strings"

	"fable/pkg/consistency"
	"fable/pkg/schema"
)

// DefaultArtStyle is used when the caller supplies none.
const DefaultArtStyle = "soft watercolor children's book illustration, warm colors, gentle lighting"

// SceneInput is everything the compiler needs for one scene.
type SceneInput struct {
	Scene        schema.EnhancedScene
	Characters   []schema.Character // roster characters appearing in this scene
	Outfits      map[string]string  // lowercase name -> resolved outfit
	GenericRoles []string
	ArtStyle     string
}

// Compile merges the scene description, character identities and outfits,
// background roles and art style into one image-generation prompt, and pairs
// it with the scene-conditional negative prompt.
func Compile(in SceneInput) (enhanced, negative string) {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(in.Scene.EnhancedPrompt))

	humans, others := splitBySubject(in.Characters)

	if len(humans) > 0 {
		b.WriteString("\n\nMAIN HUMAN CHARACTERS (keep fully human, exact same appearance in every scene):")
		for _, c := range humans {
			b.WriteString("\n- " + describeHuman(c, in.Outfits))
		}
	}
	if len(others) > 0 {
		b.WriteString("\n\nANIMALS AND OTHER SUBJECTS (keep clearly separate from the humans, never merged):")
		for _, c := range others {
			b.WriteString("\n- " + describeNonHuman(c))
		}
	}
	if len(in.GenericRoles) > 0 {
		b.WriteString("\n\nBackground figures: " + strings.Join(in.GenericRoles, ", ") + " (unnamed, secondary, never the focus).")
	}

	style := strings.TrimSpace(in.ArtStyle)
	if style == "" {
		style = DefaultArtStyle
	}
	b.WriteString("\n\nArt style: " + style)

	hasAnimal := len(others) > 0 || consistency.MentionsAnimal(in.Scene.EnhancedPrompt)
	return b.String(), NegativePrompt(hasAnimal)
}

func splitBySubject(chars []schema.Character) (humans, others []schema.Character) {
	for _, c := range chars {
		switch consistency.ClassifySubject(c) {
		case schema.SubjectHuman:
			humans = append(humans, c)
		default:
			others = append(others, c)
		}
	}
	return humans, others
}

// describeHuman renders a human character's identity line. The stored
// clothing field is ignored in favor of the resolved outfit.
func describeHuman(c schema.Character, outfits map[string]string) string {
	parts := []string{c.Name}
	if c.Age != "" {
		parts = append(parts, c.Age+" years old")
	}
	if c.HairColor != "" {
		parts = append(parts, c.HairColor+" hair")
	}
	if c.SkinTone != "" {
		parts = append(parts, c.SkinTone+" skin")
	}
	if outfit, ok := outfits[strings.ToLower(strings.TrimSpace(c.Name))]; ok && outfit != "" {
		parts = append(parts, "wearing "+outfit)
	}
	if c.OtherFeatures != "" {
		parts = append(parts, c.OtherFeatures)
	}
	return strings.Join(parts, ", ")
}

// describeNonHuman renders an animal/creature/object line. Human-specific
// fields are never emitted here, even if stored on the record.
func describeNonHuman(c schema.Character) string {
	desc := strings.TrimSpace(c.FullDescription)
	if desc == "" {
		desc = strings.TrimSpace(c.OtherFeatures)
	}
	if desc == "" {
		return fmt.Sprintf("%s (%s)", c.Name, consistency.ClassifySubject(c))
	}
	return fmt.Sprintf("%s: %s", c.Name, desc)
}
