package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"fable/pkg/schema"
)

func TestCompileHumanOnly(t *testing.T) {
	enhanced, negative := Compile(SceneInput{
		Scene: schema.EnhancedScene{EnhancedPrompt: "Leo flies a red kite in a sunny park"},
		Characters: []schema.Character{
			{Name: "Leo", SubjectType: schema.SubjectHuman, Age: "6", HairColor: "brown"},
		},
		Outfits: map[string]string{"leo": "red jacket"},
	})

	assert.Contains(t, enhanced, "MAIN HUMAN CHARACTERS")
	assert.Contains(t, enhanced, "Leo, 6 years old, brown hair, wearing red jacket")
	assert.Contains(t, enhanced, "Art style: "+DefaultArtStyle)
	assert.NotContains(t, enhanced, "ANIMALS AND OTHER SUBJECTS")
	assert.NotContains(t, negative, "human-animal hybrid")
}

func TestCompileWithAnimalCharacter(t *testing.T) {
	enhanced, negative := Compile(SceneInput{
		Scene: schema.EnhancedScene{EnhancedPrompt: "Leo and Rex race across the meadow"},
		Characters: []schema.Character{
			{Name: "Leo", SubjectType: schema.SubjectHuman},
			{Name: "Rex", SubjectType: schema.SubjectAnimal, FullDescription: "a small brown dog with floppy ears"},
		},
		Outfits: map[string]string{"leo": "red jacket"},
	})

	assert.Contains(t, enhanced, "ANIMALS AND OTHER SUBJECTS")
	assert.Contains(t, enhanced, "Rex: a small brown dog with floppy ears")
	assert.Contains(t, negative, "human-animal hybrid")
	assert.Contains(t, negative, "anthropomorphic fusion")
}

func TestHybridTermsFromSceneTextAlone(t *testing.T) {
	// "a dog" in the scene text triggers hybrid prevention even with a
	// human-only roster.
	_, negative := Compile(SceneInput{
		Scene:      schema.EnhancedScene{EnhancedPrompt: "Leo throws a ball and a dog chases it"},
		Characters: []schema.Character{{Name: "Leo", SubjectType: schema.SubjectHuman}},
	})
	assert.Contains(t, negative, "human-animal hybrid")
}

func TestNonHumanFieldsSuppressed(t *testing.T) {
	// Human-specific fields stored on an animal record must not leak into
	// the prompt.
	enhanced, _ := Compile(SceneInput{
		Scene: schema.EnhancedScene{EnhancedPrompt: "Rex naps in the sun"},
		Characters: []schema.Character{
			{Name: "Rex", SubjectType: schema.SubjectAnimal, HairColor: "brown", Clothing: "t-shirt", FullDescription: "a sleepy golden retriever"},
		},
	})
	assert.Contains(t, enhanced, "a sleepy golden retriever")
	assert.NotContains(t, enhanced, "t-shirt")
	assert.NotContains(t, enhanced, "brown hair")
}

func TestGenericRolesAsBackground(t *testing.T) {
	enhanced, _ := Compile(SceneInput{
		Scene:        schema.EnhancedScene{EnhancedPrompt: "Mia crosses the street"},
		Characters:   []schema.Character{{Name: "Mia", SubjectType: schema.SubjectHuman}},
		GenericRoles: []string{"police officer"},
	})
	assert.Contains(t, enhanced, "Background figures: police officer")
}

func TestCustomArtStyle(t *testing.T) {
	enhanced, _ := Compile(SceneInput{
		Scene:    schema.EnhancedScene{EnhancedPrompt: "Mia paints"},
		ArtStyle: "flat vector cartoon",
	})
	assert.True(t, strings.HasSuffix(enhanced, "Art style: flat vector cartoon"))
}

func TestNegativePromptBase(t *testing.T) {
	neg := NegativePrompt(false)
	assert.Contains(t, neg, "bad anatomy")
	assert.NotContains(t, neg, "merged creatures")

	withAnimal := NegativePrompt(true)
	assert.Contains(t, withAnimal, "bad anatomy")
	assert.Contains(t, withAnimal, "merged creatures")
}
