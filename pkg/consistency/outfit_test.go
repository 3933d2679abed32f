package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fable/pkg/schema"
)

func TestOutfitPinsBaseClothing(t *testing.T) {
	leo := schema.Character{Name: "Leo", SubjectType: schema.SubjectHuman, Clothing: "red jacket"}
	cache := NewOutfitCache()

	assert.Equal(t, "red jacket", cache.Resolve(leo, "Leo plays at the park"))
	assert.Equal(t, "firefighter uniform with helmet", cache.Resolve(leo, "Leo pretends to be a firefighter"))
	assert.Equal(t, "red jacket", cache.Resolve(leo, "Leo is back at the park"))
}

func TestRoleCostumeNeverMutatesPin(t *testing.T) {
	mia := schema.Character{Name: "Mia", Clothing: "yellow dress"}
	cache := NewOutfitCache()

	cache.Resolve(mia, "Mia waters the flowers")
	cache.Resolve(mia, "Mia pretends she is a doctor for her teddy")

	pinned, ok := cache.Pinned("Mia")
	require.True(t, ok)
	assert.Equal(t, "yellow dress", pinned)
}

func TestOutfitResolutionIsIdempotent(t *testing.T) {
	c := schema.Character{Name: "Sam"}
	cache := NewOutfitCache()

	first := cache.Resolve(c, "Sam walks to school")
	second := cache.Resolve(c, "Sam eats lunch")
	assert.Equal(t, first, second)
}

func TestThemeDefaultWhenNoBaseClothing(t *testing.T) {
	c := schema.Character{Name: "Nina"}
	cache := NewOutfitCache()

	outfit := cache.Resolve(c, "Nina hangs a stocking on Christmas eve")
	assert.Equal(t, "festive red and green pajamas", outfit)

	// pinned for the rest of the story
	assert.Equal(t, outfit, cache.Resolve(c, "Nina opens a present"))
}

func TestBaseClothingBeatsTheme(t *testing.T) {
	c := schema.Character{Name: "Nina", Clothing: "blue overalls"}
	cache := NewOutfitCache()
	assert.Equal(t, "blue overalls", cache.Resolve(c, "Nina decorates the christmas tree"))
}

func TestResetClearsPins(t *testing.T) {
	c := schema.Character{Name: "Leo", Clothing: "red jacket"}
	cache := NewOutfitCache()
	cache.Resolve(c, "Leo at the park")

	cache.Reset()
	_, ok := cache.Pinned("Leo")
	assert.False(t, ok)
}

func TestRoleCostume(t *testing.T) {
	tests := []struct {
		text    string
		costume string
		ok      bool
	}{
		{"Leo pretends to be a firefighter", "firefighter uniform with helmet", true},
		{"Mia dresses up as an astronaut", "white astronaut suit with round helmet", true},
		{"They play doctor with the stuffed animals", "white doctor coat with stethoscope", true},
		{"Everyone swims in the pool", "swimsuit", true},
		{"A day at the beach", "swimsuit", true},
		{"Leo meets a real firefighter at the station", "", false},
		{"Leo rides his bike", "", false},
	}
	for _, tt := range tests {
		costume, ok := RoleCostume(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.costume, costume, tt.text)
	}
}

func TestDetectTheme(t *testing.T) {
	tests := []struct {
		text  string
		theme string
		ok    bool
	}{
		{"Santa visits the house", "christmas", true},
		{"Time for bedtime stories", "bedtime", true},
		{"Snow falls on the garden", "winter", true},
		{"A birthday surprise", "birthday", true},
		{"An ordinary walk", "", false},
		// first match wins over later rules
		{"Christmas morning with snow outside", "christmas", true},
	}
	for _, tt := range tests {
		theme, ok := DetectTheme(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.theme, theme, tt.text)
	}
}

func TestClassifySubject(t *testing.T) {
	// creation-time tag wins
	assert.Equal(t, schema.SubjectHuman, ClassifySubject(schema.Character{Name: "Rex the dog", SubjectType: schema.SubjectHuman}))
	assert.Equal(t, schema.SubjectAnimal, ClassifySubject(schema.Character{Name: "Milo", SubjectType: schema.SubjectAnimal}))

	// keyword fallback
	assert.Equal(t, schema.SubjectAnimal, ClassifySubject(schema.Character{Name: "Rex", FullDescription: "a brown dog with floppy ears"}))
	assert.Equal(t, schema.SubjectCreature, ClassifySubject(schema.Character{Name: "Spark the dragon"}))

	// text-only characters default to human
	assert.Equal(t, schema.SubjectHuman, ClassifySubject(schema.Character{Name: "Mia"}))
	// reference image alone does not change the default
	assert.Equal(t, schema.SubjectHuman, ClassifySubject(schema.Character{Name: "Mia", HasReference: true}))
}
