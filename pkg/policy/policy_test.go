package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fable/pkg/schema"
)

func TestTargetSceneCountAsWritten(t *testing.T) {
	for _, age := range []int{0, 2, 5, 8, 12, 99} {
		for n := 0; n <= 30; n++ {
			assert.Equal(t, n, TargetSceneCount(n, age, schema.AsWritten))
		}
	}
}

func TestTargetSceneCountRich(t *testing.T) {
	for _, age := range []int{0, 3, 7, 12} {
		for _, n := range []int{0, 1, 5, 15, 40} {
			assert.Equal(t, 15, TargetSceneCount(n, age, schema.Rich))
		}
	}
}

func TestTargetSceneCountLight(t *testing.T) {
	assert.Equal(t, 10, TargetSceneCount(3, 5, schema.Light))
	assert.Equal(t, 10, TargetSceneCount(10, 5, schema.Light))
	assert.Equal(t, 11, TargetSceneCount(11, 5, schema.Light))
	assert.Equal(t, 12, TargetSceneCount(12, 5, schema.Light))
	// never below the script's own count
	assert.Equal(t, 14, TargetSceneCount(14, 5, schema.Light))
}

func TestReadingLevelBands(t *testing.T) {
	// distinct guidance across band boundaries
	assert.NotEqual(t, ReadingLevelGuidelines(2, schema.English), ReadingLevelGuidelines(3, schema.English))
	assert.NotEqual(t, ReadingLevelGuidelines(4, schema.English), ReadingLevelGuidelines(5, schema.English))
	assert.NotEqual(t, ReadingLevelGuidelines(5, schema.English), ReadingLevelGuidelines(6, schema.English))
	assert.NotEqual(t, ReadingLevelGuidelines(6, schema.English), ReadingLevelGuidelines(7, schema.English))
	assert.NotEqual(t, ReadingLevelGuidelines(8, schema.English), ReadingLevelGuidelines(9, schema.English))
	assert.NotEqual(t, ReadingLevelGuidelines(10, schema.English), ReadingLevelGuidelines(11, schema.English))

	// same band, same guidance
	assert.Equal(t, ReadingLevelGuidelines(3, schema.English), ReadingLevelGuidelines(4, schema.English))
	assert.Equal(t, ReadingLevelGuidelines(7, schema.English), ReadingLevelGuidelines(8, schema.English))

	// above the last band clamps to it
	assert.Equal(t, ReadingLevelGuidelines(12, schema.English), ReadingLevelGuidelines(40, schema.English))
}

func TestReadingLevelLanguages(t *testing.T) {
	for _, age := range []int{2, 4, 5, 6, 8, 10, 12} {
		en := ReadingLevelGuidelines(age, schema.English)
		zh := ReadingLevelGuidelines(age, schema.Chinese)
		assert.NotEmpty(t, en)
		assert.NotEmpty(t, zh)
		assert.NotEqual(t, en, zh)
	}
}

func TestToneGuidelines(t *testing.T) {
	tones := []schema.Tone{schema.TonePlayful, schema.ToneGentle, schema.ToneAdventurous, schema.ToneEducational}
	seen := map[string]bool{}
	for _, tone := range tones {
		g := ToneGuidelines(tone, schema.English)
		assert.NotEmpty(t, g)
		assert.False(t, seen[g], "duplicate guidance for %s", tone)
		seen[g] = true
		assert.NotEqual(t, g, ToneGuidelines(tone, schema.Chinese))
	}
	// unknown tone falls back to playful
	assert.Equal(t, ToneGuidelines(schema.TonePlayful, schema.English), ToneGuidelines(schema.Tone("spooky"), schema.English))
}

func TestSelectArchitecture(t *testing.T) {
	a := SelectArchitecture("adventure")
	if assert.NotNil(t, a) {
		assert.NotEmpty(t, a.Beats)
		assert.NotEmpty(t, a.FlowNotes)
	}
	assert.NotNil(t, SelectArchitecture("  Friendship "))
	assert.Nil(t, SelectArchitecture("unknown"))
	assert.Nil(t, SelectArchitecture(""))
}
