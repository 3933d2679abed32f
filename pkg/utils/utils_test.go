package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, Levenshtein("mia", "mia"))
	assert.Equal(t, 3, Levenshtein("", "mia"))
	assert.Equal(t, 1, Levenshtein("kitten", "mitten"))
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Mia", "mia"))
	assert.Equal(t, 1.0, Similarity("  Mia  ", "Mia"))
	assert.Greater(t, Similarity("Grandma Rose", "Grandma Rosie"), 0.8)
	assert.Less(t, Similarity("Mia", "Bartholomew"), 0.3)
}

func TestCleanJSON(t *testing.T) {
	fenced := "```json\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, CleanJSON(fenced))
	assert.Equal(t, `{"a": 1}`, CleanJSON(`{"a": 1}`))
	assert.Equal(t, `{"a": 1}`, CleanJSON("\n  {\"a\": 1}  \n"))
}

func TestLimitStr(t *testing.T) {
	assert.Equal(t, "short", LimitStr("short", 10))
	assert.Equal(t, "lon...", LimitStr("long string", 3))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	path := filepath.Join(t.TempDir(), "nested", "record.json")

	require.NoError(t, Save(path, record{Name: "Mia", Count: 3}))

	got, err := Load[record](path)
	require.NoError(t, err)
	assert.Equal(t, record{Name: "Mia", Count: 3}, got)

	_, err = Load[record](filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c_d", SanitizeFilename(`a/b\c:d`))
	assert.Equal(t, "story", SanitizeFilename("  story  "))
}
