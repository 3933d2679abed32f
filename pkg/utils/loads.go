package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a JSON file into a value of type T.
func Load[T any](path string) (T, error) {
	var v T
	f, err := os.Open(path)
	if err != nil {
		return v, err
	}
	defer f.Close()
	return v, json.NewDecoder(f).Decode(&v)
}

// Save writes a value as indented JSON, creating parent directories as
// needed.
func Save[T any](path string, v T) error {
	if strings.Contains(filepath.Clean(path), string(os.PathSeparator)) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
