package server

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/gen2brain/webp"
)

func ensureStoryImageDir() error {
	path := filepath.Join("images", "stories")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}
	return nil
}

// saveSceneWebP re-encodes a scene image as WebP and writes it under
// images/stories, returning the URL path it is served from.
func saveSceneWebP(r io.Reader, storyID string, scene int) (string, error) {
	if err := ensureStoryImageDir(); err != nil {
		return "", fmt.Errorf("failed to create image dir: %w", err)
	}

	imgBytes, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	// Providers usually hand back PNG; fall back to generic decode otherwise.
	img, err := png.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		var err2 error
		img, _, err2 = image.Decode(bytes.NewReader(imgBytes))
		if err2 != nil {
			return "", fmt.Errorf("failed to decode image (png: %v, generic: %v)", err, err2)
		}
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, webp.Options{Lossless: false, Quality: 100}); err != nil {
		return "", fmt.Errorf("failed to encode webp: %w", err)
	}

	filename := fmt.Sprintf("%s-%d.webp", storyID, scene)
	fullPath := filepath.Join("images", "stories", filename)
	if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", fullPath, err)
	}

	return "/images/stories/" + filename, nil
}
