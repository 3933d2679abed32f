package schema

// ImageRequest is one request to the image-generation provider.
// ReferenceImages carries the fetched bytes of the character reference
// portraits; when present the provider conditions generation on them.
type ImageRequest struct {
	Prompt          string   `json:"prompt"`
	NegativePrompt  string   `json:"negative_prompt"`
	ReferenceURLs   []string `json:"reference_urls,omitempty"`
	ReferenceImages [][]byte `json:"-"`
	Seed            int64    `json:"seed"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Steps           int      `json:"steps"`
	CFGScale        float64  `json:"cfg_scale"`
}

// DefaultImageRequest returns generation settings tuned for storybook pages.
// Seed -1 lets the provider pick one; a story run overrides it so every scene
// shares the same seed.
func DefaultImageRequest() *ImageRequest {
	return &ImageRequest{
		Seed:     -1,
		Width:    1024,
		Height:   768,
		Steps:    28,
		CFGScale: 6.5,
	}
}

// SetPrompts fills the positive and negative prompt in one call.
func (r *ImageRequest) SetPrompts(prompt, negative string) {
	r.Prompt = prompt
	r.NegativePrompt = negative
}
