package sdwebui

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fable/pkg/schema"
)

// referenceDenoise leaves enough of the reference visible that the character's
// identity carries over while the prompt still drives the scene.
const referenceDenoise = 0.65

// Client talks to a Stable Diffusion WebUI compatible endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:7860"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
}

type txt2imgRequest struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt"`
	Seed           int64   `json:"seed"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Steps          int     `json:"steps"`
	CFGScale       float64 `json:"cfg_scale"`
	BatchSize      int     `json:"batch_size"`
}

type img2imgRequest struct {
	txt2imgRequest
	InitImages        []string `json:"init_images"`
	DenoisingStrength float64  `json:"denoising_strength"`
}

type generateResponse struct {
	Images []string `json:"images"`
	Detail string   `json:"detail,omitempty"`
}

// Generate renders one request and returns the decoded images. Requests
// carrying reference-image bytes go through img2img so the character
// portraits condition the render; everything else is plain txt2img.
func (c *Client) Generate(req *schema.ImageRequest) ([]io.Reader, error) {
	base := txt2imgRequest{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Seed:           req.Seed,
		Width:          req.Width,
		Height:         req.Height,
		Steps:          req.Steps,
		CFGScale:       req.CFGScale,
		BatchSize:      1,
	}

	if len(req.ReferenceImages) > 0 {
		body := img2imgRequest{
			txt2imgRequest:    base,
			DenoisingStrength: referenceDenoise,
		}
		for _, img := range req.ReferenceImages {
			body.InitImages = append(body.InitImages, base64.StdEncoding.EncodeToString(img))
		}
		return c.post("/sdapi/v1/img2img", body)
	}

	return c.post("/sdapi/v1/txt2img", base)
}

func (c *Client) post(path string, body any) ([]io.Reader, error) {
	bin, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", path, err)
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(bin))
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%s returned %s: %s", path, resp.Status, strings.TrimSpace(string(slurp)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}
	if len(out.Images) == 0 {
		return nil, errors.New("no images in response")
	}

	readers := make([]io.Reader, 0, len(out.Images))
	for _, img := range out.Images {
		data, err := base64.StdEncoding.DecodeString(img)
		if err != nil {
			return nil, fmt.Errorf("decoding image data: %w", err)
		}
		readers = append(readers, bytes.NewReader(data))
	}
	return readers, nil
}
