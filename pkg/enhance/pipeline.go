package enhance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"
	"github.com/segmentio/ksuid"

	"fable/pkg/consistency"
	"fable/pkg/flight"
	"fable/pkg/inference"
	"fable/pkg/planner"
	"fable/pkg/prompt"
	"fable/pkg/queue"
	"fable/pkg/schema"
	"fable/pkg/script"
	"fable/pkg/utils"
)

// Pipeline runs one story-generation request end to end: parse, plan, one
// text call, response normalization, then per-scene prompt compilation for
// the image loop. All cross-scene state (outfit pins) lives in objects scoped
// to a single run.
type Pipeline struct {
	Inferencer inference.Inferencer
	Queue      queue.Queue

	refs flight.Cache[string, []byte]
}

func NewPipeline(inf inference.Inferencer, q queue.Queue) *Pipeline {
	p := &Pipeline{
		Inferencer: inf,
		Queue:      q,
		refs:       flight.NewCache(fetchReference),
	}
	// Reference portraits rarely change mid-story; a short strong hold and a
	// small bound are plenty.
	p.refs.Expiry(5 * time.Minute)
	p.refs.Limit(64)
	return p
}

// GenerateScenes performs the parse → plan → text-model → normalize half of
// the pipeline. It never fails on model misbehavior: an unparseable reply
// degrades to verbatim scenes instead.
func (p *Pipeline) GenerateScenes(ctx context.Context, req schema.StoryRequest) (*schema.StoryResult, error) {
	stubs, warnings := script.Parse(req.Script, req.Characters)
	if len(stubs) == 0 {
		return nil, errors.New("script contains no scenes")
	}

	plan := planner.Build(req, stubs)
	result := &schema.StoryResult{
		StoryID:  ksuid.New().String(),
		Warnings: warnings,
	}

	params := &openai.ChatCompletionNewParams{
		ResponseFormat: schema.StructuredOutputsResponseFormat(),
	}
	if tokens, err := utils.NumTokens(plan.Instructions); err == nil {
		params.MaxCompletionTokens = openai.Int(max(int64(tokens)*2, 8192))
		log.Debug("planned story", "story", result.StoryID, "scenes", plan.TargetScenes, "tokens", tokens)
	}

	out, err := p.Inferencer.Infer(ctx, params, plan.Instructions, "Write the storybook scenes now. Output only the JSON.")
	if err != nil {
		log.Warn("text generation failed, using verbatim scenes", "story", result.StoryID, "error", err)
		result.Scenes = Fallback(stubs)
		result.Degraded = true
		return result, nil
	}

	scenes, err := ParseResponse(out, stubs, req.Expansion)
	if err != nil {
		log.Warn("unparseable model reply, using verbatim scenes", "story", result.StoryID, "error", err)
		log.Debug("raw model reply", "output", utils.LimitStr(out, 500))
		result.Scenes = Fallback(stubs)
		result.Degraded = true
		return result, nil
	}

	result.Scenes = scenes
	log.Info("scenes generated", "story", result.StoryID, "count", len(scenes), "target", plan.TargetScenes)
	return result, nil
}

// Preview parses and plans without touching any external provider, for
// letting users inspect scene stubs and the instruction block up front.
func (p *Pipeline) Preview(req schema.StoryRequest) (planner.Plan, []string) {
	stubs, warnings := script.Parse(req.Script, req.Characters)
	return planner.Build(req, stubs), warnings
}

// ScenePrompt is one scene's compiled image request material.
type ScenePrompt struct {
	SceneNumber   int      `json:"scene_number"`
	Prompt        string   `json:"prompt"`
	Negative      string   `json:"negative"`
	ReferenceURLs []string `json:"reference_urls,omitempty"`
}

// CompilePrompts resolves outfits and compiles the image prompt for every
// scene. It owns the per-run OutfitCache, so it must be called once per
// story and fully resolves all pins before any parallel fan-out a caller
// might attempt.
func (p *Pipeline) CompilePrompts(req schema.StoryRequest, scenes []schema.EnhancedScene) []ScenePrompt {
	outfits := consistency.NewOutfitCache()
	out := make([]ScenePrompt, 0, len(scenes))

	for _, sc := range scenes {
		chars := rosterFor(sc, req.Characters)
		sceneText := sc.EnhancedPrompt + " " + sc.Caption

		resolved := make(map[string]string, len(chars))
		var refURLs []string
		for _, c := range chars {
			if consistency.IsHuman(c) {
				resolved[strings.ToLower(strings.TrimSpace(c.Name))] = outfits.Resolve(c, sceneText)
			}
			if c.HasReference && c.ReferenceURL != "" {
				refURLs = append(refURLs, c.ReferenceURL)
			}
		}

		enhanced, negative := prompt.Compile(prompt.SceneInput{
			Scene:        sc,
			Characters:   chars,
			Outfits:      resolved,
			GenericRoles: script.DetectRoles(sceneText),
			ArtStyle:     req.ArtStyle,
		})

		out = append(out, ScenePrompt{
			SceneNumber:   sc.SceneNumber,
			Prompt:        enhanced,
			Negative:      negative,
			ReferenceURLs: refURLs,
		})
	}
	return out
}

// RenderScene generates one scene's image. Failures are the caller's to
// record; one failed scene never aborts the story.
func (p *Pipeline) RenderScene(ctx context.Context, sp ScenePrompt, seed int64) ([]io.Reader, error) {
	if p.Queue == nil {
		return nil, errors.New("image queue not configured")
	}

	// Attach reference portrait bytes so the provider conditions on them.
	// A failed fetch degrades to prompt-only rendering for that reference.
	var refImages [][]byte
	for _, url := range sp.ReferenceURLs {
		data, err := p.refs.Get(url)
		if err != nil {
			log.Warn("reference image fetch failed", "url", url, "error", err)
			continue
		}
		refImages = append(refImages, data)
	}

	req := schema.DefaultImageRequest()
	req.SetPrompts(sp.Prompt, sp.Negative)
	req.ReferenceURLs = sp.ReferenceURLs
	req.ReferenceImages = refImages
	req.Seed = seed

	respCh, errCh, err := p.Queue.Add(req)
	if err != nil {
		return nil, fmt.Errorf("queue add failed: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errCh:
		return nil, err
	case images := <-respCh:
		if len(images) == 0 {
			return nil, errors.New("no images generated")
		}
		return images, nil
	}
}

// rosterFor matches a scene's character names back to roster records.
// Names tagged "(NEW)" by the model have no record and are skipped; slightly
// mangled names are recovered by similarity.
func rosterFor(sc schema.EnhancedScene, roster []schema.Character) []schema.Character {
	var out []schema.Character
	seen := make(map[string]bool, len(sc.CharacterNames))
	for _, name := range sc.CharacterNames {
		name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), "(NEW)"))
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		if c, ok := findCharacter(roster, name); ok {
			seen[strings.ToLower(name)] = true
			out = append(out, c)
		}
	}
	return out
}

func findCharacter(roster []schema.Character, name string) (schema.Character, bool) {
	for _, c := range roster {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return c, true
		}
	}
	for _, c := range roster {
		if utils.Similarity(c.Name, name) >= 0.8 {
			return c, true
		}
	}
	return schema.Character{}, false
}

func fetchReference(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", url, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 16<<20))
}
