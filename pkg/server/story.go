package server

import (
	"context"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"fable/pkg/schema"
	"fable/pkg/utils"
)

// sceneTimeout bounds each external image call. This is the only temporal
// control around the image loop; the pipeline itself has no cancellation.
const sceneTimeout = 3 * time.Minute

type storyReq struct {
	Script     string             `json:"script"`
	Characters []schema.Character `json:"characters"`
	Age        int                `json:"age"`
	Tone       string             `json:"tone"`
	Expansion  string             `json:"expansion"`
	Language   string             `json:"language"`
	Category   string             `json:"category,omitempty"`
	ArtStyle   string             `json:"art_style,omitempty"`
	Seed       int64              `json:"seed,omitempty"`
	SkipImages bool               `json:"skip_images,omitempty"`
}

func (r storyReq) toRequest() schema.StoryRequest {
	age := r.Age
	if age <= 0 {
		age = 6
	}
	tone := schema.Tone(strings.ToLower(strings.TrimSpace(r.Tone)))
	if tone == "" {
		tone = schema.TonePlayful
	}
	return schema.StoryRequest{
		Script:     r.Script,
		Characters: r.Characters,
		Age:        age,
		Tone:       tone,
		Expansion:  schema.ParseExpansionLevel(r.Expansion),
		Language:   schema.ParseLanguage(r.Language),
		Category:   r.Category,
		ArtStyle:   r.ArtStyle,
		Seed:       r.Seed,
	}
}

// POST /api/stories
func (s *Server) handlePostStory(c echo.Context) error {
	var req storyReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if strings.TrimSpace(req.Script) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "script is required")
	}

	genReq := req.toRequest()
	ctx := c.Request().Context()

	w := utils.NewSSEWriter(c)
	defer w.Close()

	plan, warnings := s.Pipeline.Preview(genReq)
	_ = w.Event("plan", map[string]any{
		"script_scenes": len(plan.Stubs),
		"target_scenes": plan.TargetScenes,
		"warnings":      warnings,
	})

	result, err := s.Pipeline.GenerateScenes(ctx, genReq)
	if err != nil {
		log.Error("scene generation failed", "error", err)
		return w.Event("error", utils.ErrJSON(err.Error()))
	}
	if err := w.Event("scenes", result); err != nil {
		return err
	}

	if !req.SkipImages {
		result.Images = s.renderStory(c, genReq, result, w)
	}

	if err := utils.Save("stories/"+result.StoryID+".json", result); err != nil {
		log.Warn("failed persisting story", "story", result.StoryID, "error", err)
	}

	log.Info("story complete", "story", result.StoryID,
		"scenes", len(result.Scenes), "images", len(result.Images), "degraded", result.Degraded)
	return w.Event("done", result)
}

// renderStory runs the per-scene image loop. Scenes fail independently; a
// storybook with 14 of 15 pages illustrated still ships.
func (s *Server) renderStory(c echo.Context, req schema.StoryRequest, result *schema.StoryResult, w *utils.SSEWriter) []schema.SceneImage {
	seed := req.Seed
	if seed == 0 {
		// one seed shared by all scenes keeps the renders stylistically close
		seed = rand.Int63()
	}

	prompts := s.Pipeline.CompilePrompts(req, result.Scenes)
	images := make([]schema.SceneImage, 0, len(prompts))

	for _, sp := range prompts {
		if cancelled(c) {
			log.Warn("story rendering cancelled by client", "story", result.StoryID)
			break
		}

		img := schema.SceneImage{SceneNumber: sp.SceneNumber}

		sceneCtx, cancel := s.sceneContext(c)
		readers, err := s.Pipeline.RenderScene(sceneCtx, sp, seed)
		cancel()
		if err != nil {
			log.Error("scene image failed", "story", result.StoryID, "scene", sp.SceneNumber, "error", err)
			img.Error = err.Error()
			images = append(images, img)
			_ = w.Event("image_error", img)
			continue
		}

		url, err := saveSceneWebP(readers[0], result.StoryID, sp.SceneNumber)
		if err != nil {
			log.Error("scene image save failed", "story", result.StoryID, "scene", sp.SceneNumber, "error", err)
			img.Error = err.Error()
			images = append(images, img)
			_ = w.Event("image_error", img)
			continue
		}

		img.URL = url
		images = append(images, img)
		_ = w.Event("image", img)
	}

	return images
}

func (s *Server) sceneContext(c echo.Context) (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), sceneTimeout)
}

func cancelled(c echo.Context) bool {
	select {
	case <-c.Request().Context().Done():
		return true
	default:
		return false
	}
}

// POST /api/scenes — parse and plan only, no external calls.
func (s *Server) handlePostScenes(c echo.Context) error {
	var req storyReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	if strings.TrimSpace(req.Script) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "script is required")
	}

	genReq := req.toRequest()
	preview, warnings := s.Pipeline.Preview(genReq)

	return c.JSON(http.StatusOK, map[string]any{
		"plan":     preview,
		"warnings": warnings,
	})
}
