package enhance

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"fable/pkg/diff"
	"fable/pkg/schema"
	"fable/pkg/utils"
)

// captionDriftLimit is the fraction of words allowed to change in as_written
// mode before the model's caption is considered rewritten rather than
// typo-corrected, and the original line is restored. A typo fix counts as one
// deletion plus one insertion, so a handful of fixes stays well under this.
const captionDriftLimit = 0.5

// ParseResponse extracts and normalizes the text model's reply into enhanced
// scenes. The scan is deliberately permissive: prose around the JSON,
// markdown fences and reasoning tags are tolerated, and both the
// {"scenes": [...]} wrapper and a bare array are accepted.
//
// On any parse failure the whole batch fails; callers fall back to
// Fallback(stubs). Per-scene validation problems never fail the batch —
// missing fields are filled from the originating stub, paired by position.
func ParseResponse(raw string, stubs []schema.SceneStub, level schema.ExpansionLevel) ([]schema.EnhancedScene, error) {
	scenes, err := extractScenes(raw)
	if err != nil {
		return nil, err
	}
	if len(scenes) == 0 {
		return nil, errors.New("model returned no scenes")
	}

	if level == schema.AsWritten && len(scenes) > len(stubs) {
		// literal mode permits no new scenes, whatever the model thinks
		scenes = scenes[:len(stubs)]
	}

	for i := range scenes {
		stub := stubFor(stubs, i)
		normalize(&scenes[i], i+1, stub, level)
	}

	if level == schema.AsWritten {
		// pad against the stubs so the caller always gets every script line
		for i := len(scenes); i < len(stubs); i++ {
			scenes = append(scenes, fallbackScene(stubs[i]))
		}
	}

	return scenes, nil
}

// Fallback produces the degraded no-enhancement batch: every scene's prompt
// and caption are the raw script line itself.
func Fallback(stubs []schema.SceneStub) []schema.EnhancedScene {
	out := make([]schema.EnhancedScene, 0, len(stubs))
	for _, s := range stubs {
		out = append(out, fallbackScene(s))
	}
	return out
}

func fallbackScene(stub schema.SceneStub) schema.EnhancedScene {
	return schema.EnhancedScene{
		SceneNumber:    stub.SceneNumber,
		Title:          fmt.Sprintf("Scene %d", stub.SceneNumber),
		RawDescription: stub.RawText,
		EnhancedPrompt: stub.RawText,
		Caption:        stub.RawText,
		CharacterNames: stub.Characters,
	}
}

// stubFor pairs a reply element to its originating stub by position, clamped
// to the last stub when the model returned more scenes than the script had.
func stubFor(stubs []schema.SceneStub, i int) *schema.SceneStub {
	if len(stubs) == 0 {
		return nil
	}
	if i >= len(stubs) {
		return &stubs[len(stubs)-1]
	}
	return &stubs[i]
}

func normalize(sc *schema.EnhancedScene, num int, stub *schema.SceneStub, level schema.ExpansionLevel) {
	sc.SceneNumber = num
	if stub == nil {
		if sc.Title == "" {
			sc.Title = fmt.Sprintf("Scene %d", num)
		}
		return
	}

	if sc.Title == "" {
		sc.Title = fmt.Sprintf("Scene %d", num)
	}
	if sc.EnhancedPrompt == "" {
		sc.EnhancedPrompt = stub.RawText
	}
	if sc.Caption == "" {
		sc.Caption = stub.RawText
	}
	if len(sc.CharacterNames) == 0 {
		sc.CharacterNames = stub.Characters
	}
	if sc.RawDescription == "" && !sc.IsNewCharacter {
		sc.RawDescription = stub.RawText
	}

	// In as_written mode the caption carries a literal-preservation
	// guarantee. Typo fixes pass; rewrites are rolled back.
	if level == schema.AsWritten {
		if d := diff.Compare(stub.RawText, sc.Caption); d.ChangeRatio() > captionDriftLimit {
			log.Debug("caption rewritten, restoring original", "scene", num, "changed", d.Changed())
			sc.Caption = stub.RawText
		}
	}
}

func extractScenes(raw string) ([]schema.EnhancedScene, error) {
	out := utils.CleanJSON(raw)
	if idx := strings.LastIndex(out, "</think>"); idx != -1 {
		out = strings.TrimSpace(out[idx+len("</think>"):])
	}

	// Wrapper object first: {"scenes": [...]}
	if start := strings.Index(out, "{"); start != -1 {
		if end := strings.LastIndex(out, "}"); end > start {
			var wrapper schema.SceneList
			if err := json.Unmarshal([]byte(out[start:end+1]), &wrapper); err == nil && len(wrapper.Scenes) > 0 {
				return wrapper.Scenes, nil
			}
		}
	}

	// Bare array, ignoring surrounding prose.
	start := strings.Index(out, "[")
	end := strings.LastIndex(out, "]")
	if start == -1 || end <= start {
		return nil, errors.New("no JSON array found in model reply")
	}

	var scenes []schema.EnhancedScene
	if err := json.Unmarshal([]byte(out[start:end+1]), &scenes); err != nil {
		return nil, fmt.Errorf("parsing scene array: %w", err)
	}
	return scenes, nil
}
