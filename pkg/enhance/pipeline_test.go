package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fable/pkg/schema"
)

type stubInferencer struct {
	reply string
	err   error
}

func (s stubInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	return s.reply, s.err
}

func (s stubInferencer) Verify(ctx context.Context, result string) (bool, error) {
	return s.reply != "", nil
}

type stubQueue struct {
	fail bool
	last *schema.ImageRequest
}

func (q *stubQueue) Start() {}
func (q *stubQueue) Stop()  {}

func (q *stubQueue) Add(req *schema.ImageRequest) (chan []io.Reader, chan error, error) {
	q.last = req
	respCh := make(chan []io.Reader, 1)
	errCh := make(chan error, 1)
	if q.fail {
		errCh <- errors.New("render failed")
	} else {
		respCh <- []io.Reader{strings.NewReader("fake-png")}
	}
	return respCh, errCh, nil
}

func sceneReply(scenes []schema.EnhancedScene) string {
	b, _ := json.Marshal(schema.SceneList{Scenes: scenes})
	return string(b)
}

func baseRequest() schema.StoryRequest {
	return schema.StoryRequest{
		Script: "Mia finds a key.\nMia opens the door.",
		Characters: []schema.Character{
			{Name: "Mia", HairColor: "brown", Clothing: "yellow dress"},
		},
		Age:       6,
		Tone:      schema.TonePlayful,
		Expansion: schema.AsWritten,
		Language:  schema.English,
	}
}

func TestGenerateScenes(t *testing.T) {
	reply := sceneReply([]schema.EnhancedScene{
		{Title: "The Key", EnhancedPrompt: "Mia kneels by a glittering key", Caption: "Mia finds a key.", CharacterNames: []string{"Mia"}},
		{Title: "The Door", EnhancedPrompt: "Mia pushes open an old door", Caption: "Mia opens the door.", CharacterNames: []string{"Mia"}},
	})
	p := NewPipeline(stubInferencer{reply: reply}, &stubQueue{})

	result, err := p.GenerateScenes(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, result.StoryID)
	assert.False(t, result.Degraded)
	require.Len(t, result.Scenes, 2)
	assert.Equal(t, 1, result.Scenes[0].SceneNumber)
	assert.Equal(t, "Mia finds a key.", result.Scenes[0].Caption)
}

func TestGenerateScenesDegradesOnInferenceError(t *testing.T) {
	p := NewPipeline(stubInferencer{err: errors.New("provider down")}, &stubQueue{})

	result, err := p.GenerateScenes(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	require.Len(t, result.Scenes, 2)
	assert.Equal(t, "Mia finds a key.", result.Scenes[0].EnhancedPrompt)
	assert.Equal(t, "Mia opens the door.", result.Scenes[1].Caption)
}

func TestGenerateScenesDegradesOnGarbageReply(t *testing.T) {
	p := NewPipeline(stubInferencer{reply: "I'm sorry, I can't write that story."}, &stubQueue{})

	result, err := p.GenerateScenes(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Len(t, result.Scenes, 2)
}

func TestGenerateScenesEmptyScript(t *testing.T) {
	p := NewPipeline(stubInferencer{}, &stubQueue{})
	req := baseRequest()
	req.Script = "   \n\n  "

	_, err := p.GenerateScenes(context.Background(), req)
	assert.Error(t, err)
}

func TestCompilePromptsPinsOutfitAcrossScenes(t *testing.T) {
	p := NewPipeline(stubInferencer{}, &stubQueue{})
	req := baseRequest()
	req.Characters = []schema.Character{{Name: "Leo", HairColor: "black", Clothing: "red jacket"}}

	scenes := []schema.EnhancedScene{
		{SceneNumber: 1, EnhancedPrompt: "Leo waves hello from the porch", Caption: "Leo waves.", CharacterNames: []string{"Leo"}},
		{SceneNumber: 2, EnhancedPrompt: "Leo pretends to be a firefighter", Caption: "Leo plays.", CharacterNames: []string{"Leo"}},
		{SceneNumber: 3, EnhancedPrompt: "Leo runs across the meadow", Caption: "Leo runs.", CharacterNames: []string{"Leo"}},
	}

	prompts := p.CompilePrompts(req, scenes)
	require.Len(t, prompts, 3)
	assert.Contains(t, prompts[0].Prompt, "red jacket")
	assert.Contains(t, prompts[1].Prompt, "firefighter uniform")
	// the costume scene must not disturb the pinned everyday outfit
	assert.Contains(t, prompts[2].Prompt, "red jacket")
}

func TestCompilePromptsMatchesMangledNames(t *testing.T) {
	p := NewPipeline(stubInferencer{}, &stubQueue{})
	req := baseRequest()

	scenes := []schema.EnhancedScene{
		{SceneNumber: 1, EnhancedPrompt: "A girl in the garden", Caption: "Hello.", CharacterNames: []string{"Mia (NEW)"}},
	}

	prompts := p.CompilePrompts(req, scenes)
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0].Prompt, "Mia")
	assert.Contains(t, prompts[0].Prompt, "yellow dress")
}

func TestRenderScene(t *testing.T) {
	q := &stubQueue{}
	p := NewPipeline(stubInferencer{}, q)

	readers, err := p.RenderScene(context.Background(), ScenePrompt{
		SceneNumber: 1,
		Prompt:      "Mia in the garden",
		Negative:    "blurry",
	}, 42)
	require.NoError(t, err)
	require.Len(t, readers, 1)

	require.NotNil(t, q.last)
	assert.Equal(t, int64(42), q.last.Seed)
	assert.Equal(t, "Mia in the garden", q.last.Prompt)
	assert.Equal(t, "blurry", q.last.NegativePrompt)
}

func TestRenderSceneAttachesReferenceBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("portrait-bytes"))
	}))
	defer srv.Close()

	q := &stubQueue{}
	p := NewPipeline(stubInferencer{}, q)

	_, err := p.RenderScene(context.Background(), ScenePrompt{
		SceneNumber:   1,
		Prompt:        "Mia waves",
		ReferenceURLs: []string{srv.URL},
	}, 7)
	require.NoError(t, err)

	require.NotNil(t, q.last)
	require.Len(t, q.last.ReferenceImages, 1)
	assert.Equal(t, []byte("portrait-bytes"), q.last.ReferenceImages[0])
}

func TestRenderSceneToleratesFailedReferenceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	q := &stubQueue{}
	p := NewPipeline(stubInferencer{}, q)

	_, err := p.RenderScene(context.Background(), ScenePrompt{
		SceneNumber:   1,
		Prompt:        "Mia waves",
		ReferenceURLs: []string{srv.URL},
	}, 7)
	require.NoError(t, err)
	require.NotNil(t, q.last)
	assert.Empty(t, q.last.ReferenceImages)
}

func TestRenderSceneFailure(t *testing.T) {
	p := NewPipeline(stubInferencer{}, &stubQueue{fail: true})

	_, err := p.RenderScene(context.Background(), ScenePrompt{SceneNumber: 1, Prompt: "x"}, 1)
	assert.Error(t, err)
}

func TestRenderSceneNoQueue(t *testing.T) {
	p := &Pipeline{Inferencer: stubInferencer{}}

	_, err := p.RenderScene(context.Background(), ScenePrompt{SceneNumber: 1}, 1)
	assert.Error(t, err)
}
