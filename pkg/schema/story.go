package schema

import "strings"

// Language selects the output language for captions and guidance text.
type Language string

const (
	English Language = "en"
	Chinese Language = "zh"
)

func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zh", "zh-cn", "chinese", "中文":
		return Chinese
	default:
		return English
	}
}

// Tone shapes the narrative voice of captions.
type Tone string

const (
	TonePlayful     Tone = "playful"
	ToneGentle      Tone = "gentle"
	ToneAdventurous Tone = "adventurous"
	ToneEducational Tone = "educational"
)

// ExpansionLevel controls how much the pipeline may lengthen or restructure
// the user's original script.
type ExpansionLevel string

const (
	AsWritten ExpansionLevel = "as_written"
	Light     ExpansionLevel = "light"
	Rich      ExpansionLevel = "rich"
)

func ParseExpansionLevel(s string) ExpansionLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light
	case "rich":
		return Rich
	default:
		return AsWritten
	}
}

// SubjectType classifies what a character physically is. It decides which
// description fields apply and whether hybrid-prevention terms are needed.
type SubjectType string

const (
	SubjectHuman    SubjectType = "human"
	SubjectAnimal   SubjectType = "animal"
	SubjectCreature SubjectType = "creature"
	SubjectObject   SubjectType = "object"
	SubjectScenery  SubjectType = "scenery"
)

// Character is a read-only record from the character store.
type Character struct {
	Name            string      `json:"name"`
	SubjectType     SubjectType `json:"subject_type,omitempty"`
	HairColor       string      `json:"hair_color,omitempty"`
	SkinTone        string      `json:"skin_tone,omitempty"`
	Clothing        string      `json:"clothing,omitempty"`
	Age             string      `json:"age,omitempty"`
	OtherFeatures   string      `json:"other_features,omitempty"`
	HasReference    bool        `json:"has_reference_image,omitempty"`
	ReferenceURL    string      `json:"reference_url,omitempty"`
	FullDescription string      `json:"full_description,omitempty"`
}

// SceneStub is one line of the user's script after parsing. Immutable.
type SceneStub struct {
	SceneNumber  int      `json:"scene_number"`
	RawText      string   `json:"raw_text"`
	Characters   []string `json:"characters,omitempty"`
	GenericRoles []string `json:"generic_roles,omitempty"`
}

// Mentions reports whether the stub detected the named character,
// case-insensitively.
func (s SceneStub) Mentions(name string) bool {
	for _, c := range s.Characters {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// StoryArchitecture is an optional narrative template. Its content is only
// ever interpolated into the instruction text sent to the text model; the
// pipeline never verifies the model honored it.
type StoryArchitecture struct {
	Category    string   `json:"category"`
	Beats       []string `json:"required_beats"`
	FlowNotes   string   `json:"scene_flow_guidance"`
	Checkpoints []string `json:"pedagogical_checkpoints,omitempty"`
}

// EnhancedScene is one scene as returned by the text model and normalized by
// the response parser. Read-only afterward; one EnhancedScene feeds exactly
// one image-generation call.
type EnhancedScene struct {
	SceneNumber    int      `json:"sceneNumber" jsonschema_description:"1-based scene number, contiguous"`
	Title          string   `json:"title" jsonschema_description:"Short scene title in the output language"`
	RawDescription string   `json:"rawDescription,omitempty" jsonschema_description:"The original script line this scene derives from, or empty for new scenes"`
	EnhancedPrompt string   `json:"enhanced_prompt" jsonschema_description:"English visual description of the scene for image generation"`
	Caption        string   `json:"caption" jsonschema_description:"Age-appropriate page text in the output language"`
	CharacterNames []string `json:"characterNames" jsonschema_description:"Names of characters appearing in this scene; tag new ones with (NEW)"`
	IsNewCharacter bool     `json:"isNewCharacter,omitempty" jsonschema_description:"True when the scene introduces a character not in the roster"`
}

// SceneImage is the outcome of one scene's image-generation call.
type SceneImage struct {
	SceneNumber int    `json:"scene_number"`
	URL         string `json:"url,omitempty"`
	Error       string `json:"error,omitempty"`
}

// StoryRequest is the caller contract for one story-generation run.
type StoryRequest struct {
	Script     string         `json:"script"`
	Characters []Character    `json:"characters"`
	Age        int            `json:"age"`
	Tone       Tone           `json:"tone"`
	Expansion  ExpansionLevel `json:"expansion"`
	Language   Language       `json:"language"`
	Category   string         `json:"category,omitempty"`
	ArtStyle   string         `json:"art_style,omitempty"`
	Seed       int64          `json:"seed,omitempty"`
}

// StoryResult is everything produced by one run.
type StoryResult struct {
	StoryID  string          `json:"story_id"`
	Scenes   []EnhancedScene `json:"scenes"`
	Images   []SceneImage    `json:"images,omitempty"`
	Degraded bool            `json:"degraded,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}
