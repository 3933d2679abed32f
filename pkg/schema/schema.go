package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

// SceneList is the root object the text model must return. Wrapping the array
// in an object keeps strict structured outputs happy.
type SceneList struct {
	Scenes []EnhancedScene `json:"scenes" jsonschema_description:"Ordered list of enhanced scenes for the storybook"`
}

var SceneListSchema = generateSchema[SceneList]()

func StructuredOutputsResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "enhanced_scenes",
		Description: openai.String("Expanded storybook scenes with image prompts and captions"),
		Schema:      SceneListSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
