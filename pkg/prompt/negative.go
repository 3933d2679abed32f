package prompt

import "strings"

// baseNegative suppresses the usual anatomy and quality failure modes.
var baseNegative = []string{
	"blurry", "low quality", "deformed", "bad anatomy",
	"extra limbs", "missing limbs", "extra fingers", "fused fingers",
	"distorted face", "asymmetric eyes", "crossed eyes",
	"watermark", "text", "signature", "frame", "border",
	"scary", "creepy", "dark and disturbing",
}

// hybridNegative is appended only when an animal or creature shares the scene
// with humans. Image models like to fuse a child and a co-present dog into
// one body; naming the failure is the cheapest mitigation.
var hybridNegative = []string{
	"human-animal hybrid", "anthropomorphic fusion", "merged creatures",
	"animal ears on human", "human face on animal", "half-human half-animal",
	"furry", "centaur-like fusion",
}

// NegativePrompt builds the exclusion list for one scene.
func NegativePrompt(hasAnimal bool) string {
	terms := baseNegative
	if hasAnimal {
		terms = append(append([]string{}, baseNegative...), hybridNegative...)
	}
	return strings.Join(terms, ", ")
}
