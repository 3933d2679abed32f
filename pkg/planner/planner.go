package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"fable/pkg/policy"
	"fable/pkg/schema"
)

// Plan is the single request handed to the text-generation provider.
type Plan struct {
	Instructions string                    `json:"instructions"`
	TargetScenes int                       `json:"target_scenes"`
	Stubs        []schema.SceneStub        `json:"stubs"`
	Architecture *schema.StoryArchitecture `json:"architecture,omitempty"`
}

const systemHeader = `You are a children's storybook writer and illustrator's assistant. You turn a parent's short scene script into storybook pages.

Return ONLY a JSON object {"scenes": [...]} where each scene has:
  * 'sceneNumber': 1-based, contiguous.
  * 'title': a short scene title in the output language.
  * 'rawDescription': the original script line this scene came from, or empty for a newly invented scene.
  * 'enhanced_prompt': a rich VISUAL description of the scene in English, for an image generator. Describe setting, action, lighting, and mood. Never include dialogue.
  * 'caption': the page text in the output language, matching the reading level and tone below.
  * 'characterNames': names of roster characters in the scene. Tag invented characters with "(NEW)".
No commentary, no markdown fences.`

// Build combines the parsed stubs, the policy tables and the optional story
// architecture into the instruction block for one text-generation call.
func Build(req schema.StoryRequest, stubs []schema.SceneStub) Plan {
	target := policy.TargetSceneCount(len(stubs), req.Age, req.Expansion)
	arch := policy.SelectArchitecture(req.Category)

	var b strings.Builder
	b.WriteString(systemHeader)

	b.WriteString("\n\n## Expansion policy\n")
	switch req.Expansion {
	case schema.Light:
		writeLightMode(&b, target, arch)
	case schema.Rich:
		writeRichMode(&b, target, arch)
	default:
		writeAsWrittenMode(&b, len(stubs))
	}

	b.WriteString("\n## Reading level\n")
	b.WriteString(policy.ReadingLevelGuidelines(req.Age, req.Language))
	b.WriteString("\n\n## Tone\n")
	b.WriteString(policy.ToneGuidelines(req.Tone, req.Language))

	b.WriteString("\n\n## Output language\n")
	if req.Language == schema.Chinese {
		b.WriteString("Write 'title' and 'caption' in Simplified Chinese. 'enhanced_prompt' stays in English.")
	} else {
		b.WriteString("Write 'title' and 'caption' in English. 'enhanced_prompt' stays in English.")
	}

	b.WriteString("\n\n## Characters\n")
	b.WriteString(rosterJSON(req.Characters))

	b.WriteString("\n\n## Script\n")
	for _, s := range stubs {
		fmt.Fprintf(&b, "Scene %d: %s\n", s.SceneNumber, s.RawText)
	}

	return Plan{
		Instructions: b.String(),
		TargetScenes: target,
		Stubs:        stubs,
		Architecture: arch,
	}
}

func writeAsWrittenMode(b *strings.Builder, rawCount int) {
	fmt.Fprintf(b, `Mode: as written.
- Emit EXACTLY %d scenes, one per script line, in the same order.
- Do NOT invent new scenes or new characters.
- 'caption' must preserve the parent's wording verbatim; you may only fix obvious typos.
- 'enhanced_prompt' may still be embellished freely for visual detail.
`, rawCount)
}

func writeLightMode(b *strings.Builder, target int, arch *schema.StoryArchitecture) {
	fmt.Fprintf(b, `Mode: light expansion.
- Target %d scenes. Keep every scene from the script; add connecting scenes where the flow jumps.
- You may add minor secondary characters, tagged "(NEW)" in characterNames.
- Improve clarity and flow, but keep the parent's story recognizably theirs.
`, target)
	if arch != nil {
		b.WriteString("- Where it fits naturally, nudge the structure toward these beats (do not force them):\n")
		for _, beat := range arch.Beats {
			b.WriteString("    - " + beat + "\n")
		}
	}
}

func writeRichMode(b *strings.Builder, target int, arch *schema.StoryArchitecture) {
	fmt.Fprintf(b, `Mode: rich expansion.
- Emit exactly %d scenes. Restructure the script freely into a complete story.
- Every scene must follow causally from the previous one: because X happened, Y happens. Never jump from problem to resolution without showing how.
- You may invent secondary characters, tagged "(NEW)" in characterNames.
`, target)
	if arch != nil {
		b.WriteString("- Build the story on these narrative beats, in order:\n")
		for _, beat := range arch.Beats {
			b.WriteString("    - " + beat + "\n")
		}
		if arch.FlowNotes != "" {
			b.WriteString("- " + arch.FlowNotes + "\n")
		}
		for _, cp := range arch.Checkpoints {
			b.WriteString("- Weave in, age-appropriately: " + cp + "\n")
		}
	}
}

// rosterJSON renders the character roster for the model, dropping internal
// fields it has no business seeing.
func rosterJSON(chars []schema.Character) string {
	type entry struct {
		Name        string `json:"name"`
		SubjectType string `json:"type,omitempty"`
		Description string `json:"description,omitempty"`
	}
	entries := make([]entry, 0, len(chars))
	for _, c := range chars {
		entries = append(entries, entry{
			Name:        c.Name,
			SubjectType: string(c.SubjectType),
			Description: c.FullDescription,
		})
	}
	bin, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(bin)
}
