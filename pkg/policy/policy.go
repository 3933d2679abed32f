package policy

import (
	"fable/pkg/schema"
)

// Scene count bounds per expansion level.
const (
	lightMinScenes = 10
	richScenes     = 15
)

// TargetSceneCount decides how many scenes the text model should emit.
// as_written keeps the script's own count; light fills short scripts out to
// at least a 10-page book without ever dropping scenes; rich always targets
// a full 15-page book.
func TargetSceneCount(rawCount, age int, level schema.ExpansionLevel) int {
	switch level {
	case schema.Light:
		if rawCount > lightMinScenes {
			return rawCount
		}
		return lightMinScenes
	case schema.Rich:
		return richScenes
	default:
		return rawCount
	}
}

type ageBand struct {
	max int // inclusive upper age bound
	en  string
	zh  string
}

// Bands are evaluated in order; first band whose max covers the age wins.
var readingBands = []ageBand{
	{
		max: 2,
		en:  "Use only the simplest words a toddler hears daily. One very short sentence per scene, 3-5 words. Heavy repetition and sound words (woof, splash, yay) are encouraged.",
		zh:  "只使用幼儿每天听到的最简单词语。每个场景一句非常短的话，三到五个字。多用重复和拟声词（汪汪、哗啦、耶）。",
	},
	{
		max: 4,
		en:  "Use simple everyday vocabulary. One or two short sentences per scene, under 8 words each. Repeat key phrases across scenes so the child can chime in.",
		zh:  "使用简单的日常词汇。每个场景一到两句短句，每句不超过十个字。在多个场景重复关键短语，方便孩子跟读。",
	},
	{
		max: 5,
		en:  "Use kindergarten-level vocabulary with a few stretch words explained by context. Two short sentences per scene. Simple cause and effect is welcome.",
		zh:  "使用幼儿园水平的词汇，可加入少量能从上下文猜出的新词。每个场景两句短句。可以有简单的因果关系。",
	},
	{
		max: 6,
		en:  "Use early-reader vocabulary. Two to three sentences per scene with simple connectors (and, but, so). Dialogue in short bursts is fine.",
		zh:  "使用初级读者词汇。每个场景两到三句话，用简单连词（和、但是、所以）。可以有简短的对话。",
	},
	{
		max: 8,
		en:  "Use elementary vocabulary with occasional richer words. Three to four sentences per scene. Include feelings and simple motivations.",
		zh:  "使用小学低年级词汇，偶尔加入较丰富的词语。每个场景三到四句话。描写人物的感受和简单动机。",
	},
	{
		max: 10,
		en:  "Use confident middle-grade vocabulary. Four to five sentences per scene with varied sentence openings. Show character emotions through actions.",
		zh:  "使用小学中年级词汇。每个场景四到五句话，句式有变化。通过行动展现人物情绪。",
	},
	{
		max: 12,
		en:  "Use rich upper-elementary vocabulary including figurative language. Five or more sentences per scene. Subplots and internal thoughts are appropriate.",
		zh:  "使用小学高年级的丰富词汇，可包含比喻等修辞。每个场景五句以上。可以有支线情节和内心活动。",
	},
}

// ReadingLevelGuidelines returns vocabulary and sentence-length guidance for
// the given reading age in the given output language. Ages above the last
// band clamp to it.
func ReadingLevelGuidelines(age int, lang schema.Language) string {
	band := readingBands[len(readingBands)-1]
	for _, b := range readingBands {
		if age <= b.max {
			band = b
			break
		}
	}
	if lang == schema.Chinese {
		return band.zh
	}
	return band.en
}

type toneEntry struct {
	en string
	zh string
}

var toneTable = map[schema.Tone]toneEntry{
	schema.TonePlayful: {
		en: "Keep the voice bouncy and fun. Use silly sounds, jokes, and exclamations. The story should make a child giggle.",
		zh: "语气要活泼有趣。多用滑稽的声音、小笑话和感叹。故事要能逗孩子咯咯笑。",
	},
	schema.ToneGentle: {
		en: "Keep the voice soft and soothing, suitable for bedtime. Calm rhythms, warm reassurance, no sudden scares.",
		zh: "语气要温柔舒缓，适合睡前阅读。节奏平静，充满温暖的安抚，不要突然的惊吓。",
	},
	schema.ToneAdventurous: {
		en: "Keep the voice bold and exciting. Build anticipation scene to scene, with brave choices and small cliffhangers that resolve kindly.",
		zh: "语气要大胆刺激。场景之间层层递进，有勇敢的选择和善意化解的小悬念。",
	},
	schema.ToneEducational: {
		en: "Weave one clear thing to learn into the story. Name things accurately and let characters ask questions a curious child would ask.",
		zh: "把一个清晰的知识点编进故事里。准确地称呼事物，让角色提出好奇的孩子会问的问题。",
	},
}

// ToneGuidelines returns narrative-voice guidance for the tone in the given
// language. Unknown tones fall back to playful.
func ToneGuidelines(tone schema.Tone, lang schema.Language) string {
	e, ok := toneTable[tone]
	if !ok {
		e = toneTable[schema.TonePlayful]
	}
	if lang == schema.Chinese {
		return e.zh
	}
	return e.en
}
