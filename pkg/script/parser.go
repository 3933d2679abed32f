package script

import (
	"fmt"
	"regexp"
	"strings"

	"fable/pkg/schema"
)

var scenePrefixRX = regexp.MustCompile(`(?i)^scene\s*\d+\s*[:.\-]\s*`)

// Parse splits a raw script into ordered scene stubs. One non-blank line per
// scene, optional "Scene N:" prefixes stripped. An empty script yields an
// empty list; enforcing a minimum belongs to the caller.
//
// The returned warnings flag scenes that mention no known character. That is
// allowed (scenery, weather, generic roles only), but worth surfacing.
func Parse(raw string, characters []schema.Character) ([]schema.SceneStub, []string) {
	var stubs []schema.SceneStub
	var warnings []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(scenePrefixRX.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}

		stub := schema.SceneStub{
			SceneNumber:  len(stubs) + 1,
			RawText:      line,
			Characters:   mentionedCharacters(line, characters),
			GenericRoles: DetectRoles(line),
		}
		if len(stub.Characters) == 0 {
			warnings = append(warnings, fmt.Sprintf("scene %d mentions no known character", stub.SceneNumber))
		}
		stubs = append(stubs, stub)
	}

	return stubs, warnings
}

// mentionedCharacters matches known character names case-insensitively as
// substrings, preserving roster order.
func mentionedCharacters(line string, characters []schema.Character) []string {
	lower := strings.ToLower(line)
	var out []string
	for _, c := range characters {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(name)) {
			out = append(out, name)
		}
	}
	return out
}
