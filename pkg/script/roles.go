package script

import (
	"regexp"
	"strings"
)

// genericRoles is the fixed vocabulary of unnamed background figures a scene
// may mention. Ordered so multi-word roles win over their components.
var genericRoles = []string{
	"police officer",
	"bus driver",
	"ice cream man",
	"teacher",
	"policeman",
	"firefighter",
	"doctor",
	"nurse",
	"mom",
	"dad",
	"grandma",
	"grandpa",
	"baby",
	"stranger",
	"shopkeeper",
	"farmer",
	"librarian",
	"waiter",
	"pilot",
	"clown",
}

var roleRX = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(genericRoles))
	for _, r := range genericRoles {
		m[r] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(r) + `\b`)
	}
	return m
}()

// DetectRoles returns the generic roles present in the line, whole-word
// matched, in vocabulary order. A role contained in an already matched
// multi-word role is skipped ("police officer" does not also yield "officer").
func DetectRoles(line string) []string {
	var out []string
	matched := strings.Builder{}
	for _, role := range genericRoles {
		if !roleRX[role].MatchString(line) {
			continue
		}
		if matched.Len() > 0 && strings.Contains(strings.ToLower(matched.String()), strings.ToLower(role)) {
			continue
		}
		out = append(out, role)
		matched.WriteString(role + " ")
	}
	return out
}
