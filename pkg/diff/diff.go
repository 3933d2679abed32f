package diff

import (
	"strings"
	"unicode"

	"github.com/aryann/difflib"
)

type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

type WordDelta struct {
	Op   Op
	Text string
}

// StringDiff is a word-level comparison of two strings.
type StringDiff struct {
	Old    string
	New    string
	Deltas []WordDelta
}

// TokenizeWords splits a string into word, whitespace and punctuation runs so
// diffs align on words instead of characters.
func TokenizeWords(s string) []string {
	var out []string
	var cur []rune
	kind := -1 // 0=space,1=word,2=punct
	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
	}
	for _, r := range s {
		k := 2
		switch {
		case unicode.IsSpace(r):
			k = 0
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-' || r == '\'':
			k = 1
		}
		if kind == -1 {
			kind = k
		}
		if k != kind {
			flush()
			kind = k
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

func Words(a, b string) []WordDelta {
	at := TokenizeWords(a)
	bt := TokenizeWords(b)
	recs := difflib.Diff(at, bt)
	out := make([]WordDelta, 0, len(recs))
	for _, r := range recs {
		switch r.Delta {
		case difflib.Common:
			out = append(out, WordDelta{Op: Equal, Text: r.Payload})
		case difflib.LeftOnly:
			out = append(out, WordDelta{Op: Delete, Text: r.Payload})
		case difflib.RightOnly:
			out = append(out, WordDelta{Op: Insert, Text: r.Payload})
		}
	}
	return out
}

func Compare(old, new string) StringDiff {
	return StringDiff{Old: old, New: new, Deltas: Words(old, new)}
}

// ChangeRatio measures how much of Old was rewritten to get New, as the
// fraction of deltas that insert or delete a word token. Whitespace and
// punctuation churn is ignored. 0 = identical, 1 = nothing shared.
func (d StringDiff) ChangeRatio() float64 {
	var words, changed int
	for _, delta := range d.Deltas {
		if !isWordToken(delta.Text) {
			continue
		}
		words++
		if delta.Op != Equal {
			changed++
		}
	}
	if words == 0 {
		return 0
	}
	return float64(changed) / float64(words)
}

// Changed lists the inserted and deleted word tokens, for logging what a model
// rewrote.
func (d StringDiff) Changed() []string {
	var out []string
	for _, delta := range d.Deltas {
		if delta.Op == Equal || !isWordToken(delta.Text) {
			continue
		}
		switch delta.Op {
		case Insert:
			out = append(out, "+"+strings.TrimSpace(delta.Text))
		case Delete:
			out = append(out, "-"+strings.TrimSpace(delta.Text))
		}
	}
	return out
}

func isWordToken(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}
