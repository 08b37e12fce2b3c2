package extract

import (
	"sort"
	"unicode/utf8"
)

// text maps between byte offsets (what regexp reports) and character
// offsets (what the lookahead and lookbehind windows are measured in).
type text struct {
	s      string
	starts []int // byte offset of each rune, plus len(s)
}

func newText(s string) *text {
	starts := make([]int, 0, utf8.RuneCountInString(s)+1)
	for i := range s {
		starts = append(starts, i)
	}
	starts = append(starts, len(s))
	return &text{s: s, starts: starts}
}

// runes returns the character length of the text.
func (t *text) runes() int {
	return len(t.starts) - 1
}

// charAt converts a byte offset on a rune boundary to a character offset.
func (t *text) charAt(b int) int {
	return sort.SearchInts(t.starts, b)
}

// slice returns characters [from, to), clamped to the text.
func (t *text) slice(from, to int) string {
	from = clamp(from, 0, t.runes())
	to = clamp(to, from, t.runes())
	return t.s[t.starts[from]:t.starts[to]]
}

// around returns the window of before characters preceding and after
// characters following byte offset b.
func (t *text) around(b, before, after int) string {
	at := t.charAt(b)
	return t.slice(at-before, at+after)
}

// following returns up to n characters starting at byte offset b.
func (t *text) following(b, n int) string {
	at := t.charAt(b)
	return t.slice(at, at+n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
