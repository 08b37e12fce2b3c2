// Package canon provides the text canonicalization primitives shared by the
// extractors and the alignment engine: whitespace collapsing, lexical
// normalization for fuzzy term matching, markup cleaning, slugs, and content
// hashing.
//
// Every function in this package is pure and deterministic. Two byte-identical
// inputs always produce byte-identical outputs, which is what makes alignment
// artifacts reproducible across runs.
package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	underscoreHyphens = regexp.MustCompile(`[_-]+`)

	// entityReplacements are applied in order; "&amp;lt;" therefore decodes to "<".
	entityReplacements = [][2]string{
		{"&nbsp;", " "},
		{"&amp;", "&"},
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&#39;", "'"},
		{"&quot;", `"`},
	}
)

// Canon collapses every whitespace run to a single space and trims the result.
// Excerpts are passed through Canon before hashing so formatting-only edits
// never change a definition's identity.
func Canon(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Normalize reduces a term to the lexical key used for cross-document
// clustering. Punctuation becomes whitespace, runs collapse, everything is
// lower-cased, and each token longer than three characters that ends in a
// single "s" loses it. Tokens ending in "ss" ("class", "access") are left
// alone, which keeps Normalize idempotent.
func Normalize(text string) string {
	lowered := cases.Lower(language.Und).String(text)
	lowered = underscoreHyphens.ReplaceAllString(lowered, " ")
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, lowered)

	tokens := strings.Fields(mapped)
	for i, tok := range tokens {
		tokens[i] = singular(tok)
	}
	return strings.Join(tokens, " ")
}

// singular drops one trailing "s" from tokens longer than three runes.
func singular(tok string) string {
	if utf8.RuneCountInString(tok) <= 3 || !strings.HasSuffix(tok, "s") || strings.HasSuffix(tok, "ss") {
		return tok
	}
	return tok[:len(tok)-1]
}

// Clean strips markup tags, collapses whitespace and decodes the handful of
// character entities that commonly appear in specification prose.
func Clean(markup string) string {
	out := Canon(tagPattern.ReplaceAllString(markup, " "))
	for _, r := range entityReplacements {
		out = strings.ReplaceAll(out, r[0], r[1])
	}
	return out
}

// Slug derives a stable identifier from display text: lower-cased, reduced to
// letters, digits, spaces and hyphens, with whitespace runs joined by a
// hyphen. An empty result falls back to "term".
func Slug(text string) string {
	lowered := cases.Lower(language.Und).String(text)
	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || r == '-' {
			return r
		}
		return -1
	}, lowered)
	slug := strings.Join(strings.Fields(kept), "-")
	if slug == "" {
		return "term"
	}
	return slug
}

// Cut truncates text to at most n runes, marking truncation with "...".
func Cut(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	keep := n - 3
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + "..."
}

// Hash returns the hex-encoded SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashString is Hash for string input.
func HashString(s string) string {
	return Hash([]byte(s))
}

// Uniq removes duplicates while preserving first-seen order. The result is
// never nil so it always serializes as an array.
func Uniq[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
