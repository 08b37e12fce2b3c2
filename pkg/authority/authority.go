// Package authority decides which specification family owns a concept that
// appears in more than one document.
//
// Ownership is a heuristic driven by a Table of families. Each family lists
// the vocabulary that marks a concept as belonging to it, the URL slug its
// documents are published under, and optionally an API path segment that
// claims operations outright. New families are added by extending the table;
// the clustering code never names a family.
package authority

import (
	"sort"
	"strings"

	"github.com/agentstation/specalign/pkg/errors"
)

// Authority arbitrates canonical owners for clusters.
type Authority interface {
	// TermOwner picks the owning spec id for a term cluster. corpus is the
	// concatenated display text and excerpts of every member; memberSpecs
	// lists the spec ids present in the cluster.
	TermOwner(corpus string, memberSpecs []string) string

	// OperationOwner returns the family that claims any of the given API
	// paths, if one does.
	OperationOwner(paths []string) (string, bool)
}

// Family is one recognized specification family.
type Family struct {
	SpecID      string   `json:"specId" yaml:"specId" mapstructure:"specId"`
	Slug        string   `json:"slug" yaml:"slug" mapstructure:"slug"`
	Keywords    []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
	PathSegment string   `json:"pathSegment,omitempty" yaml:"pathSegment,omitempty" mapstructure:"pathSegment"`
}

// Table is an ordered set of families. Order matters: it breaks score ties.
type Table struct {
	// Host is where family documents are published; hyperlinks to
	// https://<Host>/<slug>/... are recorded as cross references.
	Host     string   `json:"host" yaml:"host" mapstructure:"host"`
	Families []Family `json:"families" yaml:"families" mapstructure:"families"`
}

// Score is the keyword score of one family for one corpus.
type Score struct {
	SpecID string
	Hits   int
}

// Default returns the built-in three-family table.
func Default() *Table {
	return &Table{
		Host: "z-base.github.io",
		Families: []Family{
			{
				SpecID:   "GQSCD-CORE",
				Slug:     "gqscd",
				Keywords: []string{"device", "controller", "signature creation", "hardware", "attestation", "intent"},
			},
			{
				SpecID:   "GDIS-CORE",
				Slug:     "gdis",
				Keywords: []string{"identity", "pid", "binding", "issuance", "attribute", "identification", "mrz"},
			},
			{
				SpecID:      "GQTS-CORE",
				Slug:        "gqts",
				Keywords:    []string{"event", "log", "replication", "scheme", "service descriptor", "gossip", "publication"},
				PathSegment: "/gqts/",
			},
		},
	}
}

// Validate checks that every family has a spec id and slug and that neither
// is declared twice.
func (t *Table) Validate() error {
	if t == nil || len(t.Families) == 0 {
		return errors.NewValidationError("authority.families", nil, "at least one family is required")
	}
	ids := make(map[string]struct{}, len(t.Families))
	slugs := make(map[string]struct{}, len(t.Families))
	for i, f := range t.Families {
		if f.SpecID == "" || f.Slug == "" {
			return errors.NewValidationError("authority.families", i, "family needs specId and slug")
		}
		if _, dup := ids[f.SpecID]; dup {
			return errors.NewValidationError("authority.families", f.SpecID, "duplicate specId")
		}
		if _, dup := slugs[strings.ToLower(f.Slug)]; dup {
			return errors.NewValidationError("authority.families", f.Slug, "duplicate slug")
		}
		ids[f.SpecID] = struct{}{}
		slugs[strings.ToLower(f.Slug)] = struct{}{}
	}
	return nil
}

// BySlug returns the family published under slug, matched case-insensitively.
func (t *Table) BySlug(slug string) *Family {
	for i := range t.Families {
		if strings.EqualFold(t.Families[i].Slug, slug) {
			return &t.Families[i]
		}
	}
	return nil
}

// SpecIDs lists the family spec ids in table order.
func (t *Table) SpecIDs() []string {
	ids := make([]string, len(t.Families))
	for i, f := range t.Families {
		ids[i] = f.SpecID
	}
	return ids
}

// Slugs lists the family slugs in table order.
func (t *Table) Slugs() []string {
	slugs := make([]string, len(t.Families))
	for i, f := range t.Families {
		slugs[i] = f.Slug
	}
	return slugs
}

// Scores counts, per family, how many of its keywords occur in corpus.
// Matching is case-insensitive; each keyword counts once.
func (t *Table) Scores(corpus string) []Score {
	lowered := strings.ToLower(corpus)
	scores := make([]Score, len(t.Families))
	for i, f := range t.Families {
		scores[i].SpecID = f.SpecID
		for _, kw := range f.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				scores[i].Hits++
			}
		}
	}
	return scores
}

// TermOwner implements Authority. The highest scoring family wins (ties go
// to the earlier family) when its score is positive and it is a member of the
// cluster. Otherwise the lexicographically first member spec id owns it.
func (t *Table) TermOwner(corpus string, memberSpecs []string) string {
	scores := t.Scores(corpus)
	if len(scores) > 0 {
		best := scores[0]
		for _, s := range scores[1:] {
			if s.Hits > best.Hits {
				best = s
			}
		}
		if best.Hits > 0 && contains(memberSpecs, best.SpecID) {
			return best.SpecID
		}
	}

	if len(memberSpecs) == 0 {
		return ""
	}
	sorted := append([]string(nil), memberSpecs...)
	sort.Strings(sorted)
	return sorted[0]
}

// OperationOwner implements Authority. The first family (in table order)
// whose path segment appears in any of paths claims them.
func (t *Table) OperationOwner(paths []string) (string, bool) {
	for _, f := range t.Families {
		if f.PathSegment == "" {
			continue
		}
		for _, p := range paths {
			if strings.Contains(p, f.PathSegment) {
				return f.SpecID, true
			}
		}
	}
	return "", false
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
