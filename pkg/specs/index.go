package specs

import (
	"strings"

	"github.com/agentstation/specalign/pkg/errors"
)

// Identity names a document. All three fields are required.
type Identity struct {
	SpecID  string `json:"spec_id" yaml:"spec_id"`
	Repo    string `json:"repo" yaml:"repo"`
	HomeURL string `json:"home_url" yaml:"home_url"`
}

// Validate reports the first missing identity field as a ConfigError.
// component prefixes the field name, e.g. "self" yields "self.specId".
func (id Identity) Validate(component string) error {
	fields := []struct {
		name  string
		value string
	}{
		{"specId", id.SpecID},
		{"repo", id.Repo},
		{"homeUrl", id.HomeURL},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return errors.NewConfigError(component, "missing config value: "+component+"."+f.name, errors.ErrMissingIdentity)
		}
	}
	return nil
}

// Files records where a Spec Index was read from. Nil paths were absent.
type Files struct {
	IndexHTML   string  `json:"index_html" yaml:"index_html"`
	OpenAPIYAML *string `json:"openapi_yaml" yaml:"openapi_yaml"`
	AgentsMD    *string `json:"agents_md" yaml:"agents_md"`
}

// Index is the structured extraction of one document.
type Index struct {
	SpecID                string           `json:"spec_id" yaml:"spec_id"`
	Repo                  string           `json:"repo" yaml:"repo"`
	HomeURL               string           `json:"home_url" yaml:"home_url"`
	CommitOrVersion       string           `json:"commit_or_version" yaml:"commit_or_version"`
	Files                 Files            `json:"files" yaml:"files"`
	Terms                 []Term           `json:"terms" yaml:"terms"`
	Clauses               []Clause         `json:"clauses" yaml:"clauses"`
	TermReferences        []string         `json:"term_references" yaml:"term_references"`
	RequirementReferences []string         `json:"requirement_references" yaml:"requirement_references"`
	CrossSpecReferences   []CrossReference `json:"cross_spec_references" yaml:"cross_spec_references"`
	OpenAPI               *ContractSet     `json:"openapi" yaml:"openapi"`
	ShadowedClauses       []ShadowedClause `json:"shadowed_clauses,omitempty" yaml:"shadowed_clauses,omitempty"`
}

// ClauseIDs returns the set of clause ids defined in this index.
func (ix *Index) ClauseIDs() map[string]struct{} {
	set := make(map[string]struct{}, len(ix.Clauses))
	for _, c := range ix.Clauses {
		set[c.ClauseID] = struct{}{}
	}
	return set
}

// Operations returns the API operations of the attached contract, if any.
func (ix *Index) Operations() []Operation {
	if ix.OpenAPI == nil {
		return nil
	}
	return ix.OpenAPI.Operations
}

// Term is a defined vocabulary entry.
type Term struct {
	TermText              string  `json:"term_text" yaml:"term_text"`
	TermID                string  `json:"term_id" yaml:"term_id"`
	Anchor                string  `json:"anchor" yaml:"anchor"`
	SectionAnchor         *string `json:"section_anchor" yaml:"section_anchor"`
	DefinitionExcerptHash *string `json:"definition_excerpt_hash" yaml:"definition_excerpt_hash"`
	DefinitionTextExcerpt string  `json:"definition_text_excerpt" yaml:"definition_text_excerpt"`
}

// ClauseKind classifies a clause.
type ClauseKind string

// Clause kinds.
const (
	KindRequirement ClauseKind = "requirement"
	KindAlgorithm   ClauseKind = "algorithm"
	KindInvariant   ClauseKind = "invariant"
)

// Clause is a normatively relevant, identifiable passage.
type Clause struct {
	ClauseID              string     `json:"clause_id" yaml:"clause_id"`
	Anchor                string     `json:"anchor" yaml:"anchor"`
	Kind                  ClauseKind `json:"kind" yaml:"kind"`
	NormativeKeywordsUsed []string   `json:"normative_keywords_used" yaml:"normative_keywords_used"`
	TextExcerptHash       string     `json:"text_excerpt_hash" yaml:"text_excerpt_hash"`
	TextExcerpt           string     `json:"text_excerpt" yaml:"text_excerpt"`
}

// ShadowedClause is a later (clause id, element id) duplicate whose content
// differed from the first occurrence and was therefore dropped.
type ShadowedClause struct {
	ClauseID        string `json:"clause_id" yaml:"clause_id"`
	Anchor          string `json:"anchor" yaml:"anchor"`
	TextExcerptHash string `json:"text_excerpt_hash" yaml:"text_excerpt_hash"`
	KeptExcerptHash string `json:"kept_excerpt_hash" yaml:"kept_excerpt_hash"`
}

// ReferenceKind tells how a cross-document reference was written.
type ReferenceKind string

// Reference kinds.
const (
	RefHref  ReferenceKind = "href"
	RefLabel ReferenceKind = "label"
)

// CrossReference points at another specification family.
type CrossReference struct {
	Kind         ReferenceKind `json:"kind" yaml:"kind"`
	TargetSpecID string        `json:"target_spec_id" yaml:"target_spec_id"`
	Href         *string       `json:"href" yaml:"href"`
	Label        string        `json:"label" yaml:"label"`
}
