package specs

import "time"

// Status values for a Map. A complete run leaves Status empty.
const (
	StatusPeerSnapshotsMissing = "peer-snapshots-missing"
)

// Map is the cross-document alignment computed by one run.
type Map struct {
	GeneratedAt      time.Time       `json:"generated_at" yaml:"generated_at"`
	SelfSpecID       string          `json:"self_spec_id" yaml:"self_spec_id"`
	CanonicalTerms   []TermCluster   `json:"canonical_terms" yaml:"canonical_terms"`
	CanonicalClauses []ClauseCluster `json:"canonical_clauses" yaml:"canonical_clauses"`
	Conflicts        []Conflict      `json:"conflicts" yaml:"conflicts"`
	Gaps             []Gap           `json:"gaps" yaml:"gaps"`
	Status           string          `json:"status,omitempty" yaml:"status,omitempty"`
	MissingPeers     []MissingPeer   `json:"missing_peers,omitempty" yaml:"missing_peers,omitempty"`
}

// Degraded reports whether the map was produced without all peers.
func (m *Map) Degraded() bool {
	return m.Status == StatusPeerSnapshotsMissing
}

// TermCluster groups terms from every index that share a normalized form.
type TermCluster struct {
	CanonicalTerm        string       `json:"canonical_term" yaml:"canonical_term"`
	CanonicalOwnerSpecID string       `json:"canonical_owner_spec_id" yaml:"canonical_owner_spec_id"`
	CanonicalAnchor      string       `json:"canonical_anchor" yaml:"canonical_anchor"`
	Aliases              []string     `json:"aliases" yaml:"aliases"`
	Members              []TermMember `json:"members" yaml:"members"`
}

// TermMember is one term inside a cluster.
type TermMember struct {
	SpecID         string  `json:"spec_id" yaml:"spec_id"`
	TermText       string  `json:"term_text" yaml:"term_text"`
	TermID         string  `json:"term_id" yaml:"term_id"`
	Anchor         string  `json:"anchor" yaml:"anchor"`
	DefinitionHash *string `json:"definition_hash" yaml:"definition_hash"`
}

// ClauseCluster groups API operations that share a concept key.
type ClauseCluster struct {
	ClauseConcept        string         `json:"clause_concept" yaml:"clause_concept"`
	CanonicalOwnerSpecID string         `json:"canonical_owner_spec_id" yaml:"canonical_owner_spec_id"`
	CanonicalClauseID    string         `json:"canonical_clause_id" yaml:"canonical_clause_id"`
	MemberClauseIDs      []ClauseMember `json:"member_clause_ids" yaml:"member_clause_ids"`
}

// ClauseMember is one operation inside a clause cluster.
type ClauseMember struct {
	SpecID        string  `json:"spec_id" yaml:"spec_id"`
	RequirementID *string `json:"requirement_id" yaml:"requirement_id"`
	Method        string  `json:"method" yaml:"method"`
	Path          string  `json:"path" yaml:"path"`
}

// ConflictKind tags a Conflict.
type ConflictKind string

// Conflict kinds.
const (
	ConflictTermDefinition     ConflictKind = "term-definition-conflict"
	ConflictRequirementIDSpace ConflictKind = "requirement-id-namespace-conflict"
	ConflictOperationContract  ConflictKind = "operation-contract-conflict"
)

// Conflict is a disagreement detected inside one cluster. Which optional
// fields are set depends on Kind.
type Conflict struct {
	Kind             ConflictKind `json:"kind" yaml:"kind"`
	NormalizedTerm   string       `json:"normalized_term,omitempty" yaml:"normalized_term,omitempty"`
	ClauseConcept    string       `json:"clause_concept,omitempty" yaml:"clause_concept,omitempty"`
	MemberSpecs      []string     `json:"member_specs" yaml:"member_specs"`
	DefinitionHashes []string     `json:"definition_hashes,omitempty" yaml:"definition_hashes,omitempty"`
	RequirementIDs   []string     `json:"requirement_ids,omitempty" yaml:"requirement_ids,omitempty"`
}

// Subject returns the normalized term or clause concept the conflict is about.
func (c Conflict) Subject() string {
	if c.NormalizedTerm != "" {
		return c.NormalizedTerm
	}
	return c.ClauseConcept
}

// GapType tags a Gap.
type GapType string

// Gap types.
const (
	GapUndefinedTerm         GapType = "undefined-term"
	GapUnanchoredRequirement GapType = "unanchored-requirement-reference"
)

// Gap is a reference that resolves to nothing in scope.
type Gap struct {
	Type          GapType `json:"type" yaml:"type"`
	SpecID        string  `json:"spec_id" yaml:"spec_id"`
	TermReference string  `json:"term_reference,omitempty" yaml:"term_reference,omitempty"`
	RequirementID string  `json:"requirement_id,omitempty" yaml:"requirement_id,omitempty"`
}

// Subject returns the term reference or requirement id the gap is about.
func (g Gap) Subject() string {
	if g.TermReference != "" {
		return g.TermReference
	}
	return g.RequirementID
}

// MissingPeer describes a declared peer whose primary document could not be
// located.
type MissingPeer struct {
	SpecID         string   `json:"spec_id" yaml:"spec_id"`
	Repo           string   `json:"repo" yaml:"repo"`
	Missing        string   `json:"missing" yaml:"missing"`
	AttemptedPaths []string `json:"attempted_paths" yaml:"attempted_paths"`
}
