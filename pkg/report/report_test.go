package report_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specalign/pkg/report"
	"github.com/agentstation/specalign/pkg/specs"
)

var generated = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

func emptyMap() *specs.Map {
	return &specs.Map{
		GeneratedAt:      generated,
		SelfSpecID:       "GQTS-CORE",
		CanonicalTerms:   []specs.TermCluster{},
		CanonicalClauses: []specs.ClauseCluster{},
		Conflicts:        []specs.Conflict{},
		Gaps:             []specs.Gap{},
	}
}

func TestRenderClean(t *testing.T) {
	self := &specs.Index{SpecID: "GQTS-CORE"}

	out, err := report.String(self, nil, emptyMap())
	require.NoError(t, err)

	want := `# Alignment Report

Generated: 2026-10-19T08:30:00.000Z
Self spec: GQTS-CORE
Peer specs loaded: none

## What Changed
- No in-place spec edits were applied.

## Duplicates Removed
- None (analysis-only run).

## Cross-References Added
- None (analysis-only run).

## Key Conflicts
- None.

## Remaining Gaps (UNSPECIFIED/TODO)
- None.

## Output Files
- spec-index.self.json
- spec-index.peers.json
- cross-spec-map.json
- alignment-report.md
- proposed-changes.patch
`
	assert.Equal(t, want, out)
}

func TestRenderFindings(t *testing.T) {
	self := &specs.Index{
		SpecID: "GQTS-CORE",
		ShadowedClauses: []specs.ShadowedClause{
			{ClauseID: "REQ-GQTS-03", Anchor: "#req-gossip"},
		},
	}
	peers := []*specs.Index{{SpecID: "GDIS-CORE"}, {SpecID: "GQSCD-CORE"}}

	m := emptyMap()
	m.Conflicts = []specs.Conflict{
		{Kind: specs.ConflictTermDefinition, NormalizedTerm: "device", MemberSpecs: []string{"GQSCD-CORE", "GDIS-CORE"}, DefinitionHashes: []string{"aa", "bb"}},
		{Kind: specs.ConflictOperationContract, ClauseConcept: "issue", MemberSpecs: []string{"A", "B"}},
	}
	m.Gaps = []specs.Gap{
		{Type: specs.GapUndefinedTerm, SpecID: "GQTS-CORE", TermReference: "R&D <draft>"},
		{Type: specs.GapUnanchoredRequirement, SpecID: "GDIS-CORE", RequirementID: "REQ-X-1"},
	}

	out, err := report.String(self, peers, m)
	require.NoError(t, err)

	assert.Contains(t, out, "Peer specs loaded: GDIS-CORE, GQSCD-CORE\n")
	assert.Contains(t, out, "## Duplicates Removed\n- GQTS-CORE: later REQ-GQTS-03 at #req-gossip differs from the first occurrence and was not indexed.\n")
	assert.Contains(t, out, `- term-definition-conflict: {"kind":"term-definition-conflict","normalized_term":"device","member_specs":["GQSCD-CORE","GDIS-CORE"],"definition_hashes":["aa","bb"]}`)
	assert.Contains(t, out, `- operation-contract-conflict: {"kind":"operation-contract-conflict","clause_concept":"issue","member_specs":["A","B"]}`)
	assert.Contains(t, out, `- undefined-term: {"type":"undefined-term","spec_id":"GQTS-CORE","term_reference":"R&D <draft>"}`)
	assert.Contains(t, out, `- unanchored-requirement-reference: {"type":"unanchored-requirement-reference","spec_id":"GDIS-CORE","requirement_id":"REQ-X-1"}`)
	assert.NotContains(t, out, "- None.")
}

func TestRenderMissing(t *testing.T) {
	missing := []specs.MissingPeer{
		{SpecID: "GDIS-CORE", Repo: "z-base/gdis", Missing: "index.html", AttemptedPaths: []string{"/w/peers/gdis", "/w/snap/gdis"}},
		{SpecID: "UNSPECIFIED", Repo: "UNSPECIFIED", Missing: "index.html", AttemptedPaths: []string{}},
	}

	out, err := report.MissingString(missing)
	require.NoError(t, err)

	want := "# Alignment Report\n\n" +
		"Status: FAILED (missing peer snapshots)\n\n" +
		"## Missing Inputs\n" +
		"- GDIS-CORE (z-base/gdis): index.html. Attempted: /w/peers/gdis, /w/snap/gdis\n" +
		"- UNSPECIFIED (UNSPECIFIED): index.html. Attempted: none\n\n" +
		"## Required Action\n" +
		"- Provide local peer snapshots in `localSnapshotPaths` and rerun.\n"
	assert.Equal(t, want, out)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderWriteError(t *testing.T) {
	err := report.Render(failingWriter{}, &specs.Index{SpecID: "A"}, nil, emptyMap())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	var buf bytes.Buffer
	require.NoError(t, report.RenderMissing(&buf, nil))
	assert.True(t, strings.HasPrefix(buf.String(), "# Alignment Report\n"))
}
