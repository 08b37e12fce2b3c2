package specalign

import (
	"github.com/agentstation/specalign/pkg/errors"
	"github.com/agentstation/specalign/pkg/specs"
)

// Outcome is everything one run produced.
type Outcome struct {
	Self  *specs.Index
	Peers []*specs.Index
	Map   *specs.Map

	// Report is the rendered Markdown report.
	Report string

	// Patch is the diff snapshot of the self documents, or a placeholder.
	Patch string

	// MissingPeers lists peers whose documents were not found. A non-empty
	// list means Map is the degraded placeholder.
	MissingPeers []specs.MissingPeer

	// OutputDir is the resolved artifact directory.
	OutputDir string
}

// Degraded reports whether peers were missing.
func (o *Outcome) Degraded() bool {
	return len(o.MissingPeers) > 0
}

// Err returns a MissingPeersError for a degraded run and nil otherwise.
func (o *Outcome) Err() error {
	if !o.Degraded() {
		return nil
	}
	ids := make([]string, len(o.MissingPeers))
	for i, p := range o.MissingPeers {
		ids[i] = p.SpecID
	}
	return errors.NewMissingPeersError(ids)
}

// Summary is the short account of a run printed after it completes.
type Summary struct {
	Self           string `json:"self" yaml:"self"`
	PeersIndexed   int    `json:"peers_indexed" yaml:"peers_indexed"`
	TermClusters   int    `json:"term_clusters" yaml:"term_clusters"`
	ClauseClusters int    `json:"clause_clusters" yaml:"clause_clusters"`
	Conflicts      int    `json:"conflicts" yaml:"conflicts"`
	Gaps           int    `json:"gaps" yaml:"gaps"`
	Artifacts      string `json:"artifacts" yaml:"artifacts"`
}

// Summary condenses the outcome.
func (o *Outcome) Summary() Summary {
	s := Summary{
		Self:         o.Self.SpecID,
		PeersIndexed: len(o.Peers),
		Artifacts:    o.OutputDir,
	}
	if o.Map != nil {
		s.TermClusters = len(o.Map.CanonicalTerms)
		s.ClauseClusters = len(o.Map.CanonicalClauses)
		s.Conflicts = len(o.Map.Conflicts)
		s.Gaps = len(o.Map.Gaps)
	}
	return s
}
