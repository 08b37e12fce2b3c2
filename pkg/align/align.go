// Package align computes the cross-document alignment of a set of Spec
// Indexes: term clusters, operation clusters, the conflicts inside them and
// the references that resolve to nothing.
package align

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/agentstation/specalign/pkg/authority"
	"github.com/agentstation/specalign/pkg/canon"
	"github.com/agentstation/specalign/pkg/constants"
	"github.com/agentstation/specalign/pkg/logging"
	"github.com/agentstation/specalign/pkg/specs"
)

// Engine aligns Spec Indexes. An Engine holds no per-run state and may be
// reused.
type Engine struct {
	authority authority.Authority
	now       func() time.Time
	lang      language.Tag
}

// Option configures an Engine.
type Option func(*Engine)

// WithAuthority replaces the ownership arbiter.
func WithAuthority(a authority.Authority) Option {
	return func(e *Engine) {
		if a != nil {
			e.authority = a
		}
	}
}

// WithClock sets the source of the map's generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLanguage sets the collation used to order clusters.
func WithLanguage(tag language.Tag) Option {
	return func(e *Engine) {
		e.lang = tag
	}
}

// New creates an Engine using the default authority table, the system clock
// and English collation.
func New(opts ...Option) *Engine {
	e := &Engine{
		authority: authority.Default(),
		now:       time.Now,
		lang:      language.English,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Align builds the Map for indexes, which should list the self index first
// followed by every loaded peer.
func (e *Engine) Align(ctx context.Context, indexes []*specs.Index, selfID string) *specs.Map {
	logger := logging.FromContext(ctx)

	m := &specs.Map{
		GeneratedAt: e.generatedAt(),
		SelfSpecID:  selfID,
		Conflicts:   []specs.Conflict{},
	}

	var conflicts []specs.Conflict
	m.CanonicalTerms, conflicts = e.termClusters(indexes)
	m.Conflicts = append(m.Conflicts, conflicts...)
	m.CanonicalClauses, conflicts = e.clauseClusters(indexes)
	m.Conflicts = append(m.Conflicts, conflicts...)
	m.Gaps = gaps(indexes)

	col := collate.New(e.lang)
	sort.SliceStable(m.CanonicalTerms, func(i, j int) bool {
		return col.CompareString(m.CanonicalTerms[i].CanonicalTerm, m.CanonicalTerms[j].CanonicalTerm) < 0
	})
	sort.SliceStable(m.CanonicalClauses, func(i, j int) bool {
		return col.CompareString(m.CanonicalClauses[i].ClauseConcept, m.CanonicalClauses[j].ClauseConcept) < 0
	})

	logger.Debug().
		Int("indexes", len(indexes)).
		Int("term_clusters", len(m.CanonicalTerms)).
		Int("clause_clusters", len(m.CanonicalClauses)).
		Int("conflicts", len(m.Conflicts)).
		Int("gaps", len(m.Gaps)).
		Msg("Alignment computed")
	return m
}

// Degraded builds the placeholder map written when peers are missing: no
// clusters, conflicts or gaps, only the status and what was missing.
func (e *Engine) Degraded(selfID string, missing []specs.MissingPeer) *specs.Map {
	peers := make([]specs.MissingPeer, len(missing))
	for i, p := range missing {
		if p.AttemptedPaths == nil {
			p.AttemptedPaths = []string{}
		}
		peers[i] = p
	}
	return &specs.Map{
		GeneratedAt:      e.generatedAt(),
		SelfSpecID:       selfID,
		CanonicalTerms:   []specs.TermCluster{},
		CanonicalClauses: []specs.ClauseCluster{},
		Conflicts:        []specs.Conflict{},
		Gaps:             []specs.Gap{},
		Status:           specs.StatusPeerSnapshotsMissing,
		MissingPeers:     peers,
	}
}

type termRow struct {
	specs.Term
	specID string
}

// generatedAt is the current UTC time at millisecond precision, matching
// the report timestamp.
func (e *Engine) generatedAt() time.Time {
	return e.now().UTC().Truncate(time.Millisecond)
}

func (e *Engine) termClusters(indexes []*specs.Index) ([]specs.TermCluster, []specs.Conflict) {
	var order []string
	groups := make(map[string][]termRow)
	for _, ix := range indexes {
		for _, t := range ix.Terms {
			n := canon.Normalize(t.TermText)
			if _, ok := groups[n]; !ok {
				order = append(order, n)
			}
			groups[n] = append(groups[n], termRow{Term: t, specID: ix.SpecID})
		}
	}

	clusters := make([]specs.TermCluster, 0, len(order))
	conflicts := []specs.Conflict{}
	for _, n := range order {
		members := groups[n]

		specIDs := make([]string, len(members))
		corpus := make([]string, len(members))
		var hashes []string
		for i, m := range members {
			specIDs[i] = m.specID
			corpus[i] = strings.ToLower(m.TermText + " " + m.DefinitionTextExcerpt)
			if m.DefinitionExcerptHash != nil {
				hashes = append(hashes, *m.DefinitionExcerptHash)
			}
		}
		memberSpecs := canon.Uniq(specIDs)

		owner := e.authority.TermOwner(strings.Join(corpus, " "), memberSpecs)
		rep := members[0]
		for _, m := range members {
			if m.specID == owner {
				rep = m
				break
			}
		}

		if defs := canon.Uniq(hashes); len(defs) > 1 {
			conflicts = append(conflicts, specs.Conflict{
				Kind:             specs.ConflictTermDefinition,
				NormalizedTerm:   n,
				MemberSpecs:      memberSpecs,
				DefinitionHashes: defs,
			})
		}

		var aliases []string
		out := make([]specs.TermMember, len(members))
		for i, m := range members {
			if m.TermText != rep.TermText {
				aliases = append(aliases, m.TermText)
			}
			out[i] = specs.TermMember{
				SpecID:         m.specID,
				TermText:       m.TermText,
				TermID:         m.TermID,
				Anchor:         m.Anchor,
				DefinitionHash: m.DefinitionExcerptHash,
			}
		}

		clusters = append(clusters, specs.TermCluster{
			CanonicalTerm:        rep.TermText,
			CanonicalOwnerSpecID: owner,
			CanonicalAnchor:      rep.Anchor,
			Aliases:              canon.Uniq(aliases),
			Members:              out,
		})
	}
	return clusters, conflicts
}

type operationRow struct {
	specs.Operation
	specID string
}

func (e *Engine) clauseClusters(indexes []*specs.Index) ([]specs.ClauseCluster, []specs.Conflict) {
	var order []string
	groups := make(map[string][]operationRow)
	for _, ix := range indexes {
		for _, op := range ix.Operations() {
			key := op.ConceptKey()
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], operationRow{Operation: op, specID: ix.SpecID})
		}
	}

	clusters := make([]specs.ClauseCluster, 0, len(order))
	conflicts := []specs.Conflict{}
	for _, concept := range order {
		members := groups[concept]

		paths := make([]string, len(members))
		specIDs := make([]string, len(members))
		contracts := make([]string, len(members))
		var reqIDs []string
		for i, m := range members {
			paths[i] = m.Path
			specIDs[i] = m.specID
			contracts[i] = m.ContractHash
			if m.RequirementID != nil && *m.RequirementID != "" {
				reqIDs = append(reqIDs, *m.RequirementID)
			}
		}

		owner, claimed := e.authority.OperationOwner(paths)
		if !claimed {
			owner = members[0].specID
		}
		own := members[0]
		for _, m := range members {
			if m.specID == owner {
				own = m
				break
			}
		}

		if len(members) > 1 {
			if ids := canon.Uniq(reqIDs); len(ids) > 1 {
				conflicts = append(conflicts, specs.Conflict{
					Kind:           specs.ConflictRequirementIDSpace,
					ClauseConcept:  concept,
					MemberSpecs:    canon.Uniq(specIDs),
					RequirementIDs: ids,
				})
			}
			if len(canon.Uniq(contracts)) > 1 {
				conflicts = append(conflicts, specs.Conflict{
					Kind:          specs.ConflictOperationContract,
					ClauseConcept: concept,
					MemberSpecs:   canon.Uniq(specIDs),
				})
			}
		}

		canonicalID := constants.Unspecified
		if own.RequirementID != nil && *own.RequirementID != "" {
			canonicalID = *own.RequirementID
		}

		out := make([]specs.ClauseMember, len(members))
		for i, m := range members {
			out[i] = specs.ClauseMember{
				SpecID:        m.specID,
				RequirementID: m.RequirementID,
				Method:        m.Method,
				Path:          m.Path,
			}
		}

		clusters = append(clusters, specs.ClauseCluster{
			ClauseConcept:        concept,
			CanonicalOwnerSpecID: owner,
			CanonicalClauseID:    canonicalID,
			MemberClauseIDs:      out,
		})
	}
	return clusters, conflicts
}

// gaps finds term references that match no term in any index, and
// requirement references with no clause in their own index.
func gaps(indexes []*specs.Index) []specs.Gap {
	defined := make(map[string]struct{})
	for _, ix := range indexes {
		for _, t := range ix.Terms {
			defined[canon.Normalize(t.TermText)] = struct{}{}
		}
	}

	out := []specs.Gap{}
	for _, ix := range indexes {
		for _, ref := range ix.TermReferences {
			if _, ok := defined[canon.Normalize(ref)]; !ok {
				out = append(out, specs.Gap{
					Type:          specs.GapUndefinedTerm,
					SpecID:        ix.SpecID,
					TermReference: ref,
				})
			}
		}

		clauses := ix.ClauseIDs()
		for _, req := range ix.RequirementReferences {
			if _, ok := clauses[req]; !ok {
				out = append(out, specs.Gap{
					Type:          specs.GapUnanchoredRequirement,
					SpecID:        ix.SpecID,
					RequirementID: req,
				})
			}
		}
	}
	return out
}
