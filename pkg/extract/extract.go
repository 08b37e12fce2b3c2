// Package extract builds a Spec Index from one document's markup and its
// optional API contract.
//
// The markup is scanned with regular expressions over fixed character
// windows rather than parsed into a tree. Window sizes are part of the
// extraction contract (see pkg/constants): changing them changes which text
// is attributed to a definition or clause.
package extract

import (
	"context"

	"github.com/agentstation/specalign/pkg/authority"
	"github.com/agentstation/specalign/pkg/constants"
	"github.com/agentstation/specalign/pkg/contract"
	"github.com/agentstation/specalign/pkg/errors"
	"github.com/agentstation/specalign/pkg/logging"
	"github.com/agentstation/specalign/pkg/specs"
)

// Extractor turns documents into Spec Indexes.
type Extractor interface {
	// Build extracts the index of one document. Only a missing identity
	// field or an undecodable contract is an error; anything unexpected in
	// the markup degrades the affected record instead.
	Build(ctx context.Context, doc Document) (*specs.Index, error)
}

// RevisionResolver reports the version-control revision that contains dir.
type RevisionResolver interface {
	Revision(ctx context.Context, dir string) (string, error)
}

// Document is the input of one extraction.
type Document struct {
	specs.Identity

	// Markup is the document text.
	Markup string

	// Contract is the raw API contract, nil when the document has none.
	Contract []byte

	// Files is recorded on the index as-is.
	Files specs.Files

	// Dir is where the document lives; it is handed to the revision
	// resolver. Empty skips revision lookup.
	Dir string
}

// extractor is the default implementation of Extractor.
type extractor struct {
	table     *authority.Table
	revisions RevisionResolver
	patterns  *patterns
}

// New creates an Extractor. Without options it recognizes the default
// authority families and does not resolve revisions.
func New(opts ...Option) (Extractor, error) {
	e := &extractor{table: authority.Default()}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if err := e.table.Validate(); err != nil {
		return nil, err
	}
	e.patterns = compilePatterns(e.table)
	return e, nil
}

// Build implements Extractor.
func (e *extractor) Build(ctx context.Context, doc Document) (*specs.Index, error) {
	if err := doc.Identity.Validate("spec"); err != nil {
		return nil, err
	}
	ctx = logging.WithSpec(ctx, doc.SpecID)
	logger := logging.FromContext(ctx)

	t := newText(doc.Markup)
	clauses, shadowed := e.clauses(ctx, t)

	ix := &specs.Index{
		SpecID:                doc.SpecID,
		Repo:                  doc.Repo,
		HomeURL:               doc.HomeURL,
		Files:                 doc.Files,
		Terms:                 e.terms(t),
		Clauses:               clauses,
		TermReferences:        e.termReferences(doc.Markup),
		RequirementReferences: e.requirementReferences(doc.Markup),
		CrossSpecReferences:   e.crossReferences(doc.Markup),
		ShadowedClauses:       shadowed,
	}

	if doc.Contract != nil {
		set, err := contract.Parse(ctx, doc.Contract)
		if err != nil {
			return nil, err
		}
		ix.OpenAPI = set
	}

	ix.CommitOrVersion = e.version(ctx, doc.Dir, ix.OpenAPI)

	logger.Debug().
		Int("terms", len(ix.Terms)).
		Int("clauses", len(ix.Clauses)).
		Int("term_refs", len(ix.TermReferences)).
		Int("requirement_refs", len(ix.RequirementReferences)).
		Int("cross_refs", len(ix.CrossSpecReferences)).
		Str("version", ix.CommitOrVersion).
		Msg("Indexed document")
	return ix, nil
}

// version resolves commit_or_version: the enclosing revision, then the
// contract's declared version, then the sentinel. Resolution failures are
// never errors.
func (e *extractor) version(ctx context.Context, dir string, set *specs.ContractSet) string {
	if e.revisions != nil && dir != "" {
		rev, err := e.revisions.Revision(ctx, dir)
		switch {
		case err != nil:
			logging.FromContext(ctx).Debug().Err(err).Str("dir", dir).Msg("No revision; falling back to declared version")
		case rev != "":
			return rev
		}
	}
	if set != nil && set.InfoVersion != "" {
		return set.InfoVersion
	}
	return constants.UnspecifiedVersion
}

// Option configures an Extractor.
type Option func(*extractor) error

// WithAuthority replaces the family table used to recognize cross
// references.
func WithAuthority(table *authority.Table) Option {
	return func(e *extractor) error {
		if table == nil {
			return errors.NewValidationError("authority", nil, "table is nil")
		}
		e.table = table
		return nil
	}
}

// WithRevisionResolver enables commit_or_version lookup through r.
func WithRevisionResolver(r RevisionResolver) Option {
	return func(e *extractor) error {
		e.revisions = r
		return nil
	}
}
