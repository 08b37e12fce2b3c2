// Package specalign aligns the terminology and normative requirements of a
// specification document with those of its peers.
//
// An Aligner reads the self document and every peer snapshot named by a
// Config, extracts a Spec Index from each, and computes the cross-spec map:
// clusters of shared terms and API operations, the conflicts inside them,
// and references that resolve to nothing. The result is returned as an
// Outcome; writing it to disk is left to the caller (see internal/artifacts
// for the CLI's writer).
//
// Example:
//
//	aligner, err := specalign.New()
//	if err != nil {
//		return err
//	}
//	outcome, err := aligner.Run(ctx, cfg, workDir)
//	if err != nil {
//		return err // configuration or unreadable input
//	}
//	if outcome.Degraded() {
//		// peers were missing; outcome.Map carries the placeholder map
//	}
package specalign

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/agentstation/specalign/internal/vcs"
	"github.com/agentstation/specalign/pkg/align"
	"github.com/agentstation/specalign/pkg/authority"
	"github.com/agentstation/specalign/pkg/constants"
	"github.com/agentstation/specalign/pkg/errors"
	"github.com/agentstation/specalign/pkg/extract"
	"github.com/agentstation/specalign/pkg/logging"
	"github.com/agentstation/specalign/pkg/report"
	"github.com/agentstation/specalign/pkg/specs"
)

// Differ produces the version-control diff of documents in dir.
type Differ interface {
	Diff(ctx context.Context, dir string, paths ...string) (string, error)
}

// Patch placeholders.
const (
	noChangesPatch = "# No spec changes were applied by the alignment runner.\n"
	noDiffPatch    = "# Unable to generate git diff in this runtime (%s).\n"
)

// Aligner runs alignment passes. It is safe to reuse across runs.
type Aligner struct {
	fs        afero.Fs
	revisions extract.RevisionResolver
	differ    Differ
	authority *authority.Table
	clock     func() time.Time
}

// New creates an Aligner that reads from the OS filesystem and uses git for
// revisions and the patch snapshot.
func New(opts ...Option) (*Aligner, error) {
	git := vcs.NewGit()
	o := &options{
		fs:        afero.NewOsFs(),
		revisions: git,
		differ:    git,
		authority: authority.Default(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("applying options: %w", err)
		}
	}
	return &Aligner{
		fs:        o.fs,
		revisions: o.revisions,
		differ:    o.differ,
		authority: o.authority,
		clock:     o.clock,
	}, nil
}

// Run performs one alignment pass. Paths in cfg are resolved against
// workDir. Missing peers do not make Run fail: the Outcome is degraded and
// Outcome.Err reports them. An error is returned for configuration
// problems and unreadable or undecodable documents.
func (a *Aligner) Run(ctx context.Context, cfg *Config, workDir string) (*Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)

	table := a.authority
	if cfg.Authority != nil {
		table = cfg.Authority
	}
	extractor, err := extract.New(extract.WithAuthority(table), extract.WithRevisionResolver(a.revisions))
	if err != nil {
		return nil, err
	}
	engine := align.New(align.WithAuthority(table), align.WithClock(a.clock))

	files, selfDir, err := selfFiles(a.fs, workDir, cfg.Self)
	if err != nil {
		return nil, err
	}
	self, err := a.index(ctx, extractor, cfg.Self.Identity(), files, selfDir)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Self:      self,
		Peers:     []*specs.Index{},
		OutputDir: resolvePath(workDir, outputDir(cfg)),
	}

	for _, peer := range cfg.Peers {
		files, found, attempted := peerFiles(a.fs, workDir, peer)
		if !found {
			logger.Warn().
				Str("spec_id", peer.SpecID).
				Strs("attempted_paths", attempted).
				Msg("Peer snapshot not found")
			outcome.MissingPeers = append(outcome.MissingPeers, missingPeer(peer, attempted))
			continue
		}
		if err := peer.Identity().Validate(peer.component()); err != nil {
			return nil, err
		}
		ix, err := a.index(ctx, extractor, peer.Identity(), files, filepath.Dir(files.IndexHTML))
		if err != nil {
			return nil, err
		}
		outcome.Peers = append(outcome.Peers, ix)
	}

	if outcome.Degraded() {
		outcome.Map = engine.Degraded(self.SpecID, outcome.MissingPeers)
		outcome.Report, err = report.MissingString(outcome.Map.MissingPeers)
	} else {
		outcome.Map = engine.Align(ctx, append([]*specs.Index{self}, outcome.Peers...), self.SpecID)
		outcome.Report, err = report.String(self, outcome.Peers, outcome.Map)
	}
	if err != nil {
		return nil, err
	}

	outcome.Patch = a.patch(ctx, selfDir)
	return outcome, nil
}

// IndexDocument extracts the Spec Index of a single document without
// aligning it. contractPath may be empty.
func (a *Aligner) IndexDocument(ctx context.Context, id specs.Identity, indexPath, contractPath string) (*specs.Index, error) {
	extractor, err := extract.New(extract.WithAuthority(a.authority), extract.WithRevisionResolver(a.revisions))
	if err != nil {
		return nil, err
	}
	files := specs.Files{IndexHTML: indexPath}
	if contractPath != "" {
		files.OpenAPIYAML = &contractPath
	}
	return a.index(ctx, extractor, id, files, filepath.Dir(indexPath))
}

// index reads a document's files and extracts its Spec Index.
func (a *Aligner) index(ctx context.Context, extractor extract.Extractor, id specs.Identity, files specs.Files, dir string) (*specs.Index, error) {
	ctx = logging.WithDocument(ctx, files.IndexHTML)

	markup, err := afero.ReadFile(a.fs, files.IndexHTML)
	if err != nil {
		return nil, errors.WrapIO("read", files.IndexHTML, err)
	}
	doc := extract.Document{
		Identity: id,
		Markup:   string(markup),
		Files:    files,
		Dir:      dir,
	}
	if files.OpenAPIYAML != nil {
		doc.Contract, err = afero.ReadFile(a.fs, *files.OpenAPIYAML)
		if err != nil {
			return nil, errors.WrapIO("read", *files.OpenAPIYAML, err)
		}
	}
	return extractor.Build(ctx, doc)
}

// patch snapshots uncommitted changes to the self documents. It never
// fails; problems become a placeholder comment. A non-zero git exit shows
// its exit status in the placeholder, e.g. "(1)", rather than "(unknown)".
func (a *Aligner) patch(ctx context.Context, dir string) string {
	if a.differ == nil {
		return fmt.Sprintf(noDiffPatch, "unknown")
	}
	diff, err := a.differ.Diff(ctx, dir, constants.IndexFileName, constants.ContractFileName)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("Diff snapshot unavailable")
		return fmt.Sprintf(noDiffPatch, vcs.ErrorCode(err))
	}
	if strings.TrimSpace(diff) == "" {
		return noChangesPatch
	}
	return diff
}

func outputDir(cfg *Config) string {
	if cfg.OutputDir != "" {
		return cfg.OutputDir
	}
	return constants.DefaultOutputDir
}
