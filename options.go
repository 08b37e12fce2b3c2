package specalign

import (
	"time"

	"github.com/spf13/afero"

	"github.com/agentstation/specalign/pkg/authority"
	"github.com/agentstation/specalign/pkg/errors"
	"github.com/agentstation/specalign/pkg/extract"
)

// Option configures an Aligner.
type Option func(*options) error

type options struct {
	fs        afero.Fs
	revisions extract.RevisionResolver
	differ    Differ
	authority *authority.Table
	clock     func() time.Time
}

// WithFS reads documents from fs instead of the OS filesystem.
func WithFS(fs afero.Fs) Option {
	return func(o *options) error {
		if fs == nil {
			return errors.NewValidationError("fs", nil, "filesystem is nil")
		}
		o.fs = fs
		return nil
	}
}

// WithRevisionResolver sets how commit_or_version is looked up. A nil
// resolver disables the lookup so indexes fall back to declared versions.
func WithRevisionResolver(r extract.RevisionResolver) Option {
	return func(o *options) error {
		o.revisions = r
		return nil
	}
}

// WithDiffer sets how the patch snapshot is produced. A nil differ leaves
// the snapshot as the "unable to generate" placeholder.
func WithDiffer(d Differ) Option {
	return func(o *options) error {
		o.differ = d
		return nil
	}
}

// WithAuthority sets the default ownership table. A table in the run's
// Config takes precedence.
func WithAuthority(table *authority.Table) Option {
	return func(o *options) error {
		if err := table.Validate(); err != nil {
			return err
		}
		o.authority = table
		return nil
	}
}

// WithClock sets the source of the map's generation timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return errors.NewValidationError("clock", nil, "clock is nil")
		}
		o.clock = now
		return nil
	}
}
