package specalign

import (
	"github.com/agentstation/specalign/pkg/authority"
	"github.com/agentstation/specalign/pkg/errors"
	"github.com/agentstation/specalign/pkg/specs"
)

// Config describes one alignment run: the self document, the peers to align
// it with and where the artifacts go. It is usually loaded from an
// alignment config file by internal/config.
type Config struct {
	// OutputDir receives the artifacts. Relative paths are resolved against
	// the working directory.
	OutputDir string `json:"outputDir" yaml:"outputDir" mapstructure:"outputDir"`

	Self  SpecConfig   `json:"self" yaml:"self" mapstructure:"self"`
	Peers []PeerConfig `json:"peers" yaml:"peers" mapstructure:"peers"`

	// Authority replaces the default ownership table when set.
	Authority *authority.Table `json:"authority,omitempty" yaml:"authority,omitempty" mapstructure:"authority"`
}

// SpecConfig identifies the self document.
type SpecConfig struct {
	SpecID  string `json:"specId" yaml:"specId" mapstructure:"specId"`
	Repo    string `json:"repo" yaml:"repo" mapstructure:"repo"`
	HomeURL string `json:"homeUrl" yaml:"homeUrl" mapstructure:"homeUrl"`

	// Path is the directory holding index.html, openapi.yaml and AGENTS.md.
	// Empty means the working directory.
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

// Identity returns the spec identity triple.
func (s SpecConfig) Identity() specs.Identity {
	return specs.Identity{SpecID: s.SpecID, Repo: s.Repo, HomeURL: s.HomeURL}
}

// PeerConfig identifies a peer document and where local snapshots of it
// may be found.
type PeerConfig struct {
	SpecID  string `json:"specId" yaml:"specId" mapstructure:"specId"`
	Repo    string `json:"repo" yaml:"repo" mapstructure:"repo"`
	HomeURL string `json:"homeUrl" yaml:"homeUrl" mapstructure:"homeUrl"`

	// LocalSnapshotPaths are files or directories searched, in order, for
	// the peer's index.html and openapi.yaml.
	LocalSnapshotPaths []string `json:"localSnapshotPaths" yaml:"localSnapshotPaths" mapstructure:"localSnapshotPaths"`
}

// Identity returns the spec identity triple.
func (p PeerConfig) Identity() specs.Identity {
	return specs.Identity{SpecID: p.SpecID, Repo: p.Repo, HomeURL: p.HomeURL}
}

// component names the peer in configuration errors.
func (p PeerConfig) component() string {
	if p.SpecID == "" {
		return "peer"
	}
	return "peer(" + p.SpecID + ")"
}

// Validate checks what can be checked before any document is read: the
// self identity and the authority table. Peer identities are only required
// for peers that are actually found.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("config", "no configuration", errors.ErrInvalidInput)
	}
	if err := c.Self.Identity().Validate("self"); err != nil {
		return err
	}
	if c.Authority != nil {
		if err := c.Authority.Validate(); err != nil {
			return errors.NewConfigError("authority", err.Error(), err)
		}
	}
	return nil
}
