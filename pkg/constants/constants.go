// Package constants provides shared constants used throughout the specalign
// codebase. Window sizes and excerpt limits are part of the extraction
// contract: changing them moves clause and definition boundaries, so they
// live here rather than next to the code that uses them.
package constants

import "time"

// Extraction windows, measured in characters of the raw markup.
const (
	// DefinitionLookahead is how far past a </dfn> the extractor searches
	// for a </dt><dd>...</dd> definition body
	DefinitionLookahead = 1400

	// ClauseLookbehind is how many characters before an id attribute belong
	// to the clause window
	ClauseLookbehind = 120

	// ClauseLookahead is how many characters after an id attribute belong
	// to the clause window
	ClauseLookahead = 1200
)

// Excerpt limits, in characters, including the trailing "..." marker.
const (
	// DefinitionExcerptLength bounds Term.DefinitionTextExcerpt
	DefinitionExcerptLength = 280

	// ClauseExcerptLength bounds Clause.TextExcerpt
	ClauseExcerptLength = 360
)

// Contract extraction limits
const (
	// MaxSchemaRefDepth bounds the recursive $ref walk over schema bodies
	MaxSchemaRefDepth = 32
)

// Sentinels and fixed names
const (
	// Unspecified is written when a version or requirement id is unknown
	Unspecified = "UNSPECIFIED"

	// UnspecifiedVersion is the last fallback of the commit/version chain
	UnspecifiedVersion = "unspecified"

	// IndexFileName is the primary markup document of a spec
	IndexFileName = "index.html"

	// ContractFileName is the optional API contract of a spec
	ContractFileName = "openapi.yaml"

	// AgentsFileName is the optional agent guide of the self spec
	AgentsFileName = "AGENTS.md"
)

// Configuration defaults
const (
	// DefaultConfigFile is read from the working directory when --config is not given
	DefaultConfigFile = "alignment.config.json"

	// DefaultOutputDir receives the artifacts when neither flag nor config names one
	DefaultOutputDir = ".alignment"

	// EnvPrefix prefixes the environment variables bound by viper
	EnvPrefix = "SPECALIGN"
)

// Artifact file names
const (
	SelfIndexArtifact = "spec-index.self.json"
	PeerIndexArtifact = "spec-index.peers.json"
	CrossMapArtifact  = "cross-spec-map.json"
	ReportArtifact    = "alignment-report.md"
	PatchArtifact     = "proposed-changes.patch"
)

// Artifacts lists every artifact file name in the order they are written.
func Artifacts() []string {
	return []string{SelfIndexArtifact, PeerIndexArtifact, CrossMapArtifact, ReportArtifact, PatchArtifact}
}

// Timeouts
const (
	// GitCommandTimeout bounds each git invocation used for revision and diff lookup
	GitCommandTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
