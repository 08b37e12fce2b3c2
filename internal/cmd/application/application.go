// Package application provides the application interface for specalign
// commands.
//
// Commands accept an Application rather than the concrete App so they can
// be tested with Mock:
//
//	mock := &application.Mock{
//	    LoadConfigFunc: func() (*specalign.Config, error) {
//	        return cfg, nil
//	    },
//	    FSFunc: func() afero.Fs { return fs },
//	}
//	cmd := align.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/agentstation/specalign"
)

// Application provides what commands need from the running binary.
type Application interface {
	// Aligner returns an Aligner reading from FS.
	Aligner() (*specalign.Aligner, error)

	// LoadConfig reads the alignment config named by --config (or the
	// environment, or the default file) with --output-dir applied.
	LoadConfig() (*specalign.Config, error)

	// FS is the filesystem documents are read from and artifacts written to.
	FS() afero.Fs

	// WorkDir is the directory relative config paths are resolved against.
	WorkDir() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, wide, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
