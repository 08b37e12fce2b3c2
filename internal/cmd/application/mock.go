package application

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/agentstation/specalign"
	"github.com/agentstation/specalign/internal/config"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
// The defaults are usable for command tests: an in-memory filesystem rooted
// at /work, config loaded from that filesystem, and an Aligner that reads it
// without consulting git.
//
// Example Usage:
//
//	fs := afero.NewMemMapFs()
//	mock := &application.Mock{
//	    FSFunc: func() afero.Fs { return fs },
//	}
//	cmd := align.NewCommand(mock)
type Mock struct {
	AlignerFunc      func() (*specalign.Aligner, error)
	LoadConfigFunc   func() (*specalign.Config, error)
	FSFunc           func() afero.Fs
	WorkDirFunc      func() string
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string

	fs afero.Fs
}

// Aligner returns an aligner using the mock function or one over FS with
// revision lookup and diffing disabled.
func (m *Mock) Aligner() (*specalign.Aligner, error) {
	if m.AlignerFunc != nil {
		return m.AlignerFunc()
	}
	return specalign.New(
		specalign.WithFS(m.FS()),
		specalign.WithRevisionResolver(nil),
		specalign.WithDiffer(nil),
	)
}

// LoadConfig returns config using the mock function or loads the default
// config file from FS.
func (m *Mock) LoadConfig() (*specalign.Config, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc()
	}
	return config.Load(m.FS(), m.WorkDir(), "")
}

// FS returns a filesystem using the mock function or a shared in-memory one.
func (m *Mock) FS() afero.Fs {
	if m.FSFunc != nil {
		return m.FSFunc()
	}
	if m.fs == nil {
		m.fs = afero.NewMemMapFs()
	}
	return m.fs
}

// WorkDir returns the working directory using the mock function or "/work".
func (m *Mock) WorkDir() string {
	if m.WorkDirFunc != nil {
		return m.WorkDirFunc()
	}
	return "/work"
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
