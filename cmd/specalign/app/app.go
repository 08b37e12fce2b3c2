// Package app provides the application context and dependency management
// for the specalign CLI: configuration, logging, the filesystem and the
// Aligner that commands share.
package app

import (
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/agentstation/specalign"
	"github.com/agentstation/specalign/internal/cmd/application"
	"github.com/agentstation/specalign/internal/cmd/output"
	"github.com/agentstation/specalign/internal/config"
	"github.com/agentstation/specalign/pkg/errors"
)

// App represents the specalign application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	fs     afero.Fs

	// Aligner instance (lazy-initialized, singleton)
	mu      sync.Mutex
	aligner *specalign.Aligner
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		fs:      afero.NewOsFs(),
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapIO("load", "config", err)
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the CLI configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// FS returns the filesystem documents and artifacts live on.
func (a *App) FS() afero.Fs {
	return a.fs
}

// WorkDir returns --workdir made absolute, or the process working directory.
func (a *App) WorkDir() string {
	if a.config.WorkDir == "" {
		return "."
	}
	if abs, err := filepath.Abs(a.config.WorkDir); err == nil {
		return abs
	}
	return a.config.WorkDir
}

// OutputFormat returns the --format value, or table on a terminal and
// json otherwise.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// LoadConfig reads the alignment config file and applies --output-dir.
func (a *App) LoadConfig() (*specalign.Config, error) {
	cfg, err := config.Load(a.fs, a.WorkDir(), a.config.ConfigFile)
	if err != nil {
		return nil, err
	}
	if a.config.OutputDir != "" {
		cfg.OutputDir = a.config.OutputDir
	}
	return cfg, nil
}

// Aligner returns the aligner, creating it on first use.
func (a *App) Aligner() (*specalign.Aligner, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.aligner != nil {
		return a.aligner, nil
	}
	aligner, err := specalign.New(specalign.WithFS(a.fs))
	if err != nil {
		return nil, err
	}
	a.aligner = aligner
	return aligner, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithFS sets the filesystem (useful for testing).
func WithFS(fs afero.Fs) Option {
	return func(a *App) error {
		a.fs = fs
		return nil
	}
}

// WithAligner sets a custom aligner instance (useful for testing).
func WithAligner(aligner *specalign.Aligner) Option {
	return func(a *App) error {
		a.aligner = aligner
		return nil
	}
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)
