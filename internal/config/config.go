// Package config loads the alignment configuration file into a
// specalign.Config.
//
// The file is JSON or YAML (chosen by extension, JSON otherwise) and is read
// through a private viper instance so nothing leaks into viper's global
// state. Lookup order for the file path is: the explicit path, then
// SPECALIGN_CONFIG, then alignment.config.json in the working directory.
// SPECALIGN_OUTPUT_DIR overrides the file's outputDir.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/agentstation/specalign"
	"github.com/agentstation/specalign/pkg/constants"
	"github.com/agentstation/specalign/pkg/errors"
)

// Environment variables read by Load.
const (
	EnvConfig    = constants.EnvPrefix + "_CONFIG"
	EnvOutputDir = constants.EnvPrefix + "_OUTPUT_DIR"
)

// Path resolves the config file path against workDir.
func Path(workDir, explicit string) string {
	p := explicit
	if p == "" {
		p = os.Getenv(EnvConfig)
	}
	if p == "" {
		p = constants.DefaultConfigFile
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(workDir, p)
}

// Load reads the config file at Path(workDir, explicit) from fs.
func Load(fs afero.Fs, workDir, explicit string) (*specalign.Config, error) {
	path := Path(workDir, explicit)

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, errors.WrapIO("stat", path, err)
	}
	if !exists {
		return nil, errors.NewConfigError("config", "config file not found: "+path, errors.NewNotFoundError("config file", path))
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType(configType(path))
	v.SetEnvPrefix(constants.EnvPrefix)
	if err := v.BindEnv("outputDir", EnvOutputDir); err != nil {
		return nil, errors.NewConfigError("config", "binding "+EnvOutputDir, err)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapParse(configType(path), path, err)
	}

	var cfg specalign.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapParse(configType(path), path, err)
	}
	if dir := v.GetString("outputDir"); dir != "" {
		cfg.OutputDir = dir
	}
	return &cfg, nil
}

// LoadEnvFiles loads .env then .env.local from dir into the process
// environment. Variables already set are left alone; missing files are
// ignored.
func LoadEnvFiles(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		_ = godotenv.Load(filepath.Join(dir, name))
	}
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
