package specalign

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/agentstation/specalign/pkg/constants"
	"github.com/agentstation/specalign/pkg/errors"
	"github.com/agentstation/specalign/pkg/specs"
)

// resolvePath makes p absolute against workDir. An empty p is workDir.
func resolvePath(workDir, p string) string {
	if p == "" {
		return filepath.Clean(workDir)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(workDir, p)
}

func isFile(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(fs afero.Fs, path string) bool {
	ok, err := afero.IsDir(fs, path)
	return err == nil && ok
}

func optionalFile(fs afero.Fs, path string) *string {
	if !isFile(fs, path) {
		return nil
	}
	return &path
}

// selfFiles locates the self documents. index.html is required; the API
// contract and agent guide are recorded when present.
func selfFiles(fs afero.Fs, workDir string, self SpecConfig) (specs.Files, string, error) {
	dir := resolvePath(workDir, self.Path)
	index := filepath.Join(dir, constants.IndexFileName)
	if !isFile(fs, index) {
		return specs.Files{}, "", errors.NewConfigError("self", "missing "+index, errors.ErrMissingDocument)
	}
	return specs.Files{
		IndexHTML:   index,
		OpenAPIYAML: optionalFile(fs, filepath.Join(dir, constants.ContractFileName)),
		AgentsMD:    optionalFile(fs, filepath.Join(dir, constants.AgentsFileName)),
	}, dir, nil
}

// peerFiles searches a peer's snapshot paths. Every path is a candidate,
// and a directory also contributes its index.html and openapi.yaml. The
// first regular file with each base name (compared case-insensitively)
// wins. attempted lists the resolved snapshot paths.
func peerFiles(fs afero.Fs, workDir string, peer PeerConfig) (files specs.Files, found bool, attempted []string) {
	var candidates []string
	attempted = make([]string, 0, len(peer.LocalSnapshotPaths))
	for _, p := range peer.LocalSnapshotPaths {
		abs := resolvePath(workDir, p)
		attempted = append(attempted, abs)
		candidates = append(candidates, abs)
		if isDir(fs, abs) {
			candidates = append(candidates,
				filepath.Join(abs, constants.IndexFileName),
				filepath.Join(abs, constants.ContractFileName))
		}
	}

	for _, c := range candidates {
		if !isFile(fs, c) {
			continue
		}
		switch strings.ToLower(filepath.Base(c)) {
		case constants.IndexFileName:
			if !found {
				files.IndexHTML = c
				found = true
			}
		case constants.ContractFileName:
			if files.OpenAPIYAML == nil {
				path := c
				files.OpenAPIYAML = &path
			}
		}
	}
	return files, found, attempted
}

// missingPeer records a peer whose index.html was not found.
func missingPeer(peer PeerConfig, attempted []string) specs.MissingPeer {
	orUnspecified := func(s string) string {
		if s == "" {
			return constants.Unspecified
		}
		return s
	}
	return specs.MissingPeer{
		SpecID:         orUnspecified(peer.SpecID),
		Repo:           orUnspecified(peer.Repo),
		Missing:        constants.IndexFileName,
		AttemptedPaths: attempted,
	}
}
