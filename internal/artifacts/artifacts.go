// Package artifacts writes the files produced by an alignment run.
package artifacts

import (
	"bytes"
	"encoding/json"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/agentstation/specalign"
	"github.com/agentstation/specalign/pkg/constants"
	"github.com/agentstation/specalign/pkg/errors"
)

// Writer writes run artifacts into a filesystem.
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a Writer over fs.
func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// Write creates the outcome's output directory and writes the five
// artifacts into it. It returns the written paths in artifact order.
func (w *Writer) Write(outcome *specalign.Outcome) ([]string, error) {
	if outcome == nil {
		return nil, errors.NewValidationError("outcome", nil, "outcome is nil")
	}
	if err := w.fs.MkdirAll(outcome.OutputDir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("mkdir", outcome.OutputDir, err)
	}

	self, err := encode(outcome.Self)
	if err != nil {
		return nil, err
	}
	peers, err := encode(outcome.Peers)
	if err != nil {
		return nil, err
	}
	crossMap, err := encode(outcome.Map)
	if err != nil {
		return nil, err
	}

	contents := map[string][]byte{
		constants.SelfIndexArtifact: self,
		constants.PeerIndexArtifact: peers,
		constants.CrossMapArtifact:  crossMap,
		constants.ReportArtifact:    []byte(outcome.Report),
		constants.PatchArtifact:     []byte(outcome.Patch),
	}

	names := constants.Artifacts()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(outcome.OutputDir, name)
		if err := afero.WriteFile(w.fs, path, contents[name], constants.FilePermissions); err != nil {
			return paths, errors.WrapIO("write", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// encode renders v as two-space indented JSON with a trailing newline.
// Markup characters are not escaped.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.WrapParse("json", "", err)
	}
	return buf.Bytes(), nil
}
