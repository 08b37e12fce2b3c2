// Package report renders the human-readable alignment report.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/specalign/pkg/constants"
	"github.com/agentstation/specalign/pkg/specs"
)

const (
	title         = "Alignment Report"
	timestampForm = "2006-01-02T15:04:05.000Z"
	analysisOnly  = "None (analysis-only run)."
)

// Render writes the report of a completed alignment run.
func Render(w io.Writer, self *specs.Index, peers []*specs.Index, m *specs.Map) error {
	peerIDs := make([]string, len(peers))
	for i, p := range peers {
		peerIDs[i] = p.SpecID
	}
	loaded := strings.Join(peerIDs, ", ")
	if loaded == "" {
		loaded = "none"
	}

	doc := md.NewMarkdown(w)
	doc.H1(title).
		PlainText("").
		PlainTextf("Generated: %s", m.GeneratedAt.UTC().Format(timestampForm)).
		PlainTextf("Self spec: %s", self.SpecID).
		PlainTextf("Peer specs loaded: %s", loaded).
		PlainText("")

	doc.H2("What Changed").
		BulletList("No in-place spec edits were applied.").
		PlainText("")

	doc.H2("Duplicates Removed").
		BulletList(shadowed(append([]*specs.Index{self}, peers...))...).
		PlainText("")

	doc.H2("Cross-References Added").
		BulletList(analysisOnly).
		PlainText("")

	conflicts := make([]string, 0, len(m.Conflicts))
	for _, c := range m.Conflicts {
		line, err := tagged(string(c.Kind), c)
		if err != nil {
			return err
		}
		conflicts = append(conflicts, line)
	}
	doc.H2("Key Conflicts").
		BulletList(orNone(conflicts)...).
		PlainText("")

	gaps := make([]string, 0, len(m.Gaps))
	for _, g := range m.Gaps {
		line, err := tagged(string(g.Type), g)
		if err != nil {
			return err
		}
		gaps = append(gaps, line)
	}
	doc.H2("Remaining Gaps (UNSPECIFIED/TODO)").
		BulletList(orNone(gaps)...).
		PlainText("")

	doc.H2("Output Files").
		BulletList(constants.Artifacts()...).
		PlainText("")

	return doc.Build()
}

// RenderMissing writes the report of a run that stopped because peer
// documents could not be found.
func RenderMissing(w io.Writer, missing []specs.MissingPeer) error {
	doc := md.NewMarkdown(w)
	doc.H1(title).
		PlainText("").
		PlainText("Status: FAILED (missing peer snapshots)").
		PlainText("")

	lines := make([]string, len(missing))
	for i, p := range missing {
		attempted := strings.Join(p.AttemptedPaths, ", ")
		if attempted == "" {
			attempted = "none"
		}
		lines[i] = fmt.Sprintf("%s (%s): %s. Attempted: %s", p.SpecID, p.Repo, p.Missing, attempted)
	}
	doc.H2("Missing Inputs").
		BulletList(lines...).
		PlainText("")

	doc.H2("Required Action").
		BulletList("Provide local peer snapshots in `localSnapshotPaths` and rerun.").
		PlainText("")

	return doc.Build()
}

// String renders with Render and returns the text.
func String(self *specs.Index, peers []*specs.Index, m *specs.Map) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, self, peers, m); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// MissingString renders with RenderMissing and returns the text.
func MissingString(missing []specs.MissingPeer) (string, error) {
	var sb strings.Builder
	if err := RenderMissing(&sb, missing); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// shadowed lists the clause duplicates the extractor dropped because their
// text differed from the occurrence it kept.
func shadowed(indexes []*specs.Index) []string {
	var lines []string
	for _, ix := range indexes {
		for _, s := range ix.ShadowedClauses {
			lines = append(lines, fmt.Sprintf("%s: later %s at %s differs from the first occurrence and was not indexed.",
				ix.SpecID, s.ClauseID, s.Anchor))
		}
	}
	if len(lines) == 0 {
		return []string{analysisOnly}
	}
	return lines
}

// tagged renders "<tag>: <compact json>".
func tagged(tag string, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding %s: %w", tag, err)
	}
	return tag + ": " + strings.TrimSuffix(buf.String(), "\n"), nil
}

func orNone(lines []string) []string {
	if len(lines) == 0 {
		return []string{"None."}
	}
	return lines
}
