// Package table converts alignment results into rows for the CLI's table
// output.
package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/specalign"
	"github.com/agentstation/specalign/pkg/canon"
	"github.com/agentstation/specalign/pkg/specs"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// excerptWidth bounds excerpt cells in wide tables.
const excerptWidth = 60

// SummaryToTableData renders the post-run summary as a two column table.
func SummaryToTableData(s specalign.Summary) Data {
	return Data{
		Headers: []string{"Item", "Value"},
		Rows: [][]string{
			{"Self", s.Self},
			{"Peers indexed", strconv.Itoa(s.PeersIndexed)},
			{"Term clusters", strconv.Itoa(s.TermClusters)},
			{"Clause clusters", strconv.Itoa(s.ClauseClusters)},
			{"Conflicts", strconv.Itoa(s.Conflicts)},
			{"Gaps", strconv.Itoa(s.Gaps)},
			{"Artifacts", s.Artifacts},
		},
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}

// MissingPeersToTableData lists the peers a degraded run could not find.
func MissingPeersToTableData(missing []specs.MissingPeer) Data {
	rows := make([][]string, 0, len(missing))
	for _, m := range missing {
		attempted := strings.Join(m.AttemptedPaths, ", ")
		if attempted == "" {
			attempted = "-"
		}
		rows = append(rows, []string{m.SpecID, m.Repo, m.Missing, attempted})
	}
	return Data{
		Headers: []string{"Spec", "Repo", "Missing", "Attempted"},
		Rows:    rows,
	}
}

// IndexToTableData lists the terms and clauses of one index. Wide output
// adds definition and clause excerpts.
func IndexToTableData(ix *specs.Index, wide bool) Data {
	headers := []string{"Kind", "ID", "Text", "Anchor"}
	if wide {
		headers = append(headers, "Section", "Excerpt")
	}

	rows := make([][]string, 0, len(ix.Terms)+len(ix.Clauses))
	for _, t := range ix.Terms {
		row := []string{"term", t.TermID, t.TermText, t.Anchor}
		if wide {
			row = append(row, orDash(t.SectionAnchor), excerpt(t.DefinitionTextExcerpt))
		}
		rows = append(rows, row)
	}
	for _, c := range ix.Clauses {
		row := []string{string(c.Kind), c.ClauseID, strings.Join(c.NormativeKeywordsUsed, " "), c.Anchor}
		if wide {
			row = append(row, "-", excerpt(c.TextExcerpt))
		}
		rows = append(rows, row)
	}
	for _, op := range ix.Operations() {
		row := []string{"operation", orDash(op.RequirementID), op.Method + " " + op.Path, "-"}
		if wide {
			row = append(row, "-", orDash(op.OperationID))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func excerpt(s string) string {
	if s == "" {
		return "-"
	}
	return canon.Cut(s, excerptWidth)
}
