package output

import (
	"io"

	"github.com/agentstation/specalign"
	"github.com/agentstation/specalign/internal/cmd/table"
	"github.com/agentstation/specalign/pkg/specs"
)

// FormatSummary writes the post-run summary.
func FormatSummary(w io.Writer, format Format, s specalign.Summary) error {
	var data any = s
	if format.IsTable() {
		data = table.SummaryToTableData(s)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatMissingPeers writes the peers a degraded run could not find.
func FormatMissingPeers(w io.Writer, format Format, missing []specs.MissingPeer) error {
	var data any = missing
	if format.IsTable() {
		data = table.MissingPeersToTableData(missing)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatIndex writes a Spec Index. Table formats list its terms, clauses
// and operations; json and yaml write the full index.
func FormatIndex(w io.Writer, format Format, ix *specs.Index) error {
	var data any = ix
	if format.IsTable() {
		data = table.IndexToTableData(ix, format == FormatWide)
	}
	return NewFormatter(format).Format(w, data)
}
