// Package align implements the align command.
package align

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/specalign/internal/artifacts"
	"github.com/agentstation/specalign/internal/cmd/application"
	"github.com/agentstation/specalign/internal/cmd/output"
	"github.com/agentstation/specalign/pkg/logging"
)

// NewCommand creates the align command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "align",
		Short: "Align the self spec with its peers and write the artifacts",
		Args:  cobra.NoArgs,
		Long: `Align indexes the self spec and every peer snapshot named in the
alignment config, computes the cross-spec map and writes five artifacts:

  spec-index.self.json     the self Spec Index
  spec-index.peers.json    the peer Spec Indexes
  cross-spec-map.json      term and clause clusters, conflicts and gaps
  alignment-report.md      the Markdown report
  proposed-changes.patch   a diff of the self documents

When a peer snapshot cannot be found the artifacts still describe the run,
the report lists the missing inputs and the command exits with status 1.`,
		Example: `  specalign align                                # uses ./alignment.config.json
  specalign align --config ci/alignment.yaml
  specalign align --output-dir build/alignment -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithOperation(cmd.Context(), "align")
			logger := app.Logger()

			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			aligner, err := app.Aligner()
			if err != nil {
				return err
			}

			outcome, err := aligner.Run(ctx, cfg, app.WorkDir())
			if err != nil {
				return err
			}

			paths, err := artifacts.NewWriter(app.FS()).Write(outcome)
			if err != nil {
				return err
			}
			logger.Debug().Strs("paths", paths).Msg("Wrote artifacts")

			format := output.Format(app.OutputFormat())
			if outcome.Degraded() {
				logger.Error().Int("missing", len(outcome.MissingPeers)).Msg("Peer snapshots missing; wrote degraded artifacts")
				if err := output.FormatMissingPeers(cmd.OutOrStdout(), format, outcome.MissingPeers); err != nil {
					return err
				}
				return outcome.Err()
			}
			return output.FormatSummary(cmd.OutOrStdout(), format, outcome.Summary())
		},
	}
}
