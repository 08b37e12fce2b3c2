// Package index implements the index command.
package index

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/specalign/internal/cmd/application"
	"github.com/agentstation/specalign/internal/cmd/output"
	"github.com/agentstation/specalign/pkg/constants"
	"github.com/agentstation/specalign/pkg/logging"
	"github.com/agentstation/specalign/pkg/specs"
)

// Flags holds the index command's identity overrides.
type Flags struct {
	SpecID   string
	Repo     string
	HomeURL  string
	Contract string
}

// NewCommand creates the index command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:   "index <dir|index.html>",
		Short: "Extract and print the Spec Index of one document",
		Args:  cobra.ExactArgs(1),
		Long: `Index extracts a single document without a config file or peers and
prints its Spec Index. Given a directory it reads index.html and, when
present, openapi.yaml from it.

Table output lists terms, clauses and operations; use -o wide for excerpts
or -o json / -o yaml for the full index.`,
		Example: `  specalign index .
  specalign index ../gqts --spec-id GQTS-CORE -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithOperation(cmd.Context(), "index")

			indexPath, contractPath := locate(app, args[0], flags.Contract)
			aligner, err := app.Aligner()
			if err != nil {
				return err
			}

			id := specs.Identity{SpecID: flags.SpecID, Repo: flags.Repo, HomeURL: flags.HomeURL}
			ix, err := aligner.IndexDocument(ctx, id, indexPath, contractPath)
			if err != nil {
				return err
			}
			return output.FormatIndex(cmd.OutOrStdout(), output.Format(app.OutputFormat()), ix)
		},
	}

	cmd.Flags().StringVar(&flags.SpecID, "spec-id", constants.Unspecified, "spec id recorded in the index")
	cmd.Flags().StringVar(&flags.Repo, "repo", constants.Unspecified, "repository recorded in the index")
	cmd.Flags().StringVar(&flags.HomeURL, "home-url", constants.Unspecified, "home URL recorded in the index")
	cmd.Flags().StringVar(&flags.Contract, "contract", "", "API contract file (default: openapi.yaml next to the document)")

	return cmd
}

// locate resolves the document argument to an index.html path and an
// optional contract path.
func locate(app application.Application, arg, contract string) (string, string) {
	fs := app.FS()
	path := arg
	if !filepath.IsAbs(path) {
		path = filepath.Join(app.WorkDir(), path)
	}

	dir := filepath.Dir(path)
	if info, err := fs.Stat(path); err == nil && info.IsDir() {
		dir = path
		path = filepath.Join(dir, constants.IndexFileName)
	}

	if contract != "" {
		if !filepath.IsAbs(contract) {
			contract = filepath.Join(app.WorkDir(), contract)
		}
		return path, contract
	}
	candidate := filepath.Join(dir, constants.ContractFileName)
	if info, err := fs.Stat(candidate); err == nil && info.Mode().IsRegular() {
		return path, candidate
	}
	return path, ""
}
