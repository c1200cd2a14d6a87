package cli

import (
	"context"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/amlfed/pkg/errors"
)

// checkCommand creates the check command for verifying a federation manifest.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [manifest]",
		Short: "Build a federation manifest and verify its consistency",
		Long: `Build every document, reference and pointer of a manifest and verify that
the reference graph is acyclic and that no scope holds a library name or
unique identifier declared by two different documents.

The manifest format is chosen by extension (.toml or .json).`,
		Example: `  amlfed check federation.toml
  amlfed check --require-explicit plant.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0])
		},
	}
}

// runCheck builds the manifest at path and revalidates every scope.
func (c *CLI) runCheck(ctx context.Context, path string) error {
	ws, err := c.loadWorkspace(ctx, path)
	if err != nil {
		reportError(err)
		return err
	}
	if err := ws.Validate(); err != nil {
		err = errs.FromModel(err)
		reportError(err)
		return err
	}

	printSuccess("%s is consistent", StyleHighlight.Render(path))
	printStats(ws.Stats())
	return nil
}
