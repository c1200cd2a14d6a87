package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/amlfed/pkg/errors"
	"github.com/matzehuels/amlfed/pkg/federation"
)

// resolveOpts holds flags for the resolve command.
type resolveOpts struct {
	kind string
	name string
	id   string
}

// resolveCommand creates the resolve command for finding declaring documents.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve [manifest] [location]",
		Short: "Find the document declaring a library name or unique identifier",
		Long: `Resolve a library name or unique identifier inside the scope of a document
and print the location of the document declaring it.

Library kinds are interface, role and systemunit.`,
		Example: `  amlfed resolve federation.toml plant.aml --kind role --name BaseRoles
  amlfed resolve federation.toml plant.aml --id 3f2a9c4e-8b1d-4e6f-9a0c-5d7e8f9a0b1c`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.kind, "kind", "", "library kind: interface, role or systemunit")
	cmd.Flags().StringVar(&opts.name, "name", "", "library name to resolve (requires --kind)")
	cmd.Flags().StringVar(&opts.id, "id", "", "unique identifier to resolve")
	cmd.MarkFlagsMutuallyExclusive("name", "id")
	cmd.MarkFlagsOneRequired("name", "id")
	cmd.MarkFlagsRequiredTogether("kind", "name")

	return cmd
}

// runResolve resolves the requested key within the scope of location and
// writes the declaring document's location to out.
func (c *CLI) runResolve(ctx context.Context, out io.Writer, path, location string, opts resolveOpts) error {
	ws, err := c.loadWorkspace(ctx, path)
	if err != nil {
		reportError(err)
		return err
	}
	doc, err := document(ws, location)
	if err != nil {
		return err
	}

	var (
		owner federation.DocID
		found bool
		what  string
	)
	if opts.id != "" {
		id, perr := uuid.Parse(opts.id)
		if perr != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, perr, "invalid unique identifier %q", opts.id)
		}
		what = federation.KindIdentifier.String() + " " + id.String()
		owner, found, err = ws.ResolveID(doc, id)
	} else {
		kind, kerr := federation.ParseKind(opts.kind)
		if kerr != nil {
			return errs.FromModel(kerr)
		}
		what = fmt.Sprintf("%s %q", kind, opts.name)
		owner, found, err = ws.Resolve(doc, kind, opts.name)
	}
	if err != nil {
		return errs.FromModel(err)
	}
	if !found {
		return errs.New(errs.ErrCodeUnresolved, "%s is not visible from %s", what, location)
	}

	loc, _ := ws.Location(owner)
	fmt.Fprintln(out, loc)
	return nil
}
