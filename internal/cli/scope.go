package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/amlfed/pkg/errors"
	"github.com/matzehuels/amlfed/pkg/federation"
	pkgio "github.com/matzehuels/amlfed/pkg/io"
)

// scopeOpts holds flags for the scope command.
type scopeOpts struct {
	json bool
}

// scopeCommand creates the scope command for inspecting one document's scope.
func (c *CLI) scopeCommand() *cobra.Command {
	var opts scopeOpts

	cmd := &cobra.Command{
		Use:   "scope [manifest] [location]",
		Short: "Show the scope of a document",
		Long: `Show the forward set, the backward set and every library name and unique
identifier visible from a document, together with the document declaring it.`,
		Example: `  amlfed scope federation.toml plant.aml
  amlfed scope federation.toml plant.aml --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScope(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the scope as JSON")

	return cmd
}

// runScope prints the scope of location in the manifest at path.
func (c *CLI) runScope(ctx context.Context, out io.Writer, path, location string, opts scopeOpts) error {
	ws, err := c.loadWorkspace(ctx, path)
	if err != nil {
		reportError(err)
		return err
	}
	doc, err := document(ws, location)
	if err != nil {
		return err
	}
	snap, err := ws.Snapshot()
	if err != nil {
		return errs.FromModel(err)
	}

	if opts.json {
		for _, d := range pkgio.NewReport(snap).Documents {
			if d.Location == location {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
		}
		return errs.New(errs.ErrCodeInternal, "document %q missing from snapshot", location)
	}

	view, err := ws.Scope(doc)
	if err != nil {
		return errs.FromModel(err)
	}
	fmt.Println(StyleTitle.Render("Scope of " + location))
	printList("forward", locations(ws, view.Forward))
	printList("backward", locations(ws, view.Backward))
	if len(view.Entries) == 0 {
		printInfo("No declarations visible")
		return nil
	}
	fmt.Println()
	for _, e := range view.Entries {
		owner, _ := ws.Location(e.Owner)
		printEntry(e, owner)
	}
	printDetail("%s, %s", pluralize(len(view.Entries), "declaration"), pluralize(countOwners(view), "declaring document"))
	return nil
}

// countOwners returns the number of distinct documents declaring entries of v.
func countOwners(v federation.ScopeView) int {
	owners := make(map[federation.DocID]struct{})
	for _, e := range v.Entries {
		owners[e.Owner] = struct{}{}
	}
	return len(owners)
}
