package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/amlfed/pkg/errors"
	pkgio "github.com/matzehuels/amlfed/pkg/io"
	"github.com/matzehuels/amlfed/pkg/render/nodelink"
)

// Output formats supported by the graph command.
const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
)

var graphFormats = []string{formatDOT, formatSVG, formatJSON}

// graphOpts holds flags for the graph command.
type graphOpts struct {
	format    string
	output    string
	detailed  bool
	highlight string
}

// graphCommand creates the graph command for rendering the reference graph.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "graph [manifest]",
		Short: "Render the document reference graph",
		Long: `Render the reference graph of a manifest as Graphviz DOT, SVG, or a JSON
report with the scope of every document.

Explicit references are drawn solid; edges carried only by pointers are dashed.`,
		Example: `  amlfed graph federation.toml > federation.dot
  amlfed graph federation.toml -f svg -o federation.svg --highlight plant.aml
  amlfed graph federation.toml -f json --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(graphFormats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show library declarations in node labels")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "highlight the scope of this document")

	return cmd
}

// runGraph renders the manifest at path and writes it to opts.output or out.
func (c *CLI) runGraph(ctx context.Context, out io.Writer, path string, opts graphOpts) error {
	logger := loggerFromContext(ctx)

	ws, err := c.loadWorkspace(ctx, path)
	if err != nil {
		reportError(err)
		return err
	}

	render := nodelink.Options{Detailed: opts.detailed}
	if opts.highlight != "" {
		if render.Highlight, err = document(ws, opts.highlight); err != nil {
			return err
		}
	}

	snap, err := ws.Snapshot()
	if err != nil {
		return errs.FromModel(err)
	}

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(nodelink.ToDOT(snap, render))
	case formatSVG:
		prog := newProgress(logger)
		if data, err = nodelink.RenderSVG(nodelink.ToDOT(snap, render)); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "render svg")
		}
		prog.done("Rendered SVG")
	case formatJSON:
		var buf strings.Builder
		if err := pkgio.WriteJSON(snap, &buf); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "encode report")
		}
		data = []byte(buf.String())
	default:
		return errs.New(errs.ErrCodeUnsupported, "unknown format %q (valid: %s)", opts.format, strings.Join(graphFormats, ", "))
	}

	if opts.output == "" {
		_, err := out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	printSuccess("Rendered %s of %s", opts.format, pluralize(len(snap.Documents), "document"))
	printFile(opts.output)
	return nil
}
