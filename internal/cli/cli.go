// Package cli implements the amlfed command-line interface.
//
// This package provides commands for checking federation manifests,
// inspecting document scopes, resolving library names and identifiers, and
// rendering the reference graph. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - check: Build a manifest and report cycles or namespace collisions
//   - scope: Show the forward set, backward set and declarations of a document
//   - resolve: Find the document declaring a library name or unique identifier
//   - graph: Write the reference graph as DOT, SVG or a JSON report
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. With debug
// logging enabled, federation engine events (edges added or rejected, scopes
// revalidated) are logged as well.
package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/amlfed/pkg/buildinfo"
	errs "github.com/matzehuels/amlfed/pkg/errors"
	"github.com/matzehuels/amlfed/pkg/federation"
	"github.com/matzehuels/amlfed/pkg/manifest"
	"github.com/matzehuels/amlfed/pkg/observability"
	"github.com/matzehuels/amlfed/pkg/workspace"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// requireExplicit forces require_explicit_path on for every manifest.
	requireExplicit bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the engine's
// observability hooks are routed to the logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := &logHooks{logger: c.Logger}
		observability.SetFederationHooks(hooks)
		observability.SetManifestHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "amlfed",
		Short:        "amlfed checks federations of engineering documents",
		Long:         `amlfed builds a federation of separately authored engineering documents from a manifest, verifies that their reference graph is acyclic and that interface, role and system-unit library names and unique identifiers stay unambiguous in every document's scope.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVar(&c.requireExplicit, "require-explicit", false, "require explicit references for every pointer (overrides the manifest)")

	// Register all subcommands
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.scopeCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Workspace Factory
// =============================================================================

// loadWorkspace loads the manifest at path and builds its workspace.
func (c *CLI) loadWorkspace(ctx context.Context, path string) (*workspace.Workspace, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	ws, err := manifest.Build(m, workspace.Options{
		RequireExplicitPath: c.requireExplicit,
		Logger:              logger,
	})
	if err != nil {
		return nil, err
	}
	prog.done("Built federation of " + pluralize(len(m.Documents), "document"))
	return ws, nil
}

// document looks up location in ws.
func document(ws *workspace.Workspace, location string) (federation.DocID, error) {
	doc, ok := ws.Lookup(location)
	if !ok {
		return federation.NoDocument, errs.New(errs.ErrCodeDocumentNotFound, "no document at %q", location)
	}
	return doc, nil
}

// locations maps document ids of ws to their locations.
func locations(ws *workspace.Workspace, ids []federation.DocID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		loc, _ := ws.Location(id)
		out = append(out, loc)
	}
	return out
}

// reportError prints a short explanation of a rejected federation change.
// The error itself is returned to main and printed there.
func reportError(err error) {
	var cycle *federation.CycleError
	var collision *federation.CollisionError
	switch {
	case errors.As(err, &cycle):
		printError("Reference cycle")
		printDetail("%s", strings.Join(cycle.Locations, " "+iconArrow+" "))
	case errors.As(err, &collision):
		printError("Duplicate %s %s", collision.Kind, StyleHighlight.Render(collision.Key()))
		printDetail("declared by %s and %s", collision.OwnerLocation, collision.OtherLocation)
	}
}
