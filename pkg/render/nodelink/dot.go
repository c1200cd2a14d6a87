package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/amlfed/pkg/federation"
	"github.com/matzehuels/amlfed/pkg/workspace"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes library declarations and element counts in node
	// labels. When false, only the location is shown.
	Detailed bool

	// Highlight colours the scope of one document: the root, its forward set
	// and its backward set. NoDocument disables highlighting.
	Highlight federation.DocID
}

var kindLabel = map[federation.Kind]string{
	federation.KindInterfaceLibrary:  "IC",
	federation.KindRoleLibrary:       "RC",
	federation.KindSystemUnitLibrary: "SUC",
}

// ToDOT converts a workspace snapshot to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Explicit references are drawn as solid arrows. Edges that exist only
// because of pointers are dashed; every edge carrying pointers is labelled
// with their count.
func ToDOT(snap workspace.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	locations := make(map[federation.DocID]string, len(snap.Documents))
	for _, d := range snap.Documents {
		locations[d.ID] = d.Location
	}

	var highlight *federation.ScopeView
	for i := range snap.Documents {
		if d := &snap.Documents[i]; d.ID == opts.Highlight {
			highlight = &d.Scope
		}
	}

	for _, d := range snap.Documents {
		attrs := fmtAttrs(d, fmtLabel(d, opts.Detailed), highlight)
		fmt.Fprintf(&buf, "  %q [%s];\n", d.Location, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, d := range snap.Documents {
		implicit := make(map[federation.DocID]int, len(d.Implicit))
		for _, im := range d.Implicit {
			implicit[im.Target] = im.Count
		}
		for _, to := range d.References {
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", d.Location, locations[to], edgeAttrs(false, implicit[to]))
			delete(implicit, to)
		}
		for _, im := range d.Implicit {
			if n, ok := implicit[im.Target]; ok {
				fmt.Fprintf(&buf, "  %q -> %q%s;\n", d.Location, locations[im.Target], edgeAttrs(true, n))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(d workspace.DocumentInfo, detailed bool) string {
	if !detailed {
		return d.Location
	}

	var parts []string
	for _, kind := range federation.LibraryKinds {
		for _, name := range d.Libraries[kind] {
			parts = append(parts, fmt.Sprintf("%s: %s", kindLabel[kind], name))
		}
	}
	if d.Elements > 0 {
		parts = append(parts, fmt.Sprintf("elements: %d", d.Elements))
	}
	if len(parts) == 0 {
		return d.Location
	}
	return d.Location + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(d workspace.DocumentInfo, label string, highlight *federation.ScopeView) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if highlight == nil {
		return attrs
	}
	switch {
	case d.ID == highlight.Root:
		attrs = append(attrs, "fillcolor=gold", "penwidth=3")
	case slices.Contains(highlight.Forward, d.ID):
		attrs = append(attrs, "fillcolor=lightblue")
	case slices.Contains(highlight.Backward, d.ID):
		attrs = append(attrs, "fillcolor=palegreen")
	default:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=grey40")
	}
	return attrs
}

func edgeAttrs(implicitOnly bool, pointers int) string {
	var attrs []string
	if implicitOnly {
		attrs = append(attrs, "style=dashed")
	}
	if pointers > 0 {
		attrs = append(attrs, fmt.Sprintf("label=\"%d\"", pointers))
	}
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose size
// matches the viewBox, so the SVG scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
