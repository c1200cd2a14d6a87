// Package nodelink renders federation reference graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// documents appear as boxes connected by reference arrows.
//
// # Usage
//
// Convert a workspace snapshot to DOT format, then render to SVG:
//
//	snap, _ := ws.Snapshot()
//	dot := nodelink.ToDOT(snap, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels list declared libraries and element counts
//   - Highlight: colour the scope of one document (root gold, forward set
//     blue, backward set green, everything else greyed out)
//
// # Edges
//
// Explicit references are solid and keep their list order. Edges held only
// by pointers (base classes, role requirements, link endpoints) are dashed.
// An edge label gives the number of pointers behind the edge.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
