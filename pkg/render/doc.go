// Package render provides visualization rendering for federation graphs.
//
// The [nodelink] subpackage renders the reference graph as a Graphviz
// node-link diagram:
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [nodelink]: github.com/matzehuels/amlfed/pkg/render/nodelink
package render
