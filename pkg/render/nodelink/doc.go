// Package nodelink exports tech paths as Graphviz node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT, optionally pinned to a computed layout, then render
// it in-process:
//
//	dot, err := nodelink.ToDOT(g, lay, nodelink.Options{Title: "Player 1"})
//	svg, err := nodelink.RenderSVG(ctx, dot, lay != nil)
//
// # DOT Format
//
// The generated DOT keeps every transition as its own labeled edge and fills
// nodes with the same color scale as the PNG and SVG renderers. Node widths
// follow node size so repeated actions stand out. The output can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools (neato -n for pinned files)
//   - Customized before rendering
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
