// Package nodelink renders Collatz graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// each number appears as a box with an arrow to the number it links to. It
// complements the coral layout when the raw graph structure is of interest.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Parity: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include the number of steps to 1
//   - Parity: odd and even nodes get different fill colors
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//
// The generated DOT uses bottom-to-top layout (rankdir=BT) so 1 sits at the
// top and every seed hangs below it.
//
// Graphs for large limits have tens of thousands of nodes. DOT export is
// cheap, but Graphviz layout of such graphs takes a long time; keep the limit
// small when rendering SVG.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
