// Package render groups the output renderers for coral.
//
// # Overview
//
// Rendering is split by what is being drawn:
//
//   - [sink]: laid-out strands as SVG previews, OBJ polylines, or NDJSON
//   - [nodelink]: the Collatz graph itself as a Graphviz diagram
//
// # Strand Sinks
//
// The [sink] subpackage consumes []coral.Strand (or an iterator over them)
// and produces bytes:
//
//	svg := sink.RenderSVG(strands, sink.WithProjection(sink.ProjectionTop))
//	obj := sink.RenderOBJ(strands, sink.WithOBJSmoothing(8))
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the child → parent graph using Graphviz.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package render
