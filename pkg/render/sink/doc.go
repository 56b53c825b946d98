// Package sink provides output format renderers for coral layouts.
//
// # Overview
//
// A "sink" transforms laid-out strands into a final output format. This
// package provides renderers for:
//
//   - SVG: a flat preview of the coral under an orthographic projection
//   - OBJ: Wavefront OBJ polylines for import into 3D tools
//   - NDJSON: one strand per line, for streaming consumers
//
// None of the sinks tessellate tubes or shade surfaces; a downstream 3D
// renderer does that from the OBJ or JSON output.
//
// # SVG Output
//
// [RenderSVG] projects every strand onto a plane and draws it as a
// polyline, fitted into the frame:
//
//	svg := sink.RenderSVG(strands,
//	    sink.WithProjection(sink.ProjectionIso),
//	    sink.WithSeed(42),
//	    sink.WithSmoothing(8),
//	)
//
// The stroke color is drawn from [Palette] by seed unless set explicitly
// with [WithColor].
//
// # OBJ Output
//
// [RenderOBJ] writes one vertex per point and one line element per strand.
// With [WithOBJSmoothing] the strands are first resampled through a
// Catmull-Rom curve.
//
// # NDJSON Output
//
// [WriteNDJSON] consumes an iterator, so a caller can stream strands as the
// layout produces them:
//
//	err := sink.WriteNDJSON(w, c.All())
package sink
