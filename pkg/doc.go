// Package pkg provides the libraries behind coral, which draws every Collatz
// chain up to a limit as one branching 3D figure.
//
// # Overview
//
// A coral is grown in three steps:
//
//  1. [collatz] - build the link graph (n → 3n+1 or n/2) for seeds 5..limit
//     and group it into strands by parent
//  2. [coral] - walk the strands from 1 outward, turning the pen by each
//     node's parity, and emit one polyline per branch
//  3. [render] - write the polylines as SVG, OBJ, or NDJSON, or the graph
//     itself as a Graphviz diagram
//
// # Architecture
//
//	limit
//	  ↓
//	[collatz] Build → Graph → Group → Strands
//	  ↓
//	[coral] New → Walk / All / Collect → []Strand
//	  ↓
//	[graph] Coral document (JSON, msgpack)
//	  ↓
//	[render/sink] SVG, OBJ, NDJSON    [render/nodelink] DOT, SVG
//
// # Quick Start
//
//	g, _ := collatz.Build(9000)
//	c, _ := coral.New(collatz.Group(g), coral.DefaultConfig())
//	strands, _ := c.Collect()
//	svg := sink.RenderSVG(strands)
//
// # Main Packages
//
//   - [pipeline]: build → layout → render with caching, shared by CLI and API
//   - [cache]: file, Redis, and null caches plus key derivation
//   - [config]: TOML, YAML, and JSON config files
//   - [errors]: coded errors and input validation
//   - [observability]: hooks for pipeline, cache, and HTTP events
//   - [httputil]: JSON responses and request logging for the API
//   - [buildinfo]: version information stamped at build time
package pkg
