// Package graph provides the wire formats for Collatz graphs and coral
// layouts.
//
// This package defines the canonical serialization for coral's data, used
// for output files, API responses, and cached layouts.
//
// # Core Types
//
//   - [Graph]: node-link document for a [collatz.Graph]
//   - [Coral]: layout document holding the configuration, stats, and strands
//   - [Config]: the layout parameters as they appear on the wire
//
// # Graph Serialization
//
// Graphs use a node-link JSON format. Every edge follows the link rule, so
// [ToCollatz] rejects documents with edges that do not:
//
//	{
//	  "nodes": [1, 2, 4, 5, 8, 16],
//	  "edges": [{"from": 2, "to": 1}, {"from": 4, "to": 2}, ...]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")  // File → collatz.Graph
//	graph.WriteGraphFile(g, "graph.json")      // collatz.Graph → File
//	data, _ := graph.MarshalGraph(g)           // collatz.Graph → []byte
//
// # Coral Serialization
//
// Coral documents store each point as an [x, y, z] triple:
//
//	{
//	  "version": 1,
//	  "config": {"limit": 9000, "spacing": 30, ...},
//	  "stats": {"strands": 4313, ...},
//	  "strands": [[[0, 0, 0], [29.7, -4.2, 15], ...], ...]
//	}
//
// The same document can be encoded as MessagePack ([FormatMsgpack]), which
// is what the caches store. File helpers pick the format from the extension.
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
