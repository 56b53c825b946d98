// Package collatz builds the link graph behind a coral and groups its edges
// into strands.
//
// # Link Rule
//
// Every node n > 1 links to exactly one parent:
//
//	Link(n) = 3n + 1   if n is odd
//	Link(n) = n / 2    if n is even
//
// This is the forward Collatz step. The graph built from it is read in
// reverse by the layout: node 1 is the root and every node that links to a
// target becomes one of the target's children. It is deliberately not the
// textbook reverse-Collatz tree; the geometry depends on reproducing this
// exact rule.
//
// # Building
//
// [Build] seeds every integer from [FirstSeed] to the limit and follows its
// links until it reaches 1 or a node that is already in the graph. Shared
// chain suffixes are therefore stored once:
//
//	g, err := collatz.Build(5)
//	// g == Graph{5: 16, 16: 8, 8: 4, 4: 2, 2: 1}
//
// Termination at 1 is the Collatz conjecture. It is unproven in general and
// is accepted here as an assumption; it has been verified far beyond
// [MaxLimit]. Build never loops forever regardless, because it stops at the
// first node it has already seen.
//
// # Grouping
//
// [Group] inverts the graph into [Strands]: for each target, the set of
// sources that link to it. Child sets are ordered ascending so every
// traversal over them is reproducible.
//
//	s := collatz.Group(g)
//	s.Children(8)  // [16]
//	s.Children(1)  // [2]
//
// Graphs and strands are immutable after construction and safe for
// concurrent reads.
package collatz
