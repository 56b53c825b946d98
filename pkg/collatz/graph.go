package collatz

import (
	"maps"
	"math"
	"slices"

	errs "github.com/matzehuels/coral/pkg/errors"
)

const (
	// Root is the terminal node. It never appears as a key in a [Graph].
	Root Node = 1

	// FirstSeed is the smallest value [Build] seeds. Limits below it yield
	// an empty graph.
	FirstSeed = 5

	// MaxLimit bounds the limit accepted by [Build]. Chain peaks below this
	// value stay far inside uint64.
	MaxLimit = 10_000_000
)

// Node is a positive integer in a Collatz chain.
type Node uint64

// IsOdd reports whether n is odd. Odd children turn by the odd branch angle.
func (n Node) IsOdd() bool { return n%2 == 1 }

// Edge links a child to its parent.
type Edge struct {
	From Node // child
	To   Node // parent, Link(From)
}

// Graph maps every node to its single parent. Node 1 is never a key.
type Graph map[Node]Node

// Link applies the link rule to n. The second result is false when 3n+1
// does not fit in a Node.
func Link(n Node) (Node, bool) {
	if n.IsOdd() {
		if n > (math.MaxUint64-1)/3 {
			return 0, false
		}
		return 3*n + 1, true
	}
	return n / 2, true
}

// Build computes the link graph for seeds FirstSeed..limit.
//
// Each seed is followed until it reaches Root or a node that is already a
// key, so chains that converge are stored once. A limit below FirstSeed
// returns an empty graph. Negative limits and limits above MaxLimit are
// rejected with [errs.ErrCodeInvalidLimit].
func Build(limit int) (Graph, error) {
	if err := errs.ValidateLimit(limit, MaxLimit); err != nil {
		return nil, err
	}

	g := make(Graph)
	for seed := Node(FirstSeed); seed <= Node(limit); seed++ {
		if err := g.extend(seed); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// extend records n and its ancestors until Root or a known node.
func (g Graph) extend(n Node) error {
	for n != Root {
		if _, ok := g[n]; ok {
			return nil
		}
		next, ok := Link(n)
		if !ok {
			return errs.New(errs.ErrCodeOverflow, "link of %d overflows", n)
		}
		g[n] = next
		n = next
	}
	return nil
}

// Parent returns the node n links to, and whether n is in the graph.
func (g Graph) Parent(n Node) (Node, bool) {
	p, ok := g[n]
	return p, ok
}

// Len returns the number of nodes with a parent.
func (g Graph) Len() int { return len(g) }

// Nodes returns all keys in ascending order.
func (g Graph) Nodes() []Node {
	return slices.Sorted(maps.Keys(g))
}

// Edges returns every child → parent pair, ordered by child.
func (g Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g))
	for _, n := range g.Nodes() {
		edges = append(edges, Edge{From: n, To: g[n]})
	}
	return edges
}

// Chain returns n followed by every node on its way to Root:
//
//	Chain(6) == [6 3 10 5 16 8 4 2 1]
//
// Zero has no chain and is rejected with [errs.ErrCodeInvalidInput].
func Chain(n Node) ([]Node, error) {
	if n == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "chain start must be positive")
	}
	chain := []Node{n}
	for n != Root {
		next, ok := Link(n)
		if !ok {
			return nil, errs.New(errs.ErrCodeOverflow, "link of %d overflows", n)
		}
		chain = append(chain, next)
		n = next
	}
	return chain, nil
}
