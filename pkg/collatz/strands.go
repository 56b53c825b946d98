package collatz

import (
	"cmp"
	"maps"
	"slices"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// Strands maps each target node to the ordered set of sources that link to
// it. It is the exact inverse index of the [Graph] it was grouped from.
//
// The zero value is an empty grouping. Strands is not modified after
// [Group] returns and is safe for concurrent reads.
type Strands struct {
	sets  map[Node]*redblacktree.Tree
	edges int
}

// nodeComparator orders child sets ascending.
func nodeComparator(a, b interface{}) int {
	return cmp.Compare(a.(Node), b.(Node))
}

// Group inverts g: every source is inserted into the set keyed by its
// target. Iteration order over g does not affect the result.
func Group(g Graph) Strands {
	s := Strands{sets: make(map[Node]*redblacktree.Tree)}
	for source, target := range g {
		set, ok := s.sets[target]
		if !ok {
			set = &redblacktree.Tree{Comparator: nodeComparator}
			s.sets[target] = set
		}
		if _, found := set.Get(source); !found {
			set.Put(source, nil)
			s.edges++
		}
	}
	return s
}

// Children returns the sources linking to n in ascending order, or nil if
// n is a leaf.
func (s Strands) Children(n Node) []Node {
	set, ok := s.sets[n]
	if !ok {
		return nil
	}
	keys := set.Keys()
	children := make([]Node, len(keys))
	for i, k := range keys {
		children[i] = k.(Node)
	}
	return children
}

// Degree returns the number of children of n.
func (s Strands) Degree(n Node) int {
	if set, ok := s.sets[n]; ok {
		return set.Size()
	}
	return 0
}

// IsBranch reports whether n has more than one child. Paths split there.
func (s Strands) IsBranch(n Node) bool { return s.Degree(n) > 1 }

// Contains reports whether source links to target.
func (s Strands) Contains(target, source Node) bool {
	set, ok := s.sets[target]
	if !ok {
		return false
	}
	_, found := set.Get(source)
	return found
}

// Targets returns every node with at least one child, ascending.
func (s Strands) Targets() []Node {
	return slices.Sorted(maps.Keys(s.sets))
}

// Len returns the number of targets.
func (s Strands) Len() int { return len(s.sets) }

// EdgeCount returns the total number of source → target memberships.
func (s Strands) EdgeCount() int { return s.edges }

// Branches returns the targets with more than one child, ascending.
func (s Strands) Branches() []Node {
	var out []Node
	for _, n := range s.Targets() {
		if s.IsBranch(n) {
			out = append(out, n)
		}
	}
	return out
}

// Map returns a copy of the grouping as plain sorted slices.
func (s Strands) Map() map[Node][]Node {
	out := make(map[Node][]Node, len(s.sets))
	for n := range s.sets {
		out[n] = s.Children(n)
	}
	return out
}
