package graph

import (
	"github.com/matzehuels/coral/pkg/collatz"
	"github.com/matzehuels/coral/pkg/coral"
	errs "github.com/matzehuels/coral/pkg/errors"
)

// Version is the current Coral document version.
const Version = 1

// Encodings.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Formats lists the supported document encodings.
var Formats = []string{FormatJSON, FormatMsgpack}

// =============================================================================
// Graph - Collatz Graph Serialization
// =============================================================================

// Graph is the node-link serialization of a collatz.Graph.
// Nodes are sorted ascending; edges are sorted by source.
type Graph struct {
	Nodes []uint64 `json:"nodes" msgpack:"nodes"`
	Edges []Edge   `json:"edges" msgpack:"edges"`
}

// Edge is a directed child → parent link.
type Edge struct {
	From uint64 `json:"from" msgpack:"from"`
	To   uint64 `json:"to" msgpack:"to"`
}

// FromCollatz converts g to its serialization format.
// The root is listed as a node whenever g is non-empty.
func FromCollatz(g collatz.Graph) Graph {
	edges := g.Edges()
	out := Graph{
		Nodes: make([]uint64, 0, len(edges)+1),
		Edges: make([]Edge, len(edges)),
	}
	if len(edges) > 0 {
		out.Nodes = append(out.Nodes, uint64(collatz.Root))
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, uint64(n))
	}
	for i, e := range edges {
		out.Edges[i] = Edge{From: uint64(e.From), To: uint64(e.To)}
	}
	return out
}

// ToCollatz converts a Graph document back to a collatz.Graph.
// Returns an error if an edge breaks the link rule or a node has two
// parents. The nodes list is informational and not checked.
func ToCollatz(d Graph) (collatz.Graph, error) {
	g := make(collatz.Graph, len(d.Edges))
	for _, e := range d.Edges {
		from, to := collatz.Node(e.From), collatz.Node(e.To)
		if from == collatz.Root {
			return nil, errs.New(errs.ErrCodeInvalidInput, "edge from the root node")
		}
		if want, ok := collatz.Link(from); !ok || want != to {
			return nil, errs.New(errs.ErrCodeInvalidInput, "edge %d→%d breaks the link rule", from, to)
		}
		if _, dup := g[from]; dup {
			return nil, errs.New(errs.ErrCodeInvalidInput, "duplicate edge from %d", from)
		}
		g[from] = to
	}
	return g, nil
}

// =============================================================================
// Coral - Layout Serialization
// =============================================================================

// Vec is a point on the wire: [x, y, z].
type Vec [3]float64

// Coral is the canonical serialization of a laid-out coral.
type Coral struct {
	Version int         `json:"version" msgpack:"version"`
	Config  Config      `json:"config" msgpack:"config"`
	Stats   coral.Stats `json:"stats" msgpack:"stats"`
	Strands [][]Vec     `json:"strands" msgpack:"strands"`
}

// Config is the set of parameters that produced a Coral document.
type Config struct {
	Limit   int     `json:"limit" msgpack:"limit"`
	Start   uint64  `json:"start" msgpack:"start"`
	Spacing float64 `json:"spacing" msgpack:"spacing"`
	Rise    float64 `json:"rise" msgpack:"rise"`
	Odd     float64 `json:"odd" msgpack:"odd"`
	Even    float64 `json:"even" msgpack:"even"`
	Origin  Origin  `json:"origin" msgpack:"origin"`
}

// Origin is the initial pen.
type Origin struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Z     float64 `json:"z" msgpack:"z"`
	Angle float64 `json:"angle" msgpack:"angle"`
}

// ConfigFrom records the graph limit and layout config.
func ConfigFrom(limit int, cfg coral.Config) Config {
	return Config{
		Limit:   limit,
		Start:   uint64(cfg.Start),
		Spacing: cfg.Spacing,
		Rise:    cfg.Rise,
		Odd:     cfg.Angles.Odd,
		Even:    cfg.Angles.Even,
		Origin:  Origin{X: cfg.Origin.X, Y: cfg.Origin.Y, Z: cfg.Origin.Z, Angle: cfg.Origin.Angle},
	}
}

// Layout returns the coral.Config the document was produced with.
func (c Config) Layout() coral.Config {
	return coral.Config{
		Start:   collatz.Node(c.Start),
		Origin:  coral.Frame{X: c.Origin.X, Y: c.Origin.Y, Z: c.Origin.Z, Angle: c.Origin.Angle},
		Spacing: c.Spacing,
		Rise:    c.Rise,
		Angles:  coral.Angles{Odd: c.Odd, Even: c.Even},
	}
}

// NewCoral builds a document from laid-out strands.
func NewCoral(cfg Config, strands []coral.Strand, stats coral.Stats) Coral {
	out := Coral{
		Version: Version,
		Config:  cfg,
		Stats:   stats,
		Strands: make([][]Vec, len(strands)),
	}
	for i, s := range strands {
		vs := make([]Vec, len(s))
		for j, p := range s {
			vs[j] = Vec{p.X, p.Y, p.Z}
		}
		out.Strands[i] = vs
	}
	return out
}

// FromLayout walks c once and wraps the result in a document.
func FromLayout(limit int, c *coral.Coral) Coral {
	strands, stats := c.Collect()
	return NewCoral(ConfigFrom(limit, c.Config()), strands, stats)
}

// Layout converts the document's strands back to coral strands.
func (d Coral) Layout() []coral.Strand {
	out := make([]coral.Strand, len(d.Strands))
	for i, vs := range d.Strands {
		s := make(coral.Strand, len(vs))
		for j, v := range vs {
			s[j] = coral.Point{X: v[0], Y: v[1], Z: v[2]}
		}
		out[i] = s
	}
	return out
}

// Validate checks the document version and that every strand has at least
// two points.
func (d Coral) Validate() error {
	if d.Version != Version {
		return errs.New(errs.ErrCodeInvalidFormat, "unsupported coral document version %d", d.Version)
	}
	for i, s := range d.Strands {
		if len(s) < 2 {
			return errs.New(errs.ErrCodeInvalidFormat, "strand %d has %d points", i, len(s))
		}
	}
	return nil
}
