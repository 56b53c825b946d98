package coral

import (
	"iter"
	"math"

	"github.com/matzehuels/coral/pkg/collatz"
)

// Strand is an ordered polyline of at least two points.
type Strand []Point

// Len returns the number of points in the strand.
func (s Strand) Len() int { return len(s) }

// Coral is a laid-out strand grouping.
type Coral struct {
	strands collatz.Strands
	cfg     Config
}

// New validates cfg and returns a Coral that lays out strands.
func New(strands collatz.Strands, cfg Config) (*Coral, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Coral{strands: strands, cfg: cfg}, nil
}

// Generate builds the graph for limit, groups it, and lays it out.
func Generate(limit int, cfg Config) ([]Strand, error) {
	g, err := collatz.Build(limit)
	if err != nil {
		return nil, err
	}
	c, err := New(collatz.Group(g), cfg)
	if err != nil {
		return nil, err
	}
	return c.Strands(), nil
}

// Config returns the layout configuration.
func (c *Coral) Config() Config { return c.cfg }

// visit is one pending node of the walk together with the pen and the
// partial path that reach it.
type visit struct {
	node  collatz.Node
	frame Frame
	path  Strand
	depth int
}

// All yields strands in depth-first order, children ascending. Each call
// starts a new walk.
func (c *Coral) All() iter.Seq[Strand] {
	return func(yield func(Strand) bool) {
		c.walk(func(s Strand, _ int) bool { return yield(s) })
	}
}

// walk runs the layout, passing each finished strand and the depth of its
// last point to yield until yield returns false.
func (c *Coral) walk(yield func(Strand, int) bool) {
	origin := c.cfg.Origin
	stack := []visit{{node: c.cfg.Start, frame: origin, path: Strand{origin.Point()}}}

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children := c.strands.Children(v.node)
		switch len(children) {
		case 0:
			if !emit(yield, v) {
				return
			}
		case 1:
			// The path is owned by this visit alone, so it can grow in place.
			f := c.cfg.Step(v.frame, children[0])
			stack = append(stack, visit{
				node:  children[0],
				frame: f,
				path:  append(v.path, f.Point()),
				depth: v.depth + 1,
			})
		default:
			if !emit(yield, v) {
				return
			}
			pivot := v.path[len(v.path)-1]
			for i := len(children) - 1; i >= 0; i-- {
				f := c.cfg.Step(v.frame, children[i])
				stack = append(stack, visit{
					node:  children[i],
					frame: f,
					path:  Strand{pivot, f.Point()},
					depth: v.depth + 1,
				})
			}
		}
	}
}

func emit(yield func(Strand, int) bool, v visit) bool {
	n := len(v.path)
	if n < 2 {
		return true
	}
	return yield(v.path[:n:n], v.depth)
}

// Strands collects All into a slice.
func (c *Coral) Strands() []Strand {
	var out []Strand
	for s := range c.All() {
		out = append(out, s)
	}
	return out
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min Point `json:"min" msgpack:"min"`
	Max Point `json:"max" msgpack:"max"`
}

// Size returns the extent along each axis.
func (b Bounds) Size() Point {
	return Point{X: b.Max.X - b.Min.X, Y: b.Max.Y - b.Min.Y, Z: b.Max.Z - b.Min.Z}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2, Z: (b.Min.Z + b.Max.Z) / 2}
}

// BoundsOf returns the box enclosing every point of strands. The zero Bounds
// is returned when there are no points.
func BoundsOf(strands []Strand) Bounds {
	inf := math.Inf(1)
	b := Bounds{Min: Point{inf, inf, inf}, Max: Point{-inf, -inf, -inf}}
	empty := true
	for _, s := range strands {
		for _, p := range s {
			empty = false
			b.Min.X, b.Max.X = min(b.Min.X, p.X), max(b.Max.X, p.X)
			b.Min.Y, b.Max.Y = min(b.Min.Y, p.Y), max(b.Max.Y, p.Y)
			b.Min.Z, b.Max.Z = min(b.Min.Z, p.Z), max(b.Max.Z, p.Z)
		}
	}
	if empty {
		return Bounds{}
	}
	return b
}

// Stats summarizes a layout. Depth is the number of steps from the start
// node to the deepest strand end; Summarize leaves it zero.
type Stats struct {
	Strands  int    `json:"strands" msgpack:"strands"`
	Points   int    `json:"points" msgpack:"points"`
	Segments int    `json:"segments" msgpack:"segments"`
	Longest  int    `json:"longest" msgpack:"longest"`
	Depth    int    `json:"depth" msgpack:"depth"`
	Bounds   Bounds `json:"bounds" msgpack:"bounds"`
}

// Collect walks the layout once, returning the strands and their Stats.
func (c *Coral) Collect() ([]Strand, Stats) {
	var strands []Strand
	depth := 0
	c.walk(func(s Strand, d int) bool {
		strands = append(strands, s)
		depth = max(depth, d)
		return true
	})
	st := Summarize(strands)
	st.Depth = depth
	return strands, st
}

// Stats summarizes the layout.
func (c *Coral) Stats() Stats {
	_, st := c.Collect()
	return st
}

// Bounds returns the bounding box of the layout.
func (c *Coral) Bounds() Bounds {
	return BoundsOf(c.Strands())
}

// Summarize computes Stats for strands.
func Summarize(strands []Strand) Stats {
	st := Stats{Strands: len(strands), Bounds: BoundsOf(strands)}
	for _, s := range strands {
		st.Points += len(s)
		st.Segments += len(s) - 1
		st.Longest = max(st.Longest, len(s))
	}
	return st
}
