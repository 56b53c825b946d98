package coral

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/coral/pkg/collatz"
	errs "github.com/matzehuels/coral/pkg/errors"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// advance moves p by the default spacing along angle degrees and rises once.
func advance(p Point, angle float64) Point {
	rad := angle * math.Pi / 180
	return Point{
		X: p.X + 30*math.Cos(rad),
		Y: p.Y + 30*math.Sin(rad),
		Z: p.Z + 15,
	}
}

func layout(t *testing.T, g collatz.Graph, cfg Config) []Strand {
	t.Helper()
	c, err := New(collatz.Group(g), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c.Strands()
}

func TestLayoutLimitFive(t *testing.T) {
	g, _ := collatz.Build(5)
	got := layout(t, g, DefaultConfig())

	o := Point{}
	p2 := advance(o, -8)
	p4 := advance(p2, -16)
	p8 := advance(p4, -24)
	p16 := advance(p8, -32)
	p5 := advance(p16, -12)
	want := []Strand{{o, p2, p4, p8, p16, p5}}

	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
	if got[0][5].Z != 75 {
		t.Errorf("final z = %v, want 75", got[0][5].Z)
	}
}

func TestLayoutBranch(t *testing.T) {
	g := collatz.Graph{3: 8, 5: 8, 8: 4, 4: 2, 2: 1}
	got := layout(t, g, DefaultConfig())

	o := Point{}
	p2 := advance(o, -8)
	p4 := advance(p2, -16)
	p8 := advance(p4, -24)
	p3 := advance(p8, -4)
	p5 := advance(p8, -4)
	want := []Strand{
		{o, p2, p4, p8},
		{p8, p3},
		{p8, p5},
	}

	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutChildOrderAndParity(t *testing.T) {
	// 8 has an odd child (3) and an even child (16).
	g := collatz.Graph{3: 8, 16: 8, 8: 4, 4: 2, 2: 1}
	got := layout(t, g, DefaultConfig())

	if len(got) != 3 {
		t.Fatalf("got %d strands, want 3", len(got))
	}
	p8 := got[0][3]
	if diff := cmp.Diff(Strand{p8, advance(p8, -4)}, got[1], approx); diff != "" {
		t.Errorf("odd child strand mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Strand{p8, advance(p8, -32)}, got[2], approx); diff != "" {
		t.Errorf("even child strand mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutEmpty(t *testing.T) {
	g, _ := collatz.Build(4)
	if got := layout(t, g, DefaultConfig()); len(got) != 0 {
		t.Errorf("Build(4) produced %d strands, want 0", len(got))
	}
}

func TestLayoutStartElsewhere(t *testing.T) {
	g, _ := collatz.Build(5)
	cfg := DefaultConfig()
	cfg.Start = 8
	cfg.Origin = Frame{X: 10, Y: 20, Z: 30, Angle: 90}

	got := layout(t, g, cfg)

	o := Point{X: 10, Y: 20, Z: 30}
	p16 := advance(o, 82)
	p5 := advance(p16, 102)
	if diff := cmp.Diff([]Strand{{o, p16, p5}}, got, approx); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutProperties(t *testing.T) {
	g, _ := collatz.Build(2000)
	s := collatz.Group(g)
	cfg := DefaultConfig()
	c, err := New(s, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	strands := c.Strands()

	leaves := 0
	for n := range g {
		if s.Degree(n) == 0 {
			leaves++
		}
	}
	if want := leaves + len(s.Branches()); len(strands) != want {
		t.Errorf("got %d strands, want leaves+branches = %d", len(strands), want)
	}

	ends := map[Point]bool{}
	for i, st := range strands {
		if len(st) < 2 {
			t.Fatalf("strand %d has %d points", i, len(st))
		}
		if i == 0 {
			if st[0] != (Point{}) {
				t.Errorf("first strand starts at %v, want origin", st[0])
			}
		} else if !ends[st[0]] {
			t.Errorf("strand %d starts at %v, which ends no earlier strand", i, st[0])
		}
		ends[st[len(st)-1]] = true

		for j := 1; j < len(st); j++ {
			a, b := st[j-1], st[j]
			if d := math.Hypot(b.X-a.X, b.Y-a.Y); math.Abs(d-cfg.Spacing) > 1e-9 {
				t.Fatalf("strand %d step %d covers %v, want %v", i, j, d, cfg.Spacing)
			}
			if dz := b.Z - a.Z; math.Abs(dz-cfg.Rise) > 1e-9 {
				t.Fatalf("strand %d step %d rises %v, want %v", i, j, dz, cfg.Rise)
			}
		}
	}
}

func TestLayoutIsRepeatable(t *testing.T) {
	g, _ := collatz.Build(1000)
	c, err := New(collatz.Group(g), DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if diff := cmp.Diff(c.Strands(), c.Strands()); diff != "" {
		t.Errorf("second walk differs:\n%s", diff)
	}
}

func TestAllStopsEarly(t *testing.T) {
	g, _ := collatz.Build(1000)
	c, _ := New(collatz.Group(g), DefaultConfig())

	n := 0
	for range c.All() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("consumed %d strands, want 3", n)
	}
}

func TestYieldedStrandsAreIndependent(t *testing.T) {
	g, _ := collatz.Build(200)
	c, _ := New(collatz.Group(g), DefaultConfig())

	want := c.Strands()
	var got []Strand
	for s := range c.All() {
		got = append(got, s)
		// Appending must not clobber anything the walk still uses.
		_ = append(s, Point{X: -1})
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("strands changed after caller append:\n%s", diff)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   errs.Code
	}{
		{"zero spacing", func(c *Config) { c.Spacing = 0 }, errs.ErrCodeInvalidSpacing},
		{"negative spacing", func(c *Config) { c.Spacing = -1 }, errs.ErrCodeInvalidSpacing},
		{"NaN spacing", func(c *Config) { c.Spacing = math.NaN() }, errs.ErrCodeInvalidSpacing},
		{"infinite rise", func(c *Config) { c.Rise = math.Inf(1) }, errs.ErrCodeInvalidAngle},
		{"NaN odd angle", func(c *Config) { c.Angles.Odd = math.NaN() }, errs.ErrCodeInvalidAngle},
		{"infinite origin", func(c *Config) { c.Origin.X = math.Inf(-1) }, errs.ErrCodeInvalidAngle},
		{"zero start", func(c *Config) { c.Start = 0 }, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if _, err := New(collatz.Strands{}, cfg); !errs.Is(err, tt.code) {
				t.Errorf("New() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	got, err := Generate(5, DefaultConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 1 || len(got[0]) != 6 {
		t.Errorf("Generate(5) = %d strands, want one 6-point strand", len(got))
	}

	if _, err := Generate(-1, DefaultConfig()); !errs.Is(err, errs.ErrCodeInvalidLimit) {
		t.Errorf("Generate(-1) error = %v, want INVALID_LIMIT", err)
	}
}

func TestSummarize(t *testing.T) {
	strands := []Strand{
		{{X: 0, Y: 0, Z: 0}, {X: 1, Y: -2, Z: 3}},
		{{X: 1, Y: -2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: -1, Y: 0, Z: 9}},
	}
	want := Stats{
		Strands:  2,
		Points:   5,
		Segments: 3,
		Longest:  3,
		Bounds:   Bounds{Min: Point{X: -1, Y: -2, Z: 0}, Max: Point{X: 4, Y: 5, Z: 9}},
	}
	if diff := cmp.Diff(want, Summarize(strands)); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}

	b := want.Bounds
	if diff := cmp.Diff(Point{X: 5, Y: 7, Z: 9}, b.Size()); diff != "" {
		t.Errorf("Size mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Point{X: 1.5, Y: 1.5, Z: 4.5}, b.Center()); diff != "" {
		t.Errorf("Center mismatch (-want +got):\n%s", diff)
	}

	if got := BoundsOf(nil); got != (Bounds{}) {
		t.Errorf("BoundsOf(nil) = %v, want zero", got)
	}
}

func TestCoralStats(t *testing.T) {
	g := collatz.Graph{3: 8, 5: 8, 8: 4, 4: 2, 2: 1}
	c, err := New(collatz.Group(g), DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	st := c.Stats()
	if st.Strands != 3 || st.Points != 8 || st.Segments != 5 || st.Longest != 4 {
		t.Errorf("Stats() = %+v, want 3 strands, 8 points, 5 segments, longest 4", st)
	}
	if st.Depth != 4 {
		t.Errorf("Depth = %d, want 4", st.Depth)
	}
	if st.Bounds != c.Bounds() {
		t.Errorf("Stats().Bounds = %v, Bounds() = %v", st.Bounds, c.Bounds())
	}
	if st.Bounds.Min.Z != 0 || st.Bounds.Max.Z != 60 {
		t.Errorf("z range = [%v, %v], want [0, 60]", st.Bounds.Min.Z, st.Bounds.Max.Z)
	}
}
