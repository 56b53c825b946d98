package coral

import (
	"math"

	"github.com/matzehuels/coral/pkg/collatz"
	errs "github.com/matzehuels/coral/pkg/errors"
)

// Default layout values.
const (
	DefaultSpacing   = 30.0
	DefaultRise      = 15.0
	DefaultOddAngle  = 20.0
	DefaultEvenAngle = -8.0
	DefaultStart     = collatz.Root

	radiansPerDegree = math.Pi / 180
)

// Point is a position in 3D space.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// Frame is the pen state when extending a strand: a position plus a heading
// in degrees, measured counterclockwise from the +X axis.
type Frame struct {
	X, Y, Z float64
	Angle   float64
}

// Point returns the frame's position.
func (f Frame) Point() Point { return Point{X: f.X, Y: f.Y, Z: f.Z} }

// Angles holds the heading change, in degrees, applied when stepping into an
// odd or an even child.
type Angles struct {
	Odd  float64
	Even float64
}

// Turn returns the angle for stepping into n.
func (a Angles) Turn(n collatz.Node) float64 {
	if n.IsOdd() {
		return a.Odd
	}
	return a.Even
}

// Config controls the layout walk.
type Config struct {
	// Start is the node the walk begins at. Defaults to the root.
	Start collatz.Node

	// Origin is the initial pen. Its position is the first point of the
	// first strand.
	Origin Frame

	// Spacing is the XY distance covered by one step. Must be positive.
	Spacing float64

	// Rise is the Z increment per step.
	Rise float64

	// Angles are the branch turns for odd and even children.
	Angles Angles
}

// DefaultConfig returns the standard layout: start at 1 from the origin,
// 30 units per step, rising 15, turning +20° for odd and −8° for even
// children.
func DefaultConfig() Config {
	return Config{
		Start:   DefaultStart,
		Spacing: DefaultSpacing,
		Rise:    DefaultRise,
		Angles:  Angles{Odd: DefaultOddAngle, Even: DefaultEvenAngle},
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Start == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "start node must be positive")
	}
	if err := errs.ValidateSpacing("spacing", c.Spacing); err != nil {
		return err
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"rise", c.Rise},
		{"odd angle", c.Angles.Odd},
		{"even angle", c.Angles.Even},
		{"origin x", c.Origin.X},
		{"origin y", c.Origin.Y},
		{"origin z", c.Origin.Z},
		{"origin angle", c.Origin.Angle},
	}
	for _, chk := range checks {
		if err := errs.ValidateFinite(chk.name, chk.v); err != nil {
			return err
		}
	}
	return nil
}

// Step returns the frame reached by moving from f into child.
func (c Config) Step(f Frame, child collatz.Node) Frame {
	angle := f.Angle + c.Angles.Turn(child)
	rad := angle * radiansPerDegree
	return Frame{
		X:     f.X + math.Cos(rad)*c.Spacing,
		Y:     f.Y + math.Sin(rad)*c.Spacing,
		Z:     f.Z + c.Rise,
		Angle: angle,
	}
}
