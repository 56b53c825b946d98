package coral

import "math"

// centripetal is the knot exponent applied to squared distances (α = 0.5).
const centripetal = 0.25

// CatmullRom samples a centripetal Catmull-Rom spline through the points of
// s and returns samples+1 points spaced evenly in the curve parameter. The
// first and last points of the result equal the first and last points of s.
//
// The end tangents are taken from reflected phantom points, so a two-point
// strand samples to a straight segment. Strands with fewer than two points,
// or samples < 1, are returned as a copy.
func CatmullRom(s Strand, samples int) Strand {
	if len(s) < 2 || samples < 1 {
		return append(Strand(nil), s...)
	}
	out := make(Strand, 0, samples+1)
	for i := 0; i <= samples; i++ {
		out = append(out, curvePoint(s, float64(i)/float64(samples)))
	}
	return out
}

// Smooth resamples every strand with segments samples per original segment.
func Smooth(strands []Strand, segments int) []Strand {
	out := make([]Strand, len(strands))
	for i, s := range strands {
		out[i] = CatmullRom(s, max(1, (len(s)-1)*segments))
	}
	return out
}

func curvePoint(s Strand, t float64) Point {
	last := len(s) - 1
	p := float64(last) * t
	i := int(math.Floor(p))
	w := p - float64(i)
	if i >= last {
		i, w = last-1, 1
	}

	p1, p2 := s[i], s[i+1]
	p0 := reflect(s[0], s[1])
	if i > 0 {
		p0 = s[i-1]
	}
	p3 := reflect(s[last], s[last-1])
	if i+2 <= last {
		p3 = s[i+2]
	}

	dt0 := math.Pow(dist2(p0, p1), centripetal)
	dt1 := math.Pow(dist2(p1, p2), centripetal)
	dt2 := math.Pow(dist2(p2, p3), centripetal)
	if dt1 < 1e-4 {
		dt1 = 1
	}
	if dt0 < 1e-4 {
		dt0 = dt1
	}
	if dt2 < 1e-4 {
		dt2 = dt1
	}

	return Point{
		X: cubic(p0.X, p1.X, p2.X, p3.X, dt0, dt1, dt2, w),
		Y: cubic(p0.Y, p1.Y, p2.Y, p3.Y, dt0, dt1, dt2, w),
		Z: cubic(p0.Z, p1.Z, p2.Z, p3.Z, dt0, dt1, dt2, w),
	}
}

// cubic evaluates the non-uniform Catmull-Rom segment between x1 and x2 as a
// Hermite polynomial at w in [0, 1].
func cubic(x0, x1, x2, x3, dt0, dt1, dt2, w float64) float64 {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	t1 *= dt1
	t2 *= dt1

	c0 := x1
	c1 := t1
	c2 := -3*x1 + 3*x2 - 2*t1 - t2
	c3 := 2*x1 - 2*x2 + t1 + t2
	return c0 + w*(c1+w*(c2+w*c3))
}

// reflect mirrors q through p.
func reflect(p, q Point) Point {
	return Point{X: 2*p.X - q.X, Y: 2*p.Y - q.Y, Z: 2*p.Z - q.Z}
}

func dist2(a, b Point) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}
