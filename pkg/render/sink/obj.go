package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/coral/pkg/coral"
)

// OBJOption configures OBJ rendering via [RenderOBJ].
type OBJOption func(*objRenderer)

type objRenderer struct {
	smoothing int
	name      string
}

// WithOBJSmoothing resamples strands through a Catmull-Rom curve before
// writing vertices.
func WithOBJSmoothing(segments int) OBJOption {
	return func(r *objRenderer) { r.smoothing = segments }
}

// WithOBJName sets the object name written in the header.
func WithOBJName(name string) OBJOption { return func(r *objRenderer) { r.name = name } }

// RenderOBJ writes strands as Wavefront OBJ polylines: a "v" line per point
// and an "l" element per strand. Indices are 1-based across the file.
func RenderOBJ(strands []coral.Strand, opts ...OBJOption) []byte {
	r := objRenderer{name: "coral"}
	for _, opt := range opts {
		opt(&r)
	}
	if r.smoothing > 0 {
		strands = coral.Smooth(strands, r.smoothing)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %d strands\n", len(strands))
	fmt.Fprintf(&buf, "o %s\n", r.name)

	next := 1
	for i, s := range strands {
		fmt.Fprintf(&buf, "g strand_%d\n", i)
		for _, p := range s {
			fmt.Fprintf(&buf, "v %g %g %g\n", p.X, p.Y, p.Z)
		}
		buf.WriteString("l")
		for j := range s {
			fmt.Fprintf(&buf, " %d", next+j)
		}
		buf.WriteByte('\n')
		next += len(s)
	}
	return buf.Bytes()
}
