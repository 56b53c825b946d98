package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/coral/pkg/coral"
)

// Projections.
const (
	ProjectionTop   = "top"
	ProjectionSide  = "side"
	ProjectionFront = "front"
	ProjectionIso   = "iso"
)

// Projections lists every supported projection.
var Projections = []string{ProjectionTop, ProjectionSide, ProjectionFront, ProjectionIso}

// Palette holds the coral colors.
var Palette = []string{"#f96645", "#32a2ad", "#a9e2ff"}

// Defaults for SVG rendering.
const (
	DefaultWidth       = 1024.0
	DefaultHeight      = 1024.0
	DefaultMargin      = 24.0
	DefaultStrokeWidth = 1.5
)

var (
	isoCos = math.Cos(math.Pi / 6)
	isoSin = math.Sin(math.Pi / 6)
)

// ColorForSeed picks a palette color deterministically from seed.
func ColorForSeed(seed uint64) string {
	return Palette[seed%uint64(len(Palette))]
}

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	projection  string
	width       float64
	height      float64
	margin      float64
	strokeWidth float64
	color       string
	background  string
	smoothing   int
}

func WithProjection(p string) SVGOption   { return func(r *svgRenderer) { r.projection = p } }
func WithColor(c string) SVGOption        { return func(r *svgRenderer) { r.color = c } }
func WithBackground(c string) SVGOption   { return func(r *svgRenderer) { r.background = c } }
func WithStrokeWidth(w float64) SVGOption { return func(r *svgRenderer) { r.strokeWidth = w } }
func WithSeed(seed uint64) SVGOption      { return func(r *svgRenderer) { r.color = ColorForSeed(seed) } }

// WithSize sets the frame size. Non-positive values keep the default.
func WithSize(width, height float64) SVGOption {
	return func(r *svgRenderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithSmoothing resamples each strand through a Catmull-Rom curve with the
// given number of samples per segment. Zero draws the raw polyline.
func WithSmoothing(segments int) SVGOption {
	return func(r *svgRenderer) { r.smoothing = segments }
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		projection:  ProjectionIso,
		width:       DefaultWidth,
		height:      DefaultHeight,
		margin:      DefaultMargin,
		strokeWidth: DefaultStrokeWidth,
		color:       Palette[0],
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws strands as polylines under the configured projection.
// Unknown projections fall back to isometric.
func RenderSVG(strands []coral.Strand, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	if r.smoothing > 0 {
		strands = coral.Smooth(strands, r.smoothing)
	}

	flat := make([][]vec2, len(strands))
	for i, s := range strands {
		flat[i] = make([]vec2, len(s))
		for j, p := range s {
			flat[i][j] = project(r.projection, p)
		}
	}
	fit := newFitter(flat, r.width, r.height, r.margin)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}
	fmt.Fprintf(&buf, `  <g fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round" stroke-linejoin="round">`+"\n",
		r.color, r.strokeWidth)
	for i, pts := range flat {
		renderPolyline(&buf, i, pts, fit)
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderPolyline(buf *bytes.Buffer, id int, pts []vec2, fit fitter) {
	fmt.Fprintf(buf, `    <polyline id="strand-%d" points="`, id)
	for j, p := range pts {
		if j > 0 {
			buf.WriteByte(' ')
		}
		x, y := fit.apply(p)
		fmt.Fprintf(buf, "%.2f,%.2f", x, y)
	}
	buf.WriteString(`"/>` + "\n")
}

// vec2 is a projected point with v pointing up.
type vec2 struct{ u, v float64 }

func project(projection string, p coral.Point) vec2 {
	switch projection {
	case ProjectionTop:
		return vec2{p.X, p.Y}
	case ProjectionSide:
		return vec2{p.X, p.Z}
	case ProjectionFront:
		return vec2{p.Y, p.Z}
	default:
		return vec2{(p.X - p.Y) * isoCos, p.Z + (p.X+p.Y)*isoSin}
	}
}

// fitter maps projected coordinates into the frame, preserving aspect ratio
// and centering the drawing.
type fitter struct {
	minU, minV float64
	scale      float64
	offU, offV float64
	height     float64
}

func newFitter(lines [][]vec2, width, height, margin float64) fitter {
	minU, minV := math.Inf(1), math.Inf(1)
	maxU, maxV := math.Inf(-1), math.Inf(-1)
	for _, l := range lines {
		for _, p := range l {
			minU, maxU = min(minU, p.u), max(maxU, p.u)
			minV, maxV = min(minV, p.v), max(maxV, p.v)
		}
	}
	if math.IsInf(minU, 1) {
		return fitter{scale: 1, height: height}
	}

	du, dv := maxU-minU, maxV-minV
	innerW, innerH := max(width-2*margin, 1), max(height-2*margin, 1)
	scale := 1.0
	switch {
	case du > 0 && dv > 0:
		scale = min(innerW/du, innerH/dv)
	case du > 0:
		scale = innerW / du
	case dv > 0:
		scale = innerH / dv
	}

	return fitter{
		minU:   minU,
		minV:   minV,
		scale:  scale,
		offU:   (width - du*scale) / 2,
		offV:   (height - dv*scale) / 2,
		height: height,
	}
}

func (f fitter) apply(p vec2) (x, y float64) {
	x = f.offU + (p.u-f.minU)*f.scale
	y = f.height - (f.offV + (p.v-f.minV)*f.scale)
	return x, y
}
