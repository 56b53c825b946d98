package cache

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// GraphKey identifies the graph built for a limit.
	GraphKey(limit int) string
	// LayoutKey identifies a coral document.
	LayoutKey(opts LayoutKeyOpts) string
	// ArtifactKey identifies one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every input that changes a layout.
type LayoutKeyOpts struct {
	Limit       int     `json:"limit"`
	Start       uint64  `json:"start"`
	Spacing     float64 `json:"spacing"`
	Rise        float64 `json:"rise"`
	Odd         float64 `json:"odd"`
	Even        float64 `json:"even"`
	OriginX     float64 `json:"origin_x"`
	OriginY     float64 `json:"origin_y"`
	OriginZ     float64 `json:"origin_z"`
	OriginAngle float64 `json:"origin_angle"`
}

// ArtifactKeyOpts holds every render option that changes an artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Projection  string  `json:"projection,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Smooth      int     `json:"smooth,omitempty"`
	Seed        uint64  `json:"seed,omitempty"`
	Background  string  `json:"background,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
}

// keyVersion is bumped whenever the cached encodings change.
const keyVersion = "v1"

// DefaultKeyer hashes stage inputs into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey returns "graph:<hash>".
func (DefaultKeyer) GraphKey(limit int) string {
	return hashKey("graph", keyVersion, limit)
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return hashKey("layout", keyVersion, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", keyVersion, layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
