// Package pipeline provides the core coral pipeline.
//
// This package implements the complete build → layout → render pipeline used
// by the CLI and the API server. By centralizing this logic, both entry
// points share defaults, validation, and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: compute the Collatz graph for every seed up to the limit
//  2. Layout: group the graph into strands and lay them out in 3D
//  3. Render: encode the layout in the requested output formats
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage's result is cached under a key derived from its inputs.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Preset:  pipeline.PresetDesktop,
//	    Formats: []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, err := runner.Build(ctx, opts)
//	doc, err := runner.Layout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, doc, g, opts)
package pipeline

import (
	"io"
	"math"
	"regexp"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coral/pkg/cache"
	"github.com/matzehuels/coral/pkg/collatz"
	"github.com/matzehuels/coral/pkg/coral"
	errs "github.com/matzehuels/coral/pkg/errors"
	"github.com/matzehuels/coral/pkg/graph"
	"github.com/matzehuels/coral/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Presets name the graph limits used for large and small screens.
const (
	PresetDesktop = "desktop"
	PresetMobile  = "mobile"
)

// Limits for each preset.
const (
	DesktopLimit = 9000
	MobileLimit  = 6000
)

const (
	// DefaultLimit is the graph limit when neither limit nor preset is set.
	DefaultLimit = DesktopLimit

	// DefaultWidth is the default SVG frame width in pixels.
	DefaultWidth = sink.DefaultWidth

	// DefaultHeight is the default SVG frame height in pixels.
	DefaultHeight = sink.DefaultHeight

	// DefaultSeed selects the first palette color.
	DefaultSeed = uint64(42)

	// DefaultSmooth is the number of curve samples per strand segment.
	// NoSmooth draws raw polylines.
	DefaultSmooth = 4
	NoSmooth      = -1

	// MaxSmooth bounds the curve samples per segment.
	MaxSmooth = 64

	// DefaultStrokeWidth is the SVG strand stroke width.
	DefaultStrokeWidth = sink.DefaultStrokeWidth
	// MaxStrokeWidth bounds the stroke width.
	MaxStrokeWidth = 50.0

	// DefaultProjection is the SVG projection.
	DefaultProjection = sink.ProjectionIso
)

// Format constants for output formats.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
	FormatOBJ     = "obj"
	FormatSVG     = "svg"
	FormatNDJSON  = "ndjson"
	FormatDOT     = "dot"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatJSON, FormatMsgpack, FormatOBJ, FormatSVG, FormatNDJSON, FormatDOT}

// ValidPresets lists the supported presets.
var ValidPresets = []string{PresetDesktop, PresetMobile}

// FileExtensions maps each format to the extension used for output files.
var FileExtensions = map[string]string{
	FormatJSON:    ".json",
	FormatMsgpack: ".msgpack",
	FormatOBJ:     ".obj",
	FormatSVG:     ".svg",
	FormatNDJSON:  ".ndjson",
	FormatDOT:     ".dot",
}

// PresetLimit returns the limit for a preset.
func PresetLimit(preset string) (int, bool) {
	switch preset {
	case PresetDesktop:
		return DesktopLimit, true
	case PresetMobile:
		return MobileLimit, true
	}
	return 0, false
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the coral pipeline.
// It can be decoded from JSON, TOML, or YAML config files and API requests.
//
// Limit, Rise, Odd, and Even are pointers because zero is a meaningful value
// for each; nil means "use the default". A zero limit builds an empty coral.
type Options struct {
	// Build options
	Limit  *int   `json:"limit,omitempty" toml:"limit" yaml:"limit,omitempty"`
	Preset string `json:"preset,omitempty" toml:"preset" yaml:"preset,omitempty"`

	// Layout options
	Start       uint64   `json:"start,omitempty" toml:"start" yaml:"start,omitempty"`
	Spacing     float64  `json:"spacing,omitempty" toml:"spacing" yaml:"spacing,omitempty"`
	Rise        *float64 `json:"rise,omitempty" toml:"rise" yaml:"rise,omitempty"`
	Odd         *float64 `json:"odd,omitempty" toml:"odd" yaml:"odd,omitempty"`
	Even        *float64 `json:"even,omitempty" toml:"even" yaml:"even,omitempty"`
	OriginX     float64  `json:"origin_x,omitempty" toml:"origin_x" yaml:"origin_x,omitempty"`
	OriginY     float64  `json:"origin_y,omitempty" toml:"origin_y" yaml:"origin_y,omitempty"`
	OriginZ     float64  `json:"origin_z,omitempty" toml:"origin_z" yaml:"origin_z,omitempty"`
	OriginAngle float64  `json:"origin_angle,omitempty" toml:"origin_angle" yaml:"origin_angle,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty" toml:"formats" yaml:"formats,omitempty"`
	Projection string   `json:"projection,omitempty" toml:"projection" yaml:"projection,omitempty"`
	Width      float64  `json:"width,omitempty" toml:"width" yaml:"width,omitempty"`
	Height     float64  `json:"height,omitempty" toml:"height" yaml:"height,omitempty"`
	Smooth     int      `json:"smooth,omitempty" toml:"smooth" yaml:"smooth,omitempty"`
	Seed       uint64   `json:"seed,omitempty" toml:"seed" yaml:"seed,omitempty"`
	Background string   `json:"background,omitempty" toml:"background" yaml:"background,omitempty"`
	Stroke     float64  `json:"stroke_width,omitempty" toml:"stroke_width" yaml:"stroke_width,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty" toml:"refresh" yaml:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`

	// validated tracks whether ValidateAndSetDefaults has succeeded.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID uniquely identifies the run.
	ID string

	// Graph is the Collatz graph.
	Graph collatz.Graph

	// Document is the laid-out coral.
	Document graph.Coral

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	StrandCount int
	PointCount  int
	BuildTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit  bool // Whether the graph came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// Float returns a pointer to v, for the optional layout fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for Limit.
func Int(v int) *int { return &v }

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errs.ValidateOneOf(errs.ErrCodeInvalidFormat, "format", format, ValidFormats)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProjection checks that a projection is valid.
func ValidateProjection(projection string) error {
	return errs.ValidateOneOf(errs.ErrCodeInvalidProjection, "projection", projection, sink.Projections)
}

// ValidatePreset checks that a preset is valid.
func ValidatePreset(preset string) error {
	return errs.ValidateOneOf(errs.ErrCodeInvalidPreset, "preset", preset, ValidPresets)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates the result.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Preset != "" {
		if err := ValidatePreset(o.Preset); err != nil {
			return err
		}
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields. An explicit Limit wins over Preset.
func (o *Options) SetDefaults() {
	o.SetBuildDefaults()
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
}

// SetBuildDefaults resolves the limit from the preset or the default.
func (o *Options) SetBuildDefaults() {
	if o.Limit == nil {
		o.Limit = Int(o.BuildLimit())
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Start == 0 {
		o.Start = uint64(coral.DefaultStart)
	}
	if o.Spacing == 0 {
		o.Spacing = coral.DefaultSpacing
	}
	if o.Rise == nil {
		o.Rise = Float(coral.DefaultRise)
	}
	if o.Odd == nil {
		o.Odd = Float(coral.DefaultOddAngle)
	}
	if o.Even == nil {
		o.Even = Float(coral.DefaultEvenAngle)
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	o.Formats = uniq(o.Formats)
	if o.Projection == "" {
		o.Projection = DefaultProjection
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Smooth == 0 {
		o.Smooth = DefaultSmooth
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Stroke == 0 {
		o.Stroke = DefaultStrokeWidth
	}
}

// Validate checks every field. Call after SetDefaults.
func (o *Options) Validate() error {
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// ValidateForBuild checks the limit and preset.
func (o *Options) ValidateForBuild() error {
	if o.Preset != "" {
		if err := ValidatePreset(o.Preset); err != nil {
			return err
		}
	}
	return errs.ValidateLimit(o.BuildLimit(), collatz.MaxLimit)
}

// BuildLimit returns the explicit limit, or the preset's or default limit
// when none is set.
func (o *Options) BuildLimit() int {
	if o.Limit != nil {
		return *o.Limit
	}
	if limit, ok := PresetLimit(o.Preset); ok {
		return limit
	}
	return DefaultLimit
}

// ValidateForLayout checks the layout parameters.
func (o *Options) ValidateForLayout() error {
	return o.LayoutConfig().Validate()
}

// ValidateForRender checks formats and SVG options.
func (o *Options) ValidateForRender() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateProjection(o.Projection); err != nil {
		return err
	}
	for name, v := range map[string]float64{"width": o.Width, "height": o.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return errs.New(errs.ErrCodeInvalidInput, "%s must be a non-negative number, got %g", name, v)
		}
	}
	if o.Smooth < NoSmooth || o.Smooth > MaxSmooth {
		return errs.New(errs.ErrCodeInvalidInput, "smooth must be between %d and %d, got %d", NoSmooth, MaxSmooth, o.Smooth)
	}
	if math.IsNaN(o.Stroke) || o.Stroke < 0 || o.Stroke > MaxStrokeWidth {
		return errs.New(errs.ErrCodeInvalidInput, "stroke width must be between 0 and %g, got %g", MaxStrokeWidth, o.Stroke)
	}
	return ValidateBackground(o.Background)
}

// backgroundPattern matches hex colors; anything else could escape the
// fill attribute.
var backgroundPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateBackground accepts an empty string (transparent) or a #rgb or
// #rrggbb color.
func ValidateBackground(c string) error {
	if c == "" || backgroundPattern.MatchString(c) {
		return nil
	}
	return errs.New(errs.ErrCodeInvalidInput, "background must be a #rgb or #rrggbb color, got %q", c)
}

// LayoutConfig returns the coral.Config described by the options. Unset
// optional fields take their defaults.
func (o *Options) LayoutConfig() coral.Config {
	cfg := coral.DefaultConfig()
	if o.Start != 0 {
		cfg.Start = collatz.Node(o.Start)
	}
	if o.Spacing != 0 {
		cfg.Spacing = o.Spacing
	}
	if o.Rise != nil {
		cfg.Rise = *o.Rise
	}
	if o.Odd != nil {
		cfg.Angles.Odd = *o.Odd
	}
	if o.Even != nil {
		cfg.Angles.Even = *o.Even
	}
	cfg.Origin = coral.Frame{X: o.OriginX, Y: o.OriginY, Z: o.OriginZ, Angle: o.OriginAngle}
	return cfg
}

// uniq drops repeated entries, keeping the first occurrence.
func uniq(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// HasFormat reports whether format is among the requested formats.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfg := o.LayoutConfig()
	return cache.LayoutKeyOpts{
		Limit:       o.BuildLimit(),
		Start:       uint64(cfg.Start),
		Spacing:     cfg.Spacing,
		Rise:        cfg.Rise,
		Odd:         cfg.Angles.Odd,
		Even:        cfg.Angles.Even,
		OriginX:     cfg.Origin.X,
		OriginY:     cfg.Origin.Y,
		OriginZ:     cfg.Origin.Z,
		OriginAngle: cfg.Origin.Angle,
	}
}

// ArtifactKeyOpts returns cache key options for rendering one format.
// Only the options that affect that format are included.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Projection = o.Projection
		k.Width = o.Width
		k.Height = o.Height
		k.Smooth = o.Smooth
		k.Seed = o.Seed
		k.Background = o.Background
		k.StrokeWidth = o.Stroke
	case FormatOBJ:
		k.Smooth = o.Smooth
	}
	return k
}
