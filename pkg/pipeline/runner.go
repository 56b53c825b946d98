package pipeline

import (
	"context"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/coral/pkg/cache"
	"github.com/matzehuels/coral/pkg/collatz"
	"github.com/matzehuels/coral/pkg/coral"
	"github.com/matzehuels/coral/pkg/graph"
	"github.com/matzehuels/coral/pkg/observability"
	"github.com/matzehuels/coral/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		ID:        uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("run", result.ID)

	// Stage 1: Build
	buildStart := time.Now()
	g, buildHit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.Len()
	result.CacheInfo.GraphHit = buildHit

	logger.Info("built graph",
		"limit", opts.BuildLimit(),
		"nodes", g.Len(),
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	doc, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Document = doc
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.StrandCount = doc.Stats.Strands
	result.Stats.PointCount = doc.Stats.Points
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"strands", doc.Stats.Strands,
		"points", doc.Stats.Points,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo builds the Collatz graph with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (g collatz.Graph, hit bool, err error) {
	opts.SetBuildDefaults()
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, opts.BuildLimit())
	defer func() {
		observability.Pipeline().OnBuildComplete(ctx, opts.BuildLimit(), g.Len(), time.Since(start), err)
	}()

	cacheKey := r.Keyer.GraphKey(opts.BuildLimit())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, ok := r.get(ctx, "graph", cacheKey); ok {
			if cached, err := graph.UnmarshalGraph(data); err == nil {
				return cached, true, nil
			}
			r.Logger.Warn("discarding unreadable cached graph", "key", cacheKey)
		}
	}

	g, err = collatz.Build(opts.BuildLimit())
	if err != nil {
		return nil, false, err
	}

	if data, err := graph.MarshalGraph(g); err == nil {
		r.set(ctx, "graph", cacheKey, data, cache.TTLGraph)
	}
	return g, false, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, opts Options) (collatz.Graph, error) {
	g, _, err := r.BuildWithCacheInfo(ctx, opts)
	return g, err
}

// LayoutWithCacheInfo lays out g with caching and returns cache hit info.
// The graph must have been built with opts.BuildLimit().
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g collatz.Graph, opts Options) (doc graph.Coral, hit bool, err error) {
	opts.SetBuildDefaults()
	opts.SetLayoutDefaults()
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Coral{}, false, err
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, g.Len())
	defer func() {
		observability.Pipeline().OnLayoutComplete(ctx, len(doc.Strands), time.Since(start), err)
	}()

	cacheKey := r.Keyer.LayoutKey(opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, "layout", cacheKey); ok {
			if cached, err := graph.UnmarshalCoral(data, graph.FormatMsgpack); err == nil {
				return cached, true, nil
			}
			r.Logger.Warn("discarding unreadable cached layout", "key", cacheKey)
		}
	}

	c, err := coral.New(collatz.Group(g), opts.LayoutConfig())
	if err != nil {
		return graph.Coral{}, false, err
	}
	doc = graph.FromLayout(opts.BuildLimit(), c)

	if data, err := graph.MarshalCoral(doc, graph.FormatMsgpack); err == nil {
		r.set(ctx, "layout", cacheKey, data, cache.TTLLayout)
	}
	return doc, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g collatz.Graph, opts Options) (graph.Coral, error) {
	doc, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return doc, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The render only counts as a hit when every requested format was cached.
// g is only needed for the dot format and may be nil otherwise.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc graph.Coral, g collatz.Graph, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	opts.SetRenderDefaults()
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	// Compute cache key from layout data
	layoutData, err := graph.MarshalCoral(doc, graph.FormatMsgpack)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts = make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, ok := r.get(ctx, "artifact", r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, doc, g, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.set(ctx, "artifact", r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc graph.Coral, g collatz.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, g, opts)
	return artifacts, err
}

// Stream builds the graph (through the cache) and writes the layout to w as
// NDJSON while it is being walked, without holding every strand in memory.
// It stops between strands once ctx is done and returns ctx.Err().
func (r *Runner) Stream(ctx context.Context, w io.Writer, opts Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	g, err := r.Build(ctx, opts)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	c, err := coral.New(collatz.Group(g), opts.LayoutConfig())
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if err := sink.WriteNDJSON(w, untilDone(ctx, c.All())); err != nil {
		return err
	}
	return ctx.Err()
}

// untilDone stops seq as soon as ctx is done.
func untilDone[T any](ctx context.Context, seq iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			if ctx.Err() != nil || !yield(v) {
				return
			}
		}
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// get reads a cache entry and reports the hit or miss. Cache errors count as
// misses so that a failing backend never fails the pipeline.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "type", keyType, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
