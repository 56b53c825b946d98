package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/coral/pkg/cache"
	"github.com/matzehuels/coral/pkg/collatz"
	errs "github.com/matzehuels/coral/pkg/errors"
	"github.com/matzehuels/coral/pkg/graph"
	"github.com/matzehuels/coral/pkg/observability"
)

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

// failingCache errors on every call.
type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}
func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("backend down")
}
func (failingCache) Delete(context.Context, string) error { return nil }
func (failingCache) Close() error                         { return nil }

// recordingHooks captures pipeline and cache events.
type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnBuildStart(context.Context, int)             { h.add("build") }
func (h *recordingHooks) OnLayoutStart(context.Context, int)            { h.add("layout") }
func (h *recordingHooks) OnRenderStart(context.Context, []string)       { h.add("render") }
func (h *recordingHooks) OnCacheHit(_ context.Context, k string)        { h.add("hit:" + k) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, k string)       { h.add("miss:" + k) }
func (h *recordingHooks) OnCacheSet(_ context.Context, k string, _ int) { h.add("set:" + k) }

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Limit:   Int(5),
		Formats: []string{FormatJSON, FormatSVG, FormatOBJ, FormatNDJSON, FormatDOT, FormatMsgpack},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.ID == "" {
		t.Error("result has no run ID")
	}
	if res.Stats.NodeCount != 5 || res.Stats.StrandCount != 1 || res.Stats.PointCount != 6 {
		t.Errorf("Stats = %+v, want 5 nodes, 1 strand, 6 points", res.Stats)
	}
	if len(res.Artifacts) != 6 {
		t.Fatalf("got %d artifacts, want 6", len(res.Artifacts))
	}

	doc, err := graph.UnmarshalCoral(res.Artifacts[FormatJSON], graph.FormatJSON)
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if diff := cmp.Diff(res.Document, doc); diff != "" {
		t.Errorf("json artifact differs from document:\n%s", diff)
	}
	if _, err := graph.UnmarshalCoral(res.Artifacts[FormatMsgpack], graph.FormatMsgpack); err != nil {
		t.Errorf("msgpack artifact: %v", err)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact starts with %q", res.Artifacts[FormatSVG][:min(20, len(res.Artifacts[FormatSVG]))])
	}
	if !strings.Contains(string(res.Artifacts[FormatOBJ]), "\nl ") {
		t.Error("obj artifact has no line elements")
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), "16 -> 8;") {
		t.Error("dot artifact is missing the 16 -> 8 edge")
	}
	if n := strings.Count(string(res.Artifacts[FormatNDJSON]), "\n"); n != 1 {
		t.Errorf("ndjson artifact has %d lines, want 1", n)
	}
}

func TestExecuteUsesCache(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Limit: Int(300), Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo != (CacheInfo{}) {
		t.Errorf("first run CacheInfo = %+v, want all misses", first.CacheInfo)
	}
	// graph + layout + one entry per format
	if c.sets != 4 {
		t.Errorf("cache writes = %d, want 4", c.sets)
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if second.CacheInfo != (CacheInfo{GraphHit: true, LayoutHit: true, RenderHit: true}) {
		t.Errorf("second run CacheInfo = %+v, want all hits", second.CacheInfo)
	}
	if first.ID == second.ID {
		t.Error("runs share an ID")
	}
	if diff := cmp.Diff(first.Document, second.Document); diff != "" {
		t.Errorf("cached document differs:\n%s", diff)
	}
	if diff := cmp.Diff(first.Artifacts, second.Artifacts); diff != "" {
		t.Errorf("cached artifacts differ:\n%s", diff)
	}
}

func TestExecuteRefreshBypassesReads(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Limit: Int(50)}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	opts.Refresh = true
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo != (CacheInfo{}) {
		t.Errorf("refresh CacheInfo = %+v, want all misses", res.CacheInfo)
	}
}

func TestExecutePartialArtifactHitRenders(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	if _, err := r.Execute(context.Background(), Options{Limit: Int(50), Formats: []string{FormatSVG}}); err != nil {
		t.Fatal(err)
	}

	res, err := r.Execute(context.Background(), Options{Limit: Int(50), Formats: []string{FormatSVG, FormatOBJ}})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RenderHit {
		t.Error("render counted as a hit with one format missing")
	}
	if !res.CacheInfo.LayoutHit {
		t.Error("layout should come from cache")
	}
}

func TestExecuteDifferentLayoutMisses(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	if _, err := r.Execute(context.Background(), Options{Limit: Int(50)}); err != nil {
		t.Fatal(err)
	}

	res, err := r.Execute(context.Background(), Options{Limit: Int(50), Odd: Float(25)})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.GraphHit || res.CacheInfo.LayoutHit {
		t.Errorf("CacheInfo = %+v, want graph hit and layout miss", res.CacheInfo)
	}
}

func TestExecuteSurvivesFailingCache(t *testing.T) {
	r := NewRunner(failingCache{}, nil, nil)
	res, err := r.Execute(context.Background(), Options{Limit: Int(20)})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.StrandCount == 0 {
		t.Error("no strands")
	}
}

func TestExecuteIgnoresCorruptCacheEntries(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Limit: Int(5)}
	opts.SetDefaults()
	c.data[r.Keyer.GraphKey(5)] = []byte("not json")
	c.data[r.Keyer.LayoutKey(opts.LayoutKeyOpts())] = []byte{0xc1}

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.GraphHit || res.CacheInfo.LayoutHit {
		t.Errorf("CacheInfo = %+v, want misses for corrupt entries", res.CacheInfo)
	}
	if res.Stats.PointCount != 6 {
		t.Errorf("PointCount = %d, want 6", res.Stats.PointCount)
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Limit: Int(-5)})
	if !errs.Is(err, errs.ErrCodeInvalidLimit) {
		t.Errorf("Execute() = %v, want INVALID_LIMIT", err)
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(nil, nil, nil)
	if _, err := r.Execute(ctx, Options{Limit: Int(50)}); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() = %v, want context.Canceled", err)
	}
}

func TestExecuteEmitsHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	r := NewRunner(newMemCache(), nil, nil)
	if _, err := r.Execute(context.Background(), Options{Limit: Int(10)}); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"build", "miss:graph", "set:graph",
		"layout", "miss:layout", "set:layout",
		"render", "miss:artifact", "set:artifact",
	}
	if diff := cmp.Diff(want, h.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDotNeedsGraph(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{Limit: Int(5), Formats: []string{FormatDOT}}
	opts.SetDefaults()

	g, _ := collatz.Build(5)
	doc, err := r.Layout(context.Background(), g, opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(context.Background(), doc, nil, opts); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Render without graph = %v, want INVALID_INPUT", err)
	}
}

func TestRenderNoSmooth(t *testing.T) {
	g, _ := collatz.Build(5)
	r := NewRunner(nil, nil, nil)
	opts := Options{Limit: Int(5), Formats: []string{FormatOBJ}, Smooth: NoSmooth}
	opts.SetDefaults()

	doc, _ := r.Layout(context.Background(), g, opts)
	artifacts, err := r.Render(context.Background(), doc, g, opts)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(artifacts[FormatOBJ]), "\nv "); n != 6 {
		t.Errorf("obj has %d vertices, want the 6 raw points", n)
	}
}

func TestRenderSVGStyle(t *testing.T) {
	g, _ := collatz.Build(5)
	r := NewRunner(nil, nil, nil)
	opts := Options{Limit: Int(5), Formats: []string{FormatSVG}, Background: "#101820", Stroke: 2.5}
	opts.SetDefaults()

	doc, _ := r.Layout(context.Background(), g, opts)
	artifacts, err := r.Render(context.Background(), doc, g, opts)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(artifacts[FormatSVG])
	if !strings.Contains(svg, `fill="#101820"`) {
		t.Error("svg is missing the background rect")
	}
	if !strings.Contains(svg, `stroke-width="2.50"`) {
		t.Error("svg does not use the requested stroke width")
	}
}

func TestStream(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	var buf bytes.Buffer
	if err := r.Stream(context.Background(), &buf, Options{Limit: Int(200)}); err != nil {
		t.Fatalf("Stream: %v", err)
	}

	res, err := r.Execute(context.Background(), Options{Limit: Int(200)})
	if err != nil {
		t.Fatal(err)
	}

	sc := bufio.NewScanner(&buf)
	sc.Buffer(nil, 1<<20)
	i := 0
	for sc.Scan() {
		var line struct {
			Index  int         `json:"index"`
			Points []graph.Vec `json:"points"`
		}
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if line.Index != i {
			t.Errorf("line %d has index %d", i, line.Index)
		}
		if diff := cmp.Diff(res.Document.Strands[i], line.Points); diff != "" {
			t.Fatalf("strand %d differs from document:\n%s", i, diff)
		}
		i++
	}
	if i != res.Stats.StrandCount {
		t.Errorf("streamed %d strands, want %d", i, res.Stats.StrandCount)
	}
}

func TestStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := NewRunner(nil, nil, nil).Stream(ctx, &buf, Options{Limit: Int(200)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Stream() = %v, want context.Canceled", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes after cancel", buf.Len())
	}
}

func TestRunnerClose(t *testing.T) {
	if err := NewRunner(cache.NewNullCache(), nil, nil).Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestExecuteZeroLimitIsEmpty(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Preset: PresetDesktop, Limit: Int(0)})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.NodeCount != 0 || res.Stats.StrandCount != 0 {
		t.Errorf("Stats = %+v, want an empty coral", res.Stats)
	}
	if res.Document.Config.Limit != 0 {
		t.Errorf("document limit = %d, want 0", res.Document.Config.Limit)
	}
}
