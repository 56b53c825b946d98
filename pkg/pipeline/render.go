package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/coral/pkg/collatz"
	"github.com/matzehuels/coral/pkg/coral"
	errs "github.com/matzehuels/coral/pkg/errors"
	"github.com/matzehuels/coral/pkg/graph"
	"github.com/matzehuels/coral/pkg/render/nodelink"
	"github.com/matzehuels/coral/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, doc graph.Coral, g collatz.Graph, opts Options) (map[string][]byte, error) {
	strands := doc.Layout()

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	eg, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := renderFormat(format, doc, strands, g, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(format string, doc graph.Coral, strands []coral.Strand, g collatz.Graph, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.MarshalCoral(doc, graph.FormatJSON)
	case FormatMsgpack:
		return graph.MarshalCoral(doc, graph.FormatMsgpack)
	case FormatOBJ:
		return sink.RenderOBJ(strands, sink.WithOBJSmoothing(smoothing(opts))), nil
	case FormatSVG:
		return sink.RenderSVG(strands, svgOptions(opts)...), nil
	case FormatNDJSON:
		var buf bytes.Buffer
		if err := sink.WriteNDJSON(&buf, slices.Values(strands)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		if g == nil {
			return nil, errs.New(errs.ErrCodeInvalidInput, "dot output needs the graph")
		}
		return []byte(nodelink.ToDOT(g, nodelink.Options{Parity: true})), nil
	default:
		return nil, ValidateFormat(format)
	}
}

// svgOptions builds SVG rendering options.
func svgOptions(opts Options) []sink.SVGOption {
	return []sink.SVGOption{
		sink.WithProjection(opts.Projection),
		sink.WithSize(opts.Width, opts.Height),
		sink.WithSeed(opts.Seed),
		sink.WithSmoothing(smoothing(opts)),
		sink.WithBackground(opts.Background),
		sink.WithStrokeWidth(opts.Stroke),
	}
}

// smoothing maps the Smooth option to samples per segment, zero meaning raw.
func smoothing(opts Options) int {
	return max(opts.Smooth, 0)
}
