package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/coral/pkg/collatz"
)

// Node fill colors by parity.
const (
	OddFill  = "#f96645"
	EvenFill = "#a9e2ff"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds each node's distance to the root to its label.
	// When false, only the number is shown.
	Detailed bool

	// Parity fills odd and even nodes with different colors.
	Parity bool
}

// ToDOT converts a Collatz graph to Graphviz DOT format. Edges point from
// child to parent, and the layout runs bottom-to-top so the root is drawn at
// the top. The result can be rendered with [RenderSVG].
func ToDOT(g collatz.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if g.Len() > 0 {
		writeNode(&buf, g, collatz.Root, opts)
	}
	for _, n := range g.Nodes() {
		writeNode(&buf, g, n, opts)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %d -> %d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, g collatz.Graph, n collatz.Node, opts Options) {
	fmt.Fprintf(buf, "  %d [%s];\n", n, strings.Join(fmtAttrs(n, fmtLabel(g, n, opts.Detailed), opts.Parity), ", "))
}

func fmtLabel(g collatz.Graph, n collatz.Node, detailed bool) string {
	label := strconv.FormatUint(uint64(n), 10)
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\nsteps: %d", label, stepsToRoot(g, n))
}

func fmtAttrs(n collatz.Node, label string, parity bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !parity {
		return attrs
	}
	if n.IsOdd() {
		return append(attrs, fmt.Sprintf("fillcolor=%q", OddFill))
	}
	return append(attrs, fmt.Sprintf("fillcolor=%q", EvenFill))
}

func stepsToRoot(g collatz.Graph, n collatz.Node) int {
	steps := 0
	for n != collatz.Root {
		parent, ok := g.Parent(n)
		if !ok {
			break
		}
		n = parent
		steps++
	}
	return steps
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's root element with one whose viewBox
// starts at the origin and whose size matches the drawing.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
