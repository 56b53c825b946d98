package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/coral/pkg/errors"
	"github.com/matzehuels/coral/pkg/graph"
	"github.com/matzehuels/coral/pkg/pipeline"
	"github.com/matzehuels/coral/pkg/render/nodelink"
)

// Graph export formats.
var graphFormats = []string{"json", "dot", "svg"}

type graphOpts struct {
	limit   int
	format  string
	output  string
	detail  bool
	parity  bool
	noCache bool
}

// graphCommand creates the graph command, which exports the Collatz graph
// itself rather than its coral.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: "json", parity: true}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the Collatz graph",
		Long: `Export the Collatz graph for every seed up to --limit.

json writes nodes and edges, dot writes a Graphviz digraph with 1 on top,
and svg renders that digraph with Graphviz. Large limits make unreadable
diagrams; dot and svg are meant for limits in the tens.`,
		Example: `  coral graph -n 20 -f svg -o collatz.svg
  coral graph -n 1000 > graph.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errs.ValidateOneOf(errs.ErrCodeInvalidFormat, "format", opts.format, graphFormats); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "largest seed")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.detail, "detailed", false, "label nodes with their distance to 1")
	cmd.Flags().BoolVar(&opts.parity, "parity", opts.parity, "color odd and even nodes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFixed(graphFormats))

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, w io.Writer, opts graphOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	g, cached, err := runner.BuildWithCacheInfo(ctx, pipeline.Options{Limit: pipeline.Int(opts.limit)})
	if err != nil {
		return err
	}
	prog.done("built graph", "nodes", g.Len(), "cached", cached)

	var data []byte
	switch opts.format {
	case "json":
		data, err = graph.MarshalGraph(g)
	case "dot":
		data = []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detail, Parity: opts.parity}))
	case "svg":
		data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detail, Parity: opts.parity}))
	}
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Exported graph with %d nodes", g.Len())
	printFile(opts.output)
	return nil
}
