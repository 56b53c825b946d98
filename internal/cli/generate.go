package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/coral/pkg/config"
	"github.com/matzehuels/coral/pkg/pipeline"
	"github.com/matzehuels/coral/pkg/render/sink"
)

// defaultOutput is the base name of generated files.
const defaultOutput = "coral"

// layoutFlags binds the pipeline's build and layout options to flags. Limit,
// rise, odd, and even are only applied when set, since zero is a valid value.
type layoutFlags struct {
	opts            pipeline.Options
	limit           int
	rise, odd, even float64
	configPath      string
	flags           *pflag.FlagSet
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	f.flags = fs
	fs.IntVarP(&f.limit, "limit", "n", 0, fmt.Sprintf("largest seed, 0 for an empty coral (default %d, or the preset's)", pipeline.DefaultLimit))
	fs.StringVar(&f.opts.Preset, "preset", "", "limit preset: desktop, mobile")
	fs.Uint64Var(&f.opts.Start, "start", 0, "node the walk starts from (default 1)")
	fs.Float64Var(&f.opts.Spacing, "spacing", 0, "step length (default 30)")
	fs.Float64Var(&f.rise, "rise", 0, "height gained per step (default 15)")
	fs.Float64Var(&f.odd, "odd", 0, "turn in degrees at odd numbers (default 20)")
	fs.Float64Var(&f.even, "even", 0, "turn in degrees at even numbers (default -8)")
	fs.Float64Var(&f.opts.OriginX, "origin-x", 0, "initial x")
	fs.Float64Var(&f.opts.OriginY, "origin-y", 0, "initial y")
	fs.Float64Var(&f.opts.OriginZ, "origin-z", 0, "initial z")
	fs.Float64Var(&f.opts.OriginAngle, "origin-angle", 0, "initial heading in degrees")
	fs.BoolVar(&f.opts.Refresh, "refresh", false, "ignore cached results")
	fs.StringVar(&f.configPath, "config", "", "config file (.toml, .yaml, .json)")
}

// options merges the config file (if any) with the flags that were set.
func (f *layoutFlags) options() (pipeline.Options, error) {
	opts := f.opts
	if f.flags.Changed("limit") {
		opts.Limit = pipeline.Int(f.limit)
	}
	if f.flags.Changed("rise") {
		opts.Rise = pipeline.Float(f.rise)
	}
	if f.flags.Changed("odd") {
		opts.Odd = pipeline.Float(f.odd)
	}
	if f.flags.Changed("even") {
		opts.Even = pipeline.Float(f.even)
	}
	if f.configPath == "" {
		return opts, nil
	}
	file, err := config.Load(f.configPath)
	if err != nil {
		return pipeline.Options{}, err
	}
	return file.Merge(opts), nil
}

// generateCommand creates the generate command, which runs the full pipeline.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		lf         layoutFlags
		formatsStr string
		output     string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a coral and write it to files",
		Long: `Generate builds the Collatz graph up to --limit, lays it out as a coral,
and renders it in each requested format. Files are named after --output with
the format's extension (coral.svg, coral.obj, ...).

Results are cached locally; --refresh recomputes them and --no-cache skips
the cache entirely.`,
		Example: `  coral generate -f svg,obj --preset mobile
  coral generate -n 20000 --odd 12 --even -6 -f svg --projection top -o top.svg
  coral generate --config coral.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lf.options()
			if err != nil {
				return err
			}
			if formats := parseFormats(formatsStr); formats != nil {
				opts.Formats = formats
			}
			if len(opts.Formats) == 0 {
				opts.Formats = []string{pipeline.FormatSVG}
			}
			return c.runGenerate(cmd.Context(), opts, output, noCache)
		},
	}

	lf.register(cmd.Flags())
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.ValidFormats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().StringVarP(&output, "output", "o", defaultOutput, "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Render flags
	cmd.Flags().StringVar(&lf.opts.Projection, "projection", "", "SVG projection: "+strings.Join(sink.Projections, ", ")+" (default iso)")
	cmd.Flags().Float64Var(&lf.opts.Width, "width", 0, "SVG frame width")
	cmd.Flags().Float64Var(&lf.opts.Height, "height", 0, "SVG frame height")
	cmd.Flags().IntVar(&lf.opts.Smooth, "smooth", 0, "curve samples per segment for SVG and OBJ, -1 for none (default 4)")
	cmd.Flags().Uint64Var(&lf.opts.Seed, "seed", 0, "palette seed (default 42)")
	cmd.Flags().StringVar(&lf.opts.Background, "background", "", "SVG background color as #rgb or #rrggbb (default transparent)")
	cmd.Flags().Float64Var(&lf.opts.Stroke, "stroke-width", 0, "SVG strand stroke width (default 1.5)")

	_ = cmd.RegisterFlagCompletionFunc("preset", completeFixed(pipeline.ValidPresets))
	_ = cmd.RegisterFlagCompletionFunc("projection", completeFixed(sink.Projections))
	_ = cmd.RegisterFlagCompletionFunc("format", completeFixed(pipeline.ValidFormats))

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.SetRenderDefaults()

	spinner := newSpinner(ctx, "Growing coral...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if result.Stats.StrandCount == 0 {
		printWarning("The coral is empty: limit %d has no chains to draw", result.Document.Config.Limit)
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, output)
	if err != nil {
		return err
	}

	printSuccess("Generated %d file(s)", len(paths))
	printStats(result.Stats, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	if json := pathFor(output, pipeline.FormatJSON, len(paths) == 1); result.Artifacts[pipeline.FormatJSON] != nil {
		printNextStep("Browse the strands", "coral browse "+json)
	}
	return nil
}

// writeArtifacts writes each format to its output path and returns the
// paths in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) ([]string, error) {
	if output == "" {
		output = defaultOutput
	}
	single := len(formats) == 1
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, fmt.Errorf("no %s output was rendered", format)
		}
		path := pathFor(output, format, single)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// pathFor names the file for format. A single output keeps an explicit
// extension; otherwise the extension is replaced by the format's.
func pathFor(output, format string, single bool) string {
	ext := filepath.Ext(output)
	if single && ext != "" {
		return output
	}
	return strings.TrimSuffix(output, ext) + pipeline.FileExtensions[format]
}
