package cli

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coral/internal/api"
	"github.com/matzehuels/coral/pkg/cache"
	"github.com/matzehuels/coral/pkg/collatz"
	"github.com/matzehuels/coral/pkg/config"
	errs "github.com/matzehuels/coral/pkg/errors"
	"github.com/matzehuels/coral/pkg/observability"
	"github.com/matzehuels/coral/pkg/pipeline"
)

const (
	defaultAddr     = ":8080"
	shutdownTimeout = 10 * time.Second
)

// serveOpts holds options for the serve command.
type serveOpts struct {
	server     config.Server
	configPath string
	noCache    bool
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve corals over HTTP",
		Long: `Serve runs the HTTP API. Results are cached in Redis when --redis-url is
set and in the local cache directory otherwise.

Endpoints:
  GET /v1/coral          layout document (?encoding=msgpack)
  GET /v1/coral.svg      SVG drawing
  GET /v1/coral.obj      Wavefront OBJ
  GET /v1/coral.ndjson   strands streamed as they are laid out
  GET /v1/graph.json     Collatz graph
  GET /v1/graph.dot      Collatz graph as Graphviz DOT
  GET /v1/graph.svg      Collatz graph drawn by Graphviz
  GET /v1/chain/{n}      chain from n to 1`,
		Example: `  coral serve
  coral serve --addr :9000 --redis-url redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				f, err := config.Load(opts.configPath)
				if err != nil {
					return err
				}
				opts.server = mergeServer(f.Server, opts.server, cmd)
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.server.Addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.server.RedisURL, "redis-url", "", "Redis URL for the shared cache")
	cmd.Flags().StringVar(&opts.server.CachePrefix, "cache-prefix", "", "namespace for cache keys")
	cmd.Flags().IntVar(&opts.server.MaxLimit, "max-limit", api.DefaultMaxLimit, "largest limit a request may ask for")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (.toml, .yaml, .json)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// mergeServer overlays the flags the user set on the file's settings.
func mergeServer(file, flags config.Server, cmd *cobra.Command) config.Server {
	out := file
	if out.Addr == "" || cmd.Flags().Changed("addr") {
		out.Addr = flags.Addr
	}
	if cmd.Flags().Changed("redis-url") {
		out.RedisURL = flags.RedisURL
	}
	if cmd.Flags().Changed("cache-prefix") {
		out.CachePrefix = flags.CachePrefix
	}
	if out.MaxLimit == 0 || cmd.Flags().Changed("max-limit") {
		out.MaxLimit = flags.MaxLimit
	}
	return out
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	if err := errs.ValidateLimit(opts.server.MaxLimit, collatz.MaxLimit); err != nil {
		return err
	}
	if opts.server.MaxLimit == 0 {
		return errs.New(errs.ErrCodeInvalidLimit, "max limit must be positive")
	}

	if c.verbose() {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
	}

	runner, err := c.serveRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	handler := api.New(runner, c.Logger)
	handler.MaxLimit = opts.server.MaxLimit

	srv := &http.Server{
		Addr:              opts.server.Addr,
		Handler:           handler.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	printSuccess("Listening on %s", opts.server.Addr)
	printKeyValue("Cache", cacheBackend(opts))
	printKeyValue("Max limit", strconv.Itoa(opts.server.MaxLimit))
	if opts.server.CachePrefix != "" {
		printKeyValue("Prefix", opts.server.CachePrefix)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func cacheBackend(opts serveOpts) string {
	switch {
	case opts.noCache:
		return "disabled"
	case opts.server.RedisURL != "":
		return "redis"
	default:
		return "file"
	}
}

// serveRunner picks the cache backend: Redis when configured, otherwise the
// local file cache.
func (c *CLI) serveRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if opts.server.CachePrefix != "" {
		keyer = cache.NewScopedKeyer(keyer, opts.server.CachePrefix)
	}

	if opts.server.RedisURL == "" || opts.noCache {
		store, err := c.newCache(opts.noCache)
		if err != nil {
			return nil, err
		}
		return pipeline.NewRunner(store, keyer, c.Logger), nil
	}

	store, err := cache.NewRedisCache(ctx, opts.server.RedisURL)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "prefix", opts.server.CachePrefix)
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}
