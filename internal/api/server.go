// Package api serves coral layouts over HTTP.
//
// Routes:
//
//	GET /healthz            build information
//	GET /v1/coral           coral document (JSON, or msgpack with ?encoding=msgpack)
//	GET /v1/coral.svg       SVG projection
//	GET /v1/coral.obj       Wavefront OBJ polylines
//	GET /v1/coral.ndjson    strands streamed one per line as they are laid out
//	GET /v1/graph.json      Collatz graph as nodes and edges
//	GET /v1/graph.dot       Collatz graph as Graphviz DOT
//	GET /v1/graph.svg       Collatz graph drawn by Graphviz (limit ≤ 500)
//	GET /v1/chain/{n}       path from n to 1
//
// Layout and render parameters are read from the query string using the same
// names as the config file (limit, preset, odd, even, rise, spacing, ...).
// Every pipeline response carries the run ID in the X-Coral-Run-ID header.
package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/coral/pkg/buildinfo"
	"github.com/matzehuels/coral/pkg/collatz"
	errs "github.com/matzehuels/coral/pkg/errors"
	"github.com/matzehuels/coral/pkg/graph"
	"github.com/matzehuels/coral/pkg/httputil"
	"github.com/matzehuels/coral/pkg/pipeline"
	"github.com/matzehuels/coral/pkg/render/nodelink"
)

// RunIDHeader carries the pipeline run ID.
const RunIDHeader = "X-Coral-Run-ID"

const (
	// DefaultMaxLimit bounds the limit a request may ask for. A layout at
	// this limit allocates about 70 MB.
	DefaultMaxLimit = 100_000

	// MaxDiagramLimit bounds the limit of /v1/graph.svg. Graphviz layout time
	// grows quickly with the node count.
	MaxDiagramLimit = 500

	defaultDiagramLimit = 20
)

// Server handles API requests with a shared pipeline runner.
type Server struct {
	// MaxLimit is the largest limit accepted from a request. Values above
	// collatz.MaxLimit have no effect.
	MaxLimit int

	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server. The runner's cache is shared by all requests.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{MaxLimit: DefaultMaxLimit, runner: runner, logger: logger}
}

// Handler returns the router with all routes and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httputil.Logger(s.logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, errs.New(errs.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/coral", s.coral)
		r.Get("/coral.svg", s.artifact(pipeline.FormatSVG, httputil.ContentTypeSVG))
		r.Get("/coral.obj", s.artifact(pipeline.FormatOBJ, httputil.ContentTypeOBJ))
		r.Get("/coral.ndjson", s.stream)
		r.Get("/graph.json", s.graph)
		r.Get("/graph.dot", s.artifact(pipeline.FormatDOT, httputil.ContentTypeDOT))
		r.Get("/graph.svg", s.graphSVG)
		r.Get("/chain/{n}", s.chain)
	})
	return r
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// coral serves the document. ?encoding=msgpack selects the binary form.
func (s *Server) coral(w http.ResponseWriter, r *http.Request) {
	format, contentType := pipeline.FormatJSON, httputil.ContentTypeJSON
	switch enc := r.URL.Query().Get("encoding"); enc {
	case "", graph.FormatJSON:
	case graph.FormatMsgpack:
		format, contentType = pipeline.FormatMsgpack, httputil.ContentTypeMsgpack
	default:
		httputil.WriteError(w, errs.ValidateOneOf(errs.ErrCodeInvalidFormat, "encoding", enc, graph.Formats))
		return
	}
	s.artifact(format, contentType)(w, r)
}

// artifact returns a handler that runs the pipeline for one format.
func (s *Server) artifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.options(r, format)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		res, err := s.runner.Execute(r.Context(), opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		w.Header().Set(RunIDHeader, res.ID)
		httputil.WriteBytes(w, contentType, res.Artifacts[format])
	}
}

// stream writes strands as they are laid out.
func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set(RunIDHeader, uuid.NewString())
	w.Header().Set("Content-Type", httputil.ContentTypeNDJSON)
	w.WriteHeader(http.StatusOK)
	if err := s.runner.Stream(r.Context(), w, opts); err != nil {
		// Headers are gone; all that is left is to log.
		s.logger.Warn("stream aborted", "error", err, "request_id", middleware.GetReqID(r.Context()))
	}
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	g, err := s.runner.Build(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, graph.FromCollatz(g))
}

// graphSVG draws the graph with Graphviz. It is not cached.
func (s *Server) graphSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("limit") && !q.Has("preset") {
		q.Set("limit", strconv.Itoa(defaultDiagramLimit))
	}
	opts, err := s.optionsFrom(q)
	if err == nil {
		err = errs.ValidateLimit(*opts.Limit, MaxDiagramLimit)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	g, err := s.runner.Build(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	svg, err := nodelink.RenderSVG(r.Context(), nodelink.ToDOT(g, nodelink.Options{Parity: true}))
	if err != nil {
		s.fail(w, r, errs.Wrap(errs.ErrCodeInternal, err, "render graph"))
		return
	}
	httputil.WriteBytes(w, httputil.ContentTypeSVG, svg)
}

// options reads, defaults, and validates the request's pipeline options and
// rejects limits above s.MaxLimit.
func (s *Server) options(r *http.Request, formats ...string) (pipeline.Options, error) {
	return s.optionsFrom(r.URL.Query(), formats...)
}

func (s *Server) optionsFrom(q url.Values, formats ...string) (pipeline.Options, error) {
	opts, err := optionsFromQuery(q)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.Formats = formats
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	if err := errs.ValidateLimit(*opts.Limit, s.MaxLimit); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

type chainResponse struct {
	Start collatz.Node   `json:"start"`
	Steps int            `json:"steps"`
	Chain []collatz.Node `json:"chain"`
}

func (s *Server) chain(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "n")
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httputil.WriteError(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid start: %q", raw))
		return
	}
	chain, err := collatz.Chain(collatz.Node(n))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, chainResponse{Start: chain[0], Steps: len(chain) - 1, Chain: chain})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if httputil.StatusFor(err) == http.StatusInternalServerError {
		s.logger.Error("pipeline failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
	}
	httputil.WriteError(w, err)
}
