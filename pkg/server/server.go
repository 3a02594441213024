package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/polyfill"
	"github.com/dmitrymomot/polyfill/pkg/cache"
	"github.com/dmitrymomot/polyfill/pkg/catalog"
	"github.com/dmitrymomot/polyfill/pkg/httpserver"
	"github.com/dmitrymomot/polyfill/pkg/logger"
	"github.com/dmitrymomot/polyfill/pkg/requestid"
)

// Engine is the part of *polyfill.Engine the front end needs.
type Engine interface {
	Output(ctx context.Context, opts polyfill.Options) (*polyfill.Body, error)
	Describe(ctx context.Context, name string) (*catalog.Meta, bool)
	ListAliases(ctx context.Context) map[string][]string
}

// Server answers bundle and introspection requests.
type Server struct {
	engine    Engine
	cfg       *config
	log       *slog.Logger
	responses *cache.LRUCache[string, []byte]
}

// New returns a Server backed by engine.
func New(engine Engine, opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.log
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		engine:    engine,
		cfg:       cfg,
		log:       log.With(logger.Component("server")),
		responses: cache.NewLRUCache[string, []byte](cfg.cacheSize),
	}
}

// Handler returns the router with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(s.logRequests)

	r.Get("/polyfill.js", s.handleBundle)
	r.Get("/polyfill.min.js", s.handleBundle)

	r.Route("/v3", func(r chi.Router) {
		r.Get("/aliases", s.handleAliases)
		r.Get("/features/{name}", s.handleFeature)
	})

	r.Get("/__about", s.handleAbout)
	r.Get("/__health", httpserver.HealthCheckHandler(s.log, s.cfg.checks...))
	r.Get("/__gtg", httpserver.HealthCheckHandler(s.log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "This route does not exist. See /__about for the available endpoints.", http.StatusNotFound)
	})
	return r
}

// Purge drops every cached response and runs the registered purgers.
func (s *Server) Purge() {
	s.responses.Clear()
	for _, purge := range s.cfg.purgers {
		purge()
	}
}

// Refresh calls Purge every refresh interval until ctx is done. It returns
// at once when the interval is not positive.
func (s *Server) Refresh(ctx context.Context) {
	if s.cfg.refresh <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Purge()
			s.log.DebugContext(ctx, "caches purged", logger.Duration(s.cfg.refresh))
		}
	}
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts := parseOptions(r)
	opts.Stream = s.cfg.stream
	key := cacheKey(opts, s.cfg.version)
	tag := etag(key)

	h := w.Header()
	h.Set("Content-Type", "application/javascript; charset=utf-8")
	h.Set("Cache-Control", s.cfg.cacheControl)
	h.Set("ETag", tag)
	h.Set("Vary", "User-Agent")

	if inm := r.Header.Get("If-None-Match"); inm != "" && etagMatches(inm, tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if body, ok := s.responses.Get(key); ok {
		h.Set("X-Cache", "HIT")
		_, _ = w.Write(body)
		return
	}
	h.Set("X-Cache", "MISS")

	start := time.Now()
	body, err := s.engine.Output(ctx, opts)
	if err != nil {
		s.bundleFailed(w, r, err, false)
		return
	}
	defer body.Close()

	if body.Degraded() {
		h.Set("Cache-Control", "no-store")
		h.Del("ETag")
	}

	var buf bytes.Buffer
	out := &countingWriter{w: w}
	if _, err := io.Copy(out, io.TeeReader(body, &buf)); err != nil {
		s.bundleFailed(w, r, err, out.n > 0)
		return
	}

	degraded := body.Degraded()
	if degraded {
		s.log.WarnContext(ctx, "degraded bundle not cached", logger.CacheKey(key))
	} else {
		s.responses.Put(key, buf.Bytes())
	}
	s.log.DebugContext(ctx, "bundle generated",
		logger.CacheKey(key),
		slog.Bool("degraded", degraded),
		logger.Runtime(opts.RuntimeIdentity),
		logger.Count("bytes", buf.Len()),
		logger.Duration(time.Since(start)),
	)
}

// bundleFailed logs err and answers 500 when nothing was written yet.
// Once the body has started the connection is simply cut short.
func (s *Server) bundleFailed(w http.ResponseWriter, r *http.Request, err error, started bool) {
	ctx := r.Context()
	if errors.Is(err, context.Canceled) {
		return
	}
	s.log.ErrorContext(ctx, "bundle failed", logger.Error(err))
	if started {
		return
	}
	w.Header().Del("ETag")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = io.WriteString(w, errors.Join(ErrBundleFailed, err).Error())
}

func (s *Server) handleAliases(w http.ResponseWriter, r *http.Request) {
	_ = writeData(w, s.engine.ListAliases(r.Context()))
}

func (s *Server) handleFeature(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	meta, ok := s.engine.Describe(r.Context(), name)
	if !ok {
		_ = writeError(w, http.StatusNotFound, "feature_not_found", ErrFeatureNotFound)
		return
	}
	_ = writeData(w, meta)
}

type about struct {
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
	Version string `json:"version"`
}

func (s *Server) handleAbout(w http.ResponseWriter, _ *http.Request) {
	_ = writeData(w, about{Name: s.cfg.name, Purpose: s.cfg.description, Version: s.cfg.version})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.InfoContext(r.Context(), "request",
			logger.RequestID(requestid.FromContext(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			logger.Duration(time.Since(start)),
		)
	})
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
