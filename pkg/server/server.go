// Package server exposes the animation pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness and build information
//	GET  /v1/fonts    fonts accepted by the "font" option
//	POST /v1/frames   build a program and return its frames (JSON, DOT or SVG)
//	GET  /v1/render   render one entry statically as plain text
//	GET  /v1/play     WebSocket: stream frames from a server-side scheduler
//
// Request bodies are [pipeline.Options] in JSON. Errors are returned as
// {"error": {"code": ..., "message": ...}} with a status derived from the
// error code.
//
// # Live playback
//
// Every /v1/play connection owns one animator and therefore one playback
// scheduler. The client configures it with {"options": {...}} and toggles
// pause with {"paused": true}. The server sends
//
//	{"type": "session", "session": "<uuid>"}
//	{"type": "frame", "text": "..."}
//	{"type": "error", "error": {...}}
//	{"type": "done"}
//
// Reconfiguring restarts playback with the new program; a failed
// reconfiguration leaves the running one untouched.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/asciiwipe/pkg/fonts"
	"github.com/matzehuels/asciiwipe/pkg/pipeline"
	"github.com/matzehuels/asciiwipe/pkg/playback"
)

const (
	// DefaultMaxBodyBytes limits request bodies and WebSocket messages.
	DefaultMaxBodyBytes = 64 << 10

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	// Runner builds programs. Required.
	Runner *pipeline.Runner

	// FontDirs are listed by /v1/fonts. They should match the runner's
	// glyph source.
	FontDirs []string

	// AllowRemoteFonts permits fonts named by URL. Local font file paths are
	// always rejected.
	AllowRemoteFonts bool

	// RefreshRate is the tick rate of /v1/play schedulers in Hz.
	RefreshRate int

	// MaxBodyBytes limits request bodies. Zero uses DefaultMaxBodyBytes.
	MaxBodyBytes int64

	Logger *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New returns a server for cfg.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, nil, cfg.Logger)
	}
	if cfg.RefreshRate <= 0 {
		cfg.RefreshRate = playback.DefaultRefreshRate
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{cfg: cfg, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/fonts", s.handleFonts)
		r.Post("/frames", s.handleFrames)
		r.Get("/render", s.handleRender)
		r.Get("/play", s.handlePlay)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) fontList() []string {
	return fonts.List(s.cfg.FontDirs...)
}
