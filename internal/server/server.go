// Package server exposes conversions over HTTP.
//
// The server holds the current converter behind an atomic pointer. A reload
// builds a fresh network from the mappings directory and swaps it in whole;
// in-flight requests keep the snapshot they started with.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/soghomon-b/g2p/internal/loader"
	"github.com/soghomon-b/g2p/pkg/convert"
	"github.com/soghomon-b/g2p/pkg/mapping"
	"golang.org/x/sync/errgroup"
)

// Server serves the conversion API.
type Server struct {
	current     atomic.Pointer[convert.Converter]
	loader      *loader.Loader
	port        int
	watch       bool
	mappingsDir string
	logger      *slog.Logger
	notifier    *Notifier
	generation  atomic.Uint64
}

// Config holds configuration for the server.
type Config struct {
	// Converter is the initial snapshot. When nil, NewServer loads one
	// from MappingsDir.
	Converter   *convert.Converter
	Loader      *loader.Loader
	MappingsDir string
	Port        int
	Watch       bool
	Logger      *slog.Logger
}

// NewServer creates a server. It fails if no initial snapshot can be loaded.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ld := cfg.Loader
	if ld == nil {
		ld = loader.New(mapping.DefaultOptions(), logger)
	}

	s := &Server{
		loader:      ld,
		port:        cfg.Port,
		watch:       cfg.Watch,
		mappingsDir: cfg.MappingsDir,
		logger:      logger,
		notifier:    NewNotifier(),
	}

	if cfg.Converter != nil {
		s.current.Store(cfg.Converter)
		return s, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Converter returns the current snapshot.
func (s *Server) Converter() *convert.Converter {
	return s.current.Load()
}

// Reload rebuilds the network from the mappings directory and swaps it in,
// then publishes a ReloadEvent. On failure the current snapshot stays in place.
func (s *Server) Reload() error {
	if s.mappingsDir == "" {
		return errors.New("no mappings directory configured")
	}
	n, err := s.loader.LoadDir(s.mappingsDir)
	if err != nil {
		return fmt.Errorf("reload mappings: %w", err)
	}
	s.current.Store(convert.New(n))
	s.notifier.Publish(ReloadEvent{
		Generation: s.generation.Add(1),
		Langs:      n.NodeCount(),
	})
	return nil
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	SetupRoutes(r, NewHandlers(s.Converter, s.notifier, s.logger))
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
