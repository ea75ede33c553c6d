// Package server exposes the HTTP API: image submissions, user ledger
// queries, the center directory, and the leaderboard.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sortwise/sortwise/internal/classifier"
	"github.com/sortwise/sortwise/internal/config"
	"github.com/sortwise/sortwise/internal/directory"
	"github.com/sortwise/sortwise/internal/engine"
	"github.com/sortwise/sortwise/internal/service"
)

// Version is the reported API version.
const Version = "2.0"

// Server wires the request handlers to their collaborators. All dependencies
// are constructed once at process start and injected here.
type Server struct {
	storage        service.Storage
	classifier     classifier.Classifier
	engine         *engine.Engine
	directory      *directory.Service
	cfg            *config.Config
	classifierMode string
}

// New creates a server from explicitly constructed dependencies.
func New(cfg *config.Config, storage service.Storage, clf classifier.Classifier, eng *engine.Engine, dir *directory.Service) *Server {
	return &Server{
		storage:        storage,
		classifier:     clf,
		engine:         eng,
		directory:      dir,
		cfg:            cfg,
		classifierMode: cfg.Classifier.Mode,
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /detect", s.handleDetect)
	mux.HandleFunc("GET /user/{username}", s.handleGetUser)
	mux.HandleFunc("GET /user/{username}/history", s.handleGetHistory)
	mux.HandleFunc("POST /user/{username}/update", s.handleUpdateUser)
	mux.HandleFunc("GET /recycling-centers", s.handleListCenters)
	mux.HandleFunc("POST /user-location", s.handleUserLocation)
	mux.HandleFunc("GET /get-directions/{id}", s.handleDirections)
	mux.HandleFunc("GET /leaderboard", s.handleLeaderboard)

	return withCORS(withRequestLogging(mux))
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		slog.Info("HTTP server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}
