// Package server provides the HTTP API for wyvern's query-and-ranking core.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/wyvern/internal/config"
	"github.com/hyperjump/wyvern/internal/indexer"
	"github.com/hyperjump/wyvern/internal/model"
	"github.com/hyperjump/wyvern/internal/search"
	"github.com/hyperjump/wyvern/internal/sonic"
)

// Server is the HTTP API for wyvern's query service, plus an optional
// sonic RPC listener for node-to-node traffic (§6).
type Server struct {
	engine      *search.Engine
	indexer     *indexer.Indexer
	config      config.ServerConfig
	logger      *zap.Logger
	server      *http.Server
	sonicServer *sonic.Server[model.SearchQuery, model.SearchResponse]
	sonicCancel context.CancelFunc
}

// NewServer creates a server with the given dependencies. idx is optional;
// when nil the /api/v1/documents ingestion endpoint is disabled.
func NewServer(engine *search.Engine, idx *indexer.Indexer, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:  engine,
		indexer: idx,
		config:  cfg,
		logger:  logger,
	}
}

// Start starts the HTTP server, and the sonic RPC listener if configured,
// then blocks on the HTTP server until it stops.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/documents", s.handleIndexWebpage)
	r.Get("/health", s.handleHealth)

	var sonicCtx context.Context
	sonicCtx, s.sonicCancel = context.WithCancel(context.Background())
	if err := s.startSonic(sonicCtx, s.config.SonicAddr); err != nil {
		s.sonicCancel()
		return fmt.Errorf("start sonic listener: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server and the sonic listener, if
// one was started.
func (s *Server) Stop(ctx context.Context) error {
	if s.sonicCancel != nil {
		s.sonicCancel()
	}
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
