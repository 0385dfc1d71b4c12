// Package server exposes the document pipeline over HTTP for the
// upstream backend: document processing, querying, query history, and a
// health check.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/documind/ai-service/internal/history"
	"github.com/documind/ai-service/internal/rag"
)

// Pipeline is the document processing and query surface the HTTP layer
// forwards to.
type Pipeline interface {
	ProcessDocument(ctx context.Context, documentID, filePath string) (*rag.ProcessResult, error)
	Query(ctx context.Context, documentID, query string, topK int) (*rag.QueryResult, error)
}

// HistoryStore records and lists answered queries.
type HistoryStore interface {
	Record(ctx context.Context, entry history.Entry) error
	List(ctx context.Context, documentID string, limit int) ([]history.Entry, error)
}

// HealthChecker reports vector store connectivity.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Config holds server settings.
type Config struct {
	Port            int
	AllowAllOrigins bool
}

// Server is the HTTP front of the AI service.
type Server struct {
	cfg        Config
	pipeline   Pipeline
	historyDB  HistoryStore
	health     HealthChecker
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New wires up the router with all routes and middleware.
func New(cfg Config, pipeline Pipeline, historyDB HistoryStore, health HealthChecker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:       cfg,
		pipeline:  pipeline,
		historyDB: historyDB,
		health:    health,
		logger:    logger,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/health", s.handleHealth)
	r.Post("/process-document", s.handleProcessDocument)
	r.Post("/query", s.handleQuery)
	r.Get("/documents/{documentID}/history", s.handleHistory)

	return r
}

// Router returns the configured router, mainly for tests.
func (s *Server) Router() http.Handler { return s.router }

// Start begins listening on the configured port and blocks until the
// server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("HTTP server listening", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
