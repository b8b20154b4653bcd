// Package server exposes the query API: cited answers, raw search,
// manifest browsing, and admin operations over HTTP and WebSocket.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/karimjaber/mediarag/internal/config"
	"github.com/karimjaber/mediarag/internal/index"
	"github.com/karimjaber/mediarag/internal/manifest"
	"github.com/karimjaber/mediarag/internal/synthesis"
)

// Answerer turns retrieved results into a cited answer.
type Answerer interface {
	Synthesize(ctx context.Context, question string, results []index.Result, language string) *synthesis.Result
}

// Importer loads chunk files into the index.
type Importer interface {
	ImportFile(ctx context.Context, path string) (int, error)
	ImportDir(ctx context.Context, dir string) (int, int, error)
}

// Config holds server configuration.
type Config struct {
	Port     int
	DataDir  string // directory holding chunks/, summaries/, and the index snapshot
	AllowAll bool   // allow all CORS origins (dev mode)
}

// Server is the mediarag query server.
type Server struct {
	cfg        Config
	appCfg     *config.Config
	idx        index.Index
	answerer   Answerer
	store      *manifest.Store
	importer   Importer
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies.
func New(cfg Config, appCfg *config.Config, idx index.Index, answerer Answerer, store *manifest.Store, importer Importer) *Server {
	s := &Server{
		cfg:      cfg,
		appCfg:   appCfg,
		idx:      idx,
		answerer: answerer,
		store:    store,
		importer: importer,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/api/ask", s.handleAsk)
	r.Get("/api/search", s.handleSearch)
	r.Post("/api/admin/import", s.handleImport)
	r.Post("/api/admin/reconcile", s.handleReconcile)
	r.Get("/api/admin/config", s.handleConfig)
	r.Get("/ws/ask", s.handleWebSocket)
	r.Get("/library", s.handleLibrary)

	if s.store != nil {
		manifest.RegisterRoutes(r, s.store)
	}

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("mediarag server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
