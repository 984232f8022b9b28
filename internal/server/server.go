// Package server wires the storage, services and handlers into the
// HTTP API.
package server

import (
	"net/http"

	"github.com/financial-organizer/backend/internal/config"
	"github.com/financial-organizer/backend/internal/handlers"
	"github.com/financial-organizer/backend/internal/ingest"
	"github.com/financial-organizer/backend/internal/middleware"
	"github.com/financial-organizer/backend/internal/storage"
	"github.com/financial-organizer/backend/internal/tags"
)

// Server represents the finance API server
type Server struct {
	store *storage.Store
	mux   *http.ServeMux
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store: store,
		mux:   http.NewServeMux(),
	}
	s.setupRoutes(cfg)

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg *config.Config) {
	// Health check (no auth required)
	s.mux.HandleFunc("GET /health", handlers.Health)

	auth := middleware.NewAuthMiddleware(cfg.JWTSecret)
	tagService := tags.NewService(s.store)
	ingestService := ingest.NewService(s.store)

	authHandler := handlers.NewAuthHandler(s.store, tagService, auth)
	tagsHandler := handlers.NewTagsHandler(s.store)
	txnsHandler := handlers.NewTransactionsHandler(s.store, tagService)
	uploadHandler := handlers.NewUploadHandler(ingestService)
	dashboardHandler := handlers.NewDashboardHandler(s.store)

	// Public routes
	s.mux.HandleFunc("POST /api/signup", authHandler.Signup)
	s.mux.HandleFunc("POST /api/login", authHandler.Login)

	// Protected API routes
	s.mux.Handle("GET /api/tags", auth.RequireAuth(http.HandlerFunc(tagsHandler.List)))
	s.mux.Handle("POST /api/tags", auth.RequireAuth(http.HandlerFunc(tagsHandler.Create)))
	s.mux.Handle("GET /api/transactions", auth.RequireAuth(http.HandlerFunc(txnsHandler.List)))
	s.mux.Handle("POST /api/transactions", auth.RequireAuth(http.HandlerFunc(txnsHandler.Create)))
	s.mux.Handle("POST /api/transactions/upload", auth.RequireAuth(http.HandlerFunc(uploadHandler.Upload)))
	s.mux.Handle("GET /api/dashboard/tags", auth.RequireAuth(http.HandlerFunc(dashboardHandler.TagGroups)))
	s.mux.Handle("GET /api/dashboard/months", auth.RequireAuth(http.HandlerFunc(dashboardHandler.Months)))
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	// Apply middleware
	handler := middleware.CORS(s.mux)
	return handler
}

// Close closes the server resources
func (s *Server) Close() error {
	return s.store.Close()
}
