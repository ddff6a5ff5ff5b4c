// Package server exposes the agent service over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/lexlabs/lexagent/internal/agent"
	"github.com/lexlabs/lexagent/internal/config"
	"github.com/lexlabs/lexagent/internal/search"
	"github.com/lexlabs/lexagent/internal/store"
)

// Version is stamped at build time.
var Version = "dev"

type Server struct {
	cfg     config.Config
	store   store.Store
	agent   *agent.Service
	search  *search.Service
	httpSrv *http.Server
}

func New(cfg config.Config, st store.Store, agentSvc *agent.Service, searchSvc *search.Service) *Server {
	return &Server{
		cfg:    cfg,
		store:  st,
		agent:  agentSvc,
		search: searchSvc,
	}
}

// Router builds the full handler chain. Exposed so tests can drive it with
// httptest without opening a socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(corsMiddleware(s.cfg.Server.AllowedOrigins))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleLiveness)

	r.Route("/api/v1/agent", func(r chi.Router) {
		r.Get("/config/{userID}", s.handleGetConfig)
		r.Post("/config/{userID}", s.handleCreateConfig)
		r.Put("/config/{userID}", s.handleUpdateConfig)
		r.Delete("/config/{userID}", s.handleDeleteConfig)
		r.Get("/config/{userID}/stats", s.handleConfigStats)

		r.Post("/chat", s.handleChat)
		r.Post("/search", s.handleSearch)

		r.Get("/health", s.handleAgentHealth)
		r.Get("/usage", s.handleUsage)
		r.Get("/models", s.handleModels)
		r.Get("/specializations", s.handleSpecializations)
		r.Get("/tones", s.handleTones)
	})

	return r
}

// Start builds the router and serves until Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	slog.Info("Starting server", "addr", addr)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "LexAgent - Sistema de Agentes Legales",
		"version": Version,
		"status":  "active",
	})
}

// handleLiveness reports process liveness only; gateway reachability is
// covered by the agent health endpoint.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "lexagent",
		"version": Version,
	})
}
