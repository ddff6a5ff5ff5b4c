package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lexlabs/lexagent/internal/models"
)

// handleGetConfig returns the user's configuration, provisioning a default
// one when none exists. It never reports "not found".
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	cfg, err := s.store.GetOrCreate(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, cfg)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	// Decoding into the pointer-field update type distinguishes an absent
	// field from an explicit zero: absent fields take defaults, supplied
	// values are validated as-is.
	var body models.AgentConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := body.Validate(); err != nil {
		writeError(w, err)
		return
	}

	cfg := models.NewDefaultConfig(userID)
	body.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		writeError(w, err)
		return
	}

	created, err := s.store.Create(r.Context(), userID, cfg)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("configuration created", "user_id", userID)
	jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var upd models.AgentConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := upd.Validate(); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.store.Update(r.Context(), userID, upd)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	deleted, err := s.store.Delete(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		jsonError(w, "Usuario no encontrado", http.StatusNotFound)
		return
	}

	slog.Info("configuration deleted", "user_id", userID)
	jsonResponse(w, http.StatusOK, map[string]string{
		"message": "Configuración eliminada exitosamente",
	})
}

func (s *Server) handleConfigStats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	stats, err := s.store.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.store.RecentUsage(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"usage": entries})
}
