package server

import (
	"encoding/json"
	"net/http"

	"github.com/lexlabs/lexagent/internal/models"
)

// chatRequest is the body of POST /chat and POST /search.
type chatRequest struct {
	UserID  string `json:"user_id"`
	Query   string `json:"query"`
	Context string `json:"context,omitempty"`
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}
	if req.UserID == "" {
		jsonError(w, "user_id is required", http.StatusBadRequest)
		return req, false
	}
	if req.Query == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// handleChat runs the full compose, send, assemble pipeline.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	resp, err := s.agent.Chat(r.Context(), req.UserID, req.Query, req.Context)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	resp, err := s.search.Search(r.Context(), req.UserID, req.Query)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, resp)
}

// handleAgentHealth reports gateway reachability and the stored config
// count. It always answers 200; failures live inside the report.
func (s *Server) handleAgentHealth(w http.ResponseWriter, r *http.Request) {
	report := s.agent.Health(r.Context())
	jsonResponse(w, http.StatusOK, report)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"models":        models.ModelCatalog,
		"current_model": s.cfg.Gateway.Model,
	})
}

func (s *Server) handleSpecializations(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"specializations": models.SpecializationCatalog,
	})
}

func (s *Server) handleTones(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"tones": models.ToneCatalog,
	})
}
