package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lexlabs/lexagent/internal/gateway"
	"github.com/lexlabs/lexagent/internal/models"
	"github.com/lexlabs/lexagent/internal/store"
)

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error":       message,
		"status_code": status,
	})
}

// writeError maps the error taxonomy onto HTTP statuses. Validation failures
// and typed store outcomes go back as-is; gateway failures carry a
// caller-safe summary; anything unanticipated becomes a generic 500 with the
// cause logged, never echoed.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var gatewayErr *gateway.Error

	switch {
	case errors.As(err, &validationErr):
		jsonError(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, "Usuario no encontrado", http.StatusNotFound)
	case errors.Is(err, store.ErrAlreadyExists):
		jsonError(w, "La configuración ya existe", http.StatusConflict)
	case errors.As(err, &gatewayErr):
		jsonError(w, "Error generando respuesta: "+gatewayErr.Error(), http.StatusBadGateway)
	default:
		slog.Error("unhandled error", "error", err)
		jsonError(w, "Error interno del servidor", http.StatusInternalServerError)
	}
}
