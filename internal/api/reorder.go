// Package api implements the admin reorder endpoint consumed by the
// remotesync client.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// ProjectStore persists a new display order. Identifiers unknown to the
// store are ignored; known ones are renumbered by their position in the
// list.
type ProjectStore interface {
	Reorder(hexIDs []string) error
}

// ReorderHandler serves POST /api/admin/projects/reorder.
type ReorderHandler struct {
	store     ProjectStore
	csrfToken string
	logger    *slog.Logger
}

// NewReorderHandler builds the handler. A non-empty csrfToken makes the
// handler require a matching X-CSRFToken header.
func NewReorderHandler(store ProjectStore, csrfToken string, logger *slog.Logger) *ReorderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReorderHandler{store: store, csrfToken: csrfToken, logger: logger}
}

type reorderRequest struct {
	ProjectHexIDs []string `json:"project_hex_ids"`
}

func (h *ReorderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		errorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.csrfToken != "" && r.Header.Get("X-CSRFToken") != h.csrfToken {
		errorResponse(w, http.StatusForbidden, "invalid CSRF token")
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	ids := make([]string, 0, len(req.ProjectHexIDs))
	for _, id := range req.ProjectHexIDs {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	if len(ids) == 0 {
		errorResponse(w, http.StatusBadRequest, "no project ids provided")
		return
	}

	if err := h.store.Reorder(ids); err != nil {
		h.logger.Error("failed to reorder projects", "error", err)
		errorResponse(w, http.StatusInternalServerError, "failed to reorder projects")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
