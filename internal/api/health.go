package api

import (
	"net/http"

	"github.com/nassaucable/assistant/internal/session"
)

// healthHandler serves the liveness and status endpoints.
type healthHandler struct {
	ready bool // agent backend constructed successfully at startup
	store *session.Store
}

// root is the liveness message on GET /.
func (h *healthHandler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "AI Assistant API is running"})
}

// health reports process health and whether the agent backend is ready.
func (h *healthHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"ai_ready": h.ready,
	})
}

// stats reports the number of live sessions.
func (h *healthHandler) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active_sessions": h.store.Len(),
	})
}
