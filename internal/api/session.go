package api

import (
	"net/http"

	"github.com/nassaucable/assistant/internal/log"
	"github.com/nassaucable/assistant/internal/session"
)

// sessionHandler handles DELETE /sessions/{session_id}.
type sessionHandler struct {
	store  *session.Store
	logger log.Logger
}

// deleteSession clears a conversation. Deleting an unknown session is not
// an error: the response reports it and the call still returns 200.
func (h *sessionHandler) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("session_id")

	if h.store.Delete(id) {
		h.logger.Debug("session cleared", "session_id", id)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Session cleared"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session not found"})
}
