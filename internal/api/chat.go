package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nassaucable/assistant/internal/chat"
	"github.com/nassaucable/assistant/internal/log"
)

// maxChatBodyBytes bounds the POST /chat request body.
const maxChatBodyBytes = 1 << 20

// ChatService is the slice of the orchestrator the chat handler needs.
// Defined on the consumer side so tests can substitute it.
type ChatService interface {
	Handle(ctx context.Context, req chat.Request) (chat.Result, error)
}

// ChatRequest is the POST /chat request body.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the POST /chat response body. Status carries the
// outcome (success, timeout, usage_limit_exceeded, error).
type ChatResponse struct {
	Response     string `json:"response"`
	Status       string `json:"status"`
	SessionID    string `json:"session_id"`
	Optimization string `json:"optimization,omitempty"`
}

// chatHandler handles POST /chat.
type chatHandler struct {
	service ChatService // nil until the agent backend is ready
	logger  log.Logger
}

// send forwards one chat message through the orchestrator.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeError(w, http.StatusServiceUnavailable, "not_ready", "assistant is still starting")
		return
	}

	var req ChatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	result, err := h.service.Handle(r.Context(), chat.Request{
		Message:   req.Message,
		SessionID: req.SessionID,
	})
	if err != nil {
		if errors.Is(err, chat.ErrValidation) {
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		h.logger.Error("chat handling failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:     result.Response,
		Status:       string(result.Status),
		SessionID:    result.SessionID,
		Optimization: result.Optimization,
	})
}
