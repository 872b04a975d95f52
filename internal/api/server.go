package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nassaucable/assistant/internal/log"
	"github.com/nassaucable/assistant/internal/session"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger   log.Logger
	Chat     ChatService    // Optional: nil means the agent is not ready (503 on /chat)
	Sessions *session.Store // Required

	CORSOrigins []string // Allowed origins for CORS
	TrustProxy  bool     // Trust X-Real-IP/X-Forwarded-For (behind reverse proxy)
	RateBurst   int      // Rate limiter burst size per IP (0 = default 60)
}

// Server is the JSON API HTTP server.
type Server struct {
	handler http.Handler
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Sessions == nil {
		return nil, errors.New("session store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hh := &healthHandler{ready: cfg.Chat != nil, store: cfg.Sessions}
	ch := &chatHandler{service: cfg.Chat, logger: logger}
	sh := &sessionHandler{store: cfg.Sessions, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", hh.root)
	mux.HandleFunc("GET /health", hh.health)
	mux.HandleFunc("GET /stats", hh.stats)
	mux.HandleFunc("POST /chat", ch.send)
	mux.HandleFunc("DELETE /sessions/{session_id}", sh.deleteSession)

	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Middleware stack (outermost first): recovery → logging → CORS →
	// rate limit → routes. CORS sits before the rate limiter so preflight
	// OPTIONS requests get proper headers without spending tokens.
	handler := chain(mux,
		recoveryMiddleware(logger),
		loggingMiddleware(logger),
		corsMiddleware(cfg.CORSOrigins),
		rateLimitMiddleware(rl, cfg.TrustProxy, logger),
	)

	return &Server{handler: handler}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}
