// Package api exposes the assistant over HTTP.
//
// Endpoints:
//
//	GET    /                        liveness message
//	GET    /health                  {"status","ai_ready"}
//	GET    /stats                   live session count
//	POST   /chat                    chat with the assistant
//	OPTIONS /chat                   CORS preflight (middleware)
//	DELETE /sessions/{session_id}   clear a conversation
//
// Chat failures are modeled in the response body's status field, not the
// HTTP status code: a timeout or backend failure is still a 200. The
// exceptions are request validation (400) and an agent that is not yet
// ready (503).
//
// File structure:
//   - server.go: route registration and middleware stack
//   - middleware.go: recovery, logging, CORS
//   - ratelimit.go: per-IP token bucket limiting
//   - chat.go: POST /chat
//   - session.go: DELETE /sessions/{session_id}
//   - health.go: liveness, health, stats
//   - response.go: JSON response helpers
package api
