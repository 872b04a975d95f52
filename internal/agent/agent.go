// Package agent defines the boundary to the hosted LLM runtime that
// answers cable-product questions.
package agent

import "context"

// Agent is the single opaque collaborator the orchestrator talks to.
// Implementations must honor the context deadline; the orchestrator
// bounds every call with a timeout.
type Agent interface {
	Send(ctx context.Context, prompt string) (string, error)
}
