// Package testutil provides deterministic test doubles for the assistant.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MockAgent provides deterministic agent replies for testing.
// It matches prompts against registered substring patterns and records
// every prompt it receives.
//
// Thread-safe for concurrent use.
type MockAgent struct {
	mu       sync.Mutex
	rules    []mockRule
	fallback string
	delay    time.Duration
	err      error
	prompts  []string
}

type mockRule struct {
	pattern  string // substring match in the prompt, lowercased
	response string
}

// NewMockAgent creates a mock agent with the given fallback response.
// The fallback is returned when no pattern matches.
func NewMockAgent(fallback string) *MockAgent {
	return &MockAgent{fallback: fallback}
}

// AddResponse registers a pattern-response pair. When a prompt contains
// the pattern (case-insensitive), the response is returned. Patterns are
// checked in registration order; first match wins.
func (m *MockAgent) AddResponse(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{
		pattern:  strings.ToLower(pattern),
		response: response,
	})
}

// SetDelay makes Send block for d before answering, honoring context
// cancellation. Used for timeout tests.
func (m *MockAgent) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// SetError makes every subsequent Send fail with err.
func (m *MockAgent) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Prompts returns a copy of all recorded prompts in call order.
func (m *MockAgent) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]string, len(m.prompts))
	copy(cp, m.prompts)
	return cp
}

// Send implements agent.Agent.
func (m *MockAgent) Send(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	delay := m.delay
	sendErr := m.err
	response := m.fallback
	lower := strings.ToLower(prompt)
	for _, r := range m.rules {
		if strings.Contains(lower, r.pattern) {
			response = r.response
			break
		}
	}
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	if sendErr != nil {
		return "", sendErr
	}
	return response, nil
}
