// Package session holds in-memory conversation state for the assistant.
//
// Histories are volatile by design: a session lives exactly as long as the
// process does. There is no persistence layer and no cross-session
// coupling — each session ID maps to its own bounded list of turns.
package session

import "sync"

// Role constants define valid turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Retention policy: a session may grow to maxTurns before it is cut back
// to the most recent keepTurns. The slack between the two values means the
// trim runs every few appends instead of on every single one.
const (
	maxTurns  = 16
	keepTurns = 12
)

// Turn is a single message in a conversation, tagged with its speaker.
// Turns are immutable once appended.
type Turn struct {
	Role string
	Text string
}

// Store maps session IDs to bounded conversation histories.
//
// Store is safe for concurrent use. Appends to the same session are
// serialized under the store lock, so the retention trim never races a
// concurrent writer.
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]Turn
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string][]Turn)}
}

// Append adds a turn to the session, creating the session if it does not
// exist, then applies the retention policy.
func (s *Store) Append(id string, turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.sessions[id], turn)
	if len(turns) > maxTurns {
		trimmed := make([]Turn, keepTurns)
		copy(trimmed, turns[len(turns)-keepTurns:])
		turns = trimmed
	}
	s.sessions[id] = turns
}

// History returns a copy of the session's turns in insertion order.
// Unknown IDs yield an empty slice, not an error.
func (s *Store) History(id string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[id]
	cp := make([]Turn, len(turns))
	copy(cp, turns)
	return cp
}

// Delete removes a session and reports whether it existed.
// Deleting an unknown ID is a harmless no-op.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
