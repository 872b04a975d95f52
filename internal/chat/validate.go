package chat

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrValidation marks rejected chat input. Rejected input never reaches
// the agent or the session store; handlers map it to a 400 response.
var ErrValidation = errors.New("invalid input")

// Input limits, counted in runes.
const (
	MaxMessageLength   = 2000
	MaxSessionIDLength = 50
)

// injectionMarkers are substrings that never belong in a customer
// question, matched case-insensitively anywhere in the message.
var injectionMarkers = []string{"<script", "javascript:", "onload=", "eval(", "exec("}

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// ValidateMessage normalizes raw chat input and returns the trimmed
// message, or an error wrapping ErrValidation. The check is pure: no
// logging, no state.
func ValidateMessage(message string) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", fmt.Errorf("%w: message is empty", ErrValidation)
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return "", fmt.Errorf("%w: message exceeds %d characters", ErrValidation, MaxMessageLength)
	}

	lower := strings.ToLower(trimmed)
	for _, marker := range injectionMarkers {
		if strings.Contains(lower, marker) {
			return "", fmt.Errorf("%w: message contains disallowed content", ErrValidation)
		}
	}
	return trimmed, nil
}

// ValidateSessionID checks a client-supplied session identifier.
// Empty is allowed — the orchestrator generates one in that case.
func ValidateSessionID(id string) error {
	if id == "" {
		return nil
	}
	if utf8.RuneCountInString(id) > MaxSessionIDLength {
		return fmt.Errorf("%w: session_id exceeds %d characters", ErrValidation, MaxSessionIDLength)
	}
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("%w: session_id may only contain letters, digits, and hyphens", ErrValidation)
	}
	return nil
}
