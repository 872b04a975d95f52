package chat

import (
	"strings"

	"github.com/nassaucable/assistant/internal/session"
)

const (
	// contextVerbatimTurns recent turns pass through the summary unchanged.
	contextVerbatimTurns = 2

	// contextLineLimit caps a carried-over earlier line, in runes.
	contextLineLimit = 100

	// contextMaxEarlier bounds how many earlier on-topic lines survive.
	contextMaxEarlier = 2
)

// contextTopics decide which earlier turns are worth carrying forward.
var contextTopics = []string{"cable", "wire", "product"}

// Summarize compresses a conversation history into a bounded context
// string. Histories of up to three turns are joined verbatim, one line per
// turn. Longer histories keep the two most recent turns verbatim and fold
// earlier on-topic lines into a single "Previous context" line.
//
// Deterministic, no I/O. Empty history yields an empty string.
func Summarize(history []session.Turn) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) <= 3 {
		return joinTurns(history)
	}

	recent := history[len(history)-contextVerbatimTurns:]
	earlier := history[:len(history)-contextVerbatimTurns]

	var kept []string
	for _, t := range earlier {
		if !containsAny(strings.ToLower(t.Text), contextTopics) {
			continue
		}
		line := renderTurn(t)
		if runes := []rune(line); len(runes) > contextLineLimit {
			line = string(runes[:contextLineLimit]) + "..."
		}
		kept = append(kept, line)
	}
	if len(kept) > contextMaxEarlier {
		kept = kept[len(kept)-contextMaxEarlier:]
	}

	var b strings.Builder
	if len(kept) > 0 {
		b.WriteString("Previous context: ")
		b.WriteString(strings.Join(kept, "; "))
		b.WriteString("\n")
	}
	b.WriteString(joinTurns(recent))
	return b.String()
}

// renderTurn formats a turn as a single tagged line.
func renderTurn(t session.Turn) string {
	tag := "Assistant"
	if t.Role == session.RoleUser {
		tag = "User"
	}
	return tag + ": " + t.Text
}

// joinTurns renders turns one line each, newline-separated.
func joinTurns(turns []session.Turn) string {
	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = renderTurn(t)
	}
	return strings.Join(lines, "\n")
}
