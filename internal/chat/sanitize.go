package chat

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// productMarker begins the tool-call artifact the backend sometimes leaks
// into a free-text reply.
const productMarker = `{"products":`

// sanitizeFallback is returned when nothing presentable survives cleanup.
// The sanitizer never returns an empty string.
const sanitizeFallback = "I found relevant technical information in our database. Please rephrase your question for a more detailed response."

// minPieceLength is the smallest trimmed fragment worth keeping, in runes.
// Anything shorter is leftover punctuation or a dangling sentence stub.
const minPieceLength = 10

// closingPatterns locate an object boundary when brace matching fails:
// the end of a quoted string value followed by closing braces/brackets,
// checked in priority order.
var closingPatterns = []string{`"}]}`, `"}}]`, `"}]`, `"}}`}

// Sanitize strips embedded product-JSON fragments and boundary noise from
// the agent's raw reply. This is best-effort text cleanup, not a JSON
// parser: the goal is that raw structured fragments never reach the
// customer.
func Sanitize(raw string) string {
	idx := strings.Index(raw, productMarker)
	if idx < 0 {
		if cleaned := trimBoundary(raw); cleaned != "" {
			return cleaned
		}
		return sanitizeFallback
	}

	pre := raw[:idx]
	jsonPart := raw[idx:]

	// Everything after the embedded object survives; if no boundary can be
	// found at all, the tail is dropped along with the object.
	var post string
	if end, ok := balancedEnd(jsonPart); ok {
		post = jsonPart[end:]
	} else if end, ok := patternEnd(jsonPart); ok {
		post = jsonPart[end:]
	}

	var pieces []string
	if p := strings.TrimSpace(pre); utf8.RuneCountInString(p) > minPieceLength {
		pieces = append(pieces, p)
	}
	if p := strings.TrimSpace(post); utf8.RuneCountInString(p) > minPieceLength {
		pieces = append(pieces, p)
	}
	if len(pieces) == 0 {
		return sanitizeFallback
	}
	// A piece can clear the length filter and still be all boundary runes,
	// leaving nothing after the final trim.
	if cleaned := trimBoundary(strings.Join(pieces, "\n\n")); cleaned != "" {
		return cleaned
	}
	return sanitizeFallback
}

// balancedEnd scans s for the end of the JSON object starting at its first
// '{'. Braces are tracked only outside quoted strings; a '"' toggles the
// in-string state unless escaped, and a backslash escapes exactly the next
// character. Returns the index just past the closing brace, or ok=false
// when the object never closes within s.
func balancedEnd(s string) (int, bool) {
	var (
		depth    int
		opened   bool
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch s[i] {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
				opened = true
			}
		case '}':
			if !inString {
				depth--
				if opened && depth == 0 {
					return i + 1, true
				}
			}
		}
	}
	return 0, false
}

// patternEnd finds an object boundary by literal pattern search. Used only
// when balancedEnd fails, i.e. the embedded JSON is truncated or malformed.
// Returns the index just past the first occurrence of the highest-priority
// pattern present.
func patternEnd(s string) (int, bool) {
	for _, pattern := range closingPatterns {
		if i := strings.Index(s, pattern); i >= 0 {
			return i + len(pattern), true
		}
	}
	return 0, false
}

// trimBoundary strips leading and trailing runs of closing braces,
// brackets, commas, and whitespace.
func trimBoundary(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == '}' || r == ']' || r == ',' || unicode.IsSpace(r)
	})
}
