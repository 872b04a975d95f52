package chat

import "strings"

// Keyword sets for intent routing. Technical terms take precedence over
// product-search terms: a question about the spec sheet of an orderable
// product still needs no live catalog lookup.
var (
	technicalKeywords = []string{
		"attenuation", "mhz", "ghz", "bandwidth", "poe++", "temperature",
		"ansi", "tia", "ieee", "specifications", "modal bandwidth",
		"om3", "om4", "gbps", "meters", "rise", "ambient",
	}

	productSearchKeywords = []string{
		"available", "inventory", "stock", "buy", "purchase", "catalog",
		"show me", "do you have", "find cable", "search for", "browse",
	}

	cableDomainKeywords = []string{"cable", "wire", "connector", "adapter"}
)

// NeedsProductSearch reports whether a message likely requires a live
// catalog lookup rather than static technical knowledge.
//
// The result only annotates the outgoing prompt and response metadata.
// The backend agent decides independently whether to actually search.
func NeedsProductSearch(message string) bool {
	lower := strings.ToLower(message)

	if containsAny(lower, technicalKeywords) {
		return false
	}
	if containsAny(lower, productSearchKeywords) {
		return true
	}
	return containsAny(lower, cableDomainKeywords)
}

// containsAny reports whether s contains any of the given substrings.
// Callers are expected to lowercase s first.
func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
