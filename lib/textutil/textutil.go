package textutil

import (
	"strings"
)

// Clean trims every fragment, drops the ones left empty and joins the rest
// with a single space. Fragments are expected in document order, as they
// come out of the text nodes of a parsed element.
func Clean(fragments []string) string {
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// ContainsAny reports whether s contains at least one of the substrings.
func ContainsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
