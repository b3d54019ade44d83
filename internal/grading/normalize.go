package grading

import "strings"

// NormalizeText lowercases and collapses all whitespace runs so that
// free-text answers compare on content only.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// answersMatch compares a student answer against the key after
// normalization. An empty student answer never matches.
func answersMatch(student, key string) bool {
	normalized := NormalizeText(student)
	if normalized == "" {
		return false
	}
	return normalized == NormalizeText(key)
}

// setsMatch reports set equality between selected options and the
// answer key, ignoring order, case and surrounding whitespace. Subsets
// and supersets do not match; there is no per-item partial credit.
func setsMatch(selected, key []string) bool {
	if len(selected) == 0 || len(selected) != len(key) {
		return false
	}

	keySet := make(map[string]bool, len(key))
	for _, k := range key {
		keySet[NormalizeText(k)] = true
	}
	if len(keySet) != len(key) {
		return false
	}

	seen := make(map[string]bool, len(selected))
	for _, s := range selected {
		normalized := NormalizeText(s)
		if !keySet[normalized] || seen[normalized] {
			return false
		}
		seen[normalized] = true
	}
	return true
}
