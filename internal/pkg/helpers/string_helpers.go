package helpers

import (
	"strings"
	"unicode"
)

// NormalizeID trims and lower-cases an employee, student or grade identifier.
func NormalizeID(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizeIDs applies NormalizeID to each value, dropping empty results and duplicates.
func NormalizeIDs(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	ids := make([]string, 0, len(values))
	for _, v := range values {
		id := NormalizeID(v)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// OptionalString trims s and returns nil when the result is empty.
func OptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// BaseID builds the first-initial + last-name prefix of generated identifiers.
func BaseID(firstName, lastName string) string {
	first := []rune(strings.TrimSpace(firstName))
	last := strings.Join(strings.Fields(lastName), "")
	if len(first) == 0 {
		return strings.ToLower(last)
	}
	return strings.ToLower(string(first[0]) + last)
}
