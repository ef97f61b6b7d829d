package validation

import (
	"sort"
	"strings"
)

// Issue represents a validation error with its owning field.
type Issue struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Issues converts a field → message map into a deterministic, field-sorted
// slice. Empty messages and blank field names are skipped.
func Issues(messages map[string]string, kinds map[string]Kind) []Issue {
	if len(messages) == 0 {
		return nil
	}
	fields := make([]string, 0, len(messages))
	for field, message := range messages {
		if strings.TrimSpace(field) == "" || strings.TrimSpace(message) == "" {
			continue
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)

	out := make([]Issue, 0, len(fields))
	for _, field := range fields {
		out = append(out, Issue{
			Field:   field,
			Kind:    kinds[field],
			Message: strings.TrimSpace(messages[field]),
		})
	}
	return out
}
