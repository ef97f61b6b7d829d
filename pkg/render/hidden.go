package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// SessionFieldName is the hidden input carrying the intake session id.
const SessionFieldName = "session_id"

// HiddenField is one hidden input rendered inside the form.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden formats value with fmt.Sprint.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken is Hidden under the backend's token input name.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SessionField binds the page to an intake session.
func SessionField(id string) HiddenField {
	return Hidden(SessionFieldName, strings.TrimSpace(id))
}

// MergeHiddenFields copies base and applies fields over it. Blank names are
// dropped and a nil map is returned when nothing is left.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for name, value := range base {
		put(out, name, value)
	}
	for _, field := range fields {
		put(out, field.Name, field.Value)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields orders fields by name so pages render deterministically.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	clean := MergeHiddenFields(fields)
	if clean == nil {
		return nil
	}
	names := slices.Sorted(maps.Keys(clean))

	out := make([]HiddenField, len(names))
	for i, name := range names {
		out[i] = HiddenField{Name: name, Value: clean[name]}
	}
	return out
}

func put(dst map[string]string, name, value string) {
	if name = strings.TrimSpace(name); name != "" {
		dst[name] = value
	}
}
