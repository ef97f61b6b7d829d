package tui

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		walk("", values, form.Add)
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		walk("", values, func(key, value string) {
			fmt.Fprintf(&b, "%s=%s\n", key, value)
		})
		return []byte(b.String()), nil
	default:
		return json.Marshal(values)
	}
}

// walk visits every leaf of value in key order. Nested keys are joined with
// dots and list items are indexed, so issues come out as "issues.email".
func walk(prefix string, value any, emit func(key, value string)) {
	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}
	switch v := value.(type) {
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(v)) {
			walk(join(key), v[key], emit)
		}
	case []any:
		for idx, item := range v {
			walk(fmt.Sprintf("%s[%d]", prefix, idx), item, emit)
		}
	case nil:
		if prefix != "" {
			emit(prefix, "")
		}
	default:
		if prefix != "" {
			emit(prefix, fmt.Sprint(v))
		}
	}
}
