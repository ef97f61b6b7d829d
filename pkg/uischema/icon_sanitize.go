package uischema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// iconPolicy admits inline SVG pictograms only: shapes, paths and their
// presentation attributes. Scripts, event handlers and foreign elements are
// dropped.
var iconPolicy = sync.OnceValue(func() *bluemonday.Policy {
	policy := bluemonday.StrictPolicy()
	shapes := []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse"}

	policy.AllowElements(append([]string{"svg", "g", "title", "desc"}, shapes...)...)
	policy.AllowAttrs(
		"xmlns", "viewBox", "width", "height", "fill", "stroke",
		"stroke-width", "aria-hidden", "role", "focusable", "class",
	).OnElements("svg")
	policy.AllowAttrs("fill", "class").OnElements("g")
	policy.AllowAttrs(
		"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
		"points", "rx", "ry", "fill", "stroke", "stroke-width",
		"stroke-linecap", "stroke-linejoin", "fill-rule", "clip-rule",
	).OnElements(shapes...)
	return policy
})

// SanitizeIcon returns raw with everything outside the icon policy removed.
func SanitizeIcon(raw string) string {
	return sanitizeIconMarkup(raw)
}

func sanitizeIconMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(iconPolicy().Sanitize(trimmed))
}
