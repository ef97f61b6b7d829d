package template

import "io"

// TemplateRenderer is the seam HTML renderers use to execute page templates.
// When out writers are supplied the rendered output is also copied to each.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
}
