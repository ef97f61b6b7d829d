// Package template defines the template engine contract used by the HTML
// renderers. The gotemplate subpackage provides the pongo2-backed engine.
package template
