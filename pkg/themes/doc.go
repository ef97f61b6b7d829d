// Package themes holds the go-theme manifests of the intake form and derives
// the renderer configuration (tokens, CSS variables, partial overrides and
// asset URLs) for a selected theme and variant.
package themes
