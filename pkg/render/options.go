package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form model pipeline.
type RenderOptions struct {
	// HiddenFields are emitted as hidden inputs inside the form, for example the
	// session id or a CSRF token. Use MergeHiddenFields to build the map.
	HiddenFields map[string]string
	// Endpoints tells the browser runtime where to send input events and the
	// submit trigger. Empty endpoints produce a static form.
	Endpoints Endpoints
	// Theme carries the resolved go-theme configuration (tokens, CSS variables,
	// partial overrides, asset URLs).
	Theme *theme.RendererConfig
	// Fragment renders only the form markup without the surrounding document.
	Fragment bool
}

// Endpoints are the URLs the rendered form talks to.
type Endpoints struct {
	Events string
	Submit string
	Assets string
}

// Static reports whether no runtime endpoints are configured.
func (e Endpoints) Static() bool {
	return e.Events == "" && e.Submit == ""
}
