package themes

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultName is the theme every form falls back to.
const DefaultName = "leadform"

// Partial keys understood by the HTML renderer.
const (
	PagePartial  = "forms.page"
	PageTemplate = "templates/form.tmpl"
)

// Asset keys understood by the HTML renderer. They double as file names.
const (
	StylesheetAsset = "apartment-form.css"
	RuntimeAsset    = "leadform-runtime.js"
)

// DefaultManifest returns the built-in theme. assetPrefix is the URL the host
// serves the embedded assets under, e.g. "/intake/assets".
func DefaultManifest(assetPrefix string) *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-primary":    "#2f5bea",
			"color-on-primary": "#ffffff",
			"color-error":      "#d93025",
			"color-surface":    "#ffffff",
			"color-background": "#f5f7fb",
			"color-text":       "#1c1c1c",
			"color-border":     "#d6dae3",
			"color-whatsapp":   "#25d366",
			"radius":           "16px",
			"radius-control":   "10px",
			"font-family":      `"Assistant", "Rubik", Arial, sans-serif`,
		},
		Templates: map[string]string{
			PagePartial: PageTemplate,
		},
		Assets: theme.Assets{
			Prefix: strings.TrimRight(assetPrefix, "/"),
			Files: map[string]string{
				StylesheetAsset: StylesheetAsset,
				RuntimeAsset:    RuntimeAsset,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-surface":    "#1b1f2a",
					"color-background": "#10131a",
					"color-text":       "#eef1f7",
					"color-border":     "#2e3446",
				},
			},
			"contrast": {
				Tokens: map[string]string{
					"color-primary": "#0033cc",
					"color-error":   "#b00020",
					"color-border":  "#1c1c1c",
				},
			},
		},
	}
}
