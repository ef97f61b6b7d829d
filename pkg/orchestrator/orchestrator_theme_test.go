package orchestrator

import (
	"context"
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-leadform/pkg/intake"
	pkgmodel "github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/themes"
)

func TestOrchestrator_PassesThemeConfigToRenderer(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
	}

	selection := &theme.Selection{
		Theme:    "acme",
		Variant:  "custom-variant",
		Manifest: manifest,
	}

	selector := &stubThemeSelector{selection: selection}
	renderer := &captureRenderer{}

	orch := newCaptureOrchestrator(renderer, WithThemeSelector(selector))

	_, err := orch.Render(context.Background(), Request{
		Renderer:     renderer.Name(),
		ThemeName:    "custom-theme",
		ThemeVariant: "custom-variant",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if len(selector.calls) != 1 {
		t.Fatalf("expected selector called once, got %d", len(selector.calls))
	}
	if selector.calls[0].name != "custom-theme" || selector.calls[0].variant != "custom-variant" {
		t.Fatalf("unexpected selector args: %+v", selector.calls[0])
	}

	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != selection.Theme {
		t.Fatalf("theme name mismatch: want %s, got %s", selection.Theme, cfg.Theme)
	}
	if cfg.Variant != selection.Variant {
		t.Fatalf("theme variant mismatch: want %s, got %s", selection.Variant, cfg.Variant)
	}
	if cfg.AssetURL == nil {
		t.Fatalf("expected AssetURL resolver present")
	}
	if got := cfg.Partials[themes.PagePartial]; got != defaultThemeFallbacks()[themes.PagePartial] {
		t.Fatalf("partials not merged with fallbacks: want %s, got %s", defaultThemeFallbacks()[themes.PagePartial], got)
	}
	if cfg.Tokens["brand"] != manifest.Tokens["brand"] {
		t.Fatalf("tokens not propagated")
	}
	if cfg.CSSVars["--brand"] != manifest.Tokens["brand"] {
		t.Fatalf("css vars not derived from tokens")
	}
}

func TestOrchestrator_ThemeDefaultsFromCatalog(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
		Templates: map[string]string{
			themes.PagePartial: "themes/acme/page.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				themes.StylesheetAsset: "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Templates: map[string]string{
					"forms.footer": "themes/acme/dark/footer.tmpl",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						themes.RuntimeAsset: "runtime.dark.js",
					},
				},
			},
		},
	}

	catalog := themes.NewCatalog()
	if err := catalog.Register(manifest); err != nil {
		t.Fatalf("register manifest: %v", err)
	}

	renderer := &captureRenderer{}
	orch := newCaptureOrchestrator(renderer,
		WithThemeSelector(catalog),
		WithThemeDefaults("acme", "dark"),
	)

	if _, err := orch.Render(context.Background(), Request{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection: %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Partials[themes.PagePartial] != "themes/acme/page.tmpl" {
		t.Fatalf("expected base template override, got %s", cfg.Partials[themes.PagePartial])
	}
	if cfg.Partials["forms.footer"] != "themes/acme/dark/footer.tmpl" {
		t.Fatalf("expected variant template override, got %s", cfg.Partials["forms.footer"])
	}
	if cfg.Tokens["brand"] != "#654321" {
		t.Fatalf("tokens not merged with variant override, got %s", cfg.Tokens["brand"])
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css vars not derived from variant tokens, got %s", cfg.CSSVars["--brand"])
	}
	if got := cfg.AssetURL(themes.RuntimeAsset); got != "/assets/themes/acme/runtime.dark.js" {
		t.Fatalf("unexpected runtime asset url: %s", got)
	}
	if got := cfg.AssetURL(themes.StylesheetAsset); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet asset url: %s", got)
	}
}

func TestOrchestrator_ExplicitThemeBypassesSelector(t *testing.T) {
	selector := &stubThemeSelector{err: errors.New("should not be called")}
	renderer := &captureRenderer{}
	orch := newCaptureOrchestrator(renderer, WithThemeSelector(selector))

	explicit := &theme.RendererConfig{Theme: "inline"}
	_, err := orch.Render(context.Background(), Request{
		RenderOptions: render.RenderOptions{Theme: explicit},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(selector.calls) != 0 {
		t.Fatalf("selector should be skipped, got %d calls", len(selector.calls))
	}
	if renderer.options.Theme != explicit {
		t.Fatalf("explicit theme not forwarded")
	}
}

func TestOrchestrator_SelectorErrorIsWrapped(t *testing.T) {
	catalog, err := themes.NewDefaultCatalog("")
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	orch := newCaptureOrchestrator(&captureRenderer{}, WithThemeSelector(catalog))

	_, err = orch.Render(context.Background(), Request{ThemeName: "missing"})
	if !errors.Is(err, themes.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}

func newCaptureOrchestrator(renderer *captureRenderer, options ...Option) *Orchestrator {
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	base := []Option{
		WithModelBuilder(stubBuilder{form: pkgmodel.FormModel{ID: "stub"}}),
		WithRegistry(registry),
		WithDefaultRenderer(renderer.Name()),
		WithUISchemaFS(nil),
	}
	return New(append(base, options...)...)
}

type stubBuilder struct {
	form pkgmodel.FormModel
}

func (s stubBuilder) Build(string, intake.Snapshot) pkgmodel.FormModel {
	return s.form
}

type captureRenderer struct {
	options render.RenderOptions
}

func (r *captureRenderer) Name() string {
	return "capture"
}

func (r *captureRenderer) ContentType() string {
	return "text/plain"
}

func (r *captureRenderer) Render(_ context.Context, form pkgmodel.FormModel, opts render.RenderOptions) ([]byte, error) {
	r.options = opts
	return []byte(form.ID), nil
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}
