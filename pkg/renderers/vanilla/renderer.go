package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
	rendertemplate "github.com/goliatone/go-leadform/pkg/render/template"
	gotemplate "github.com/goliatone/go-leadform/pkg/render/template/gotemplate"
)

const (
	// PageTemplate is the default page template inside TemplatesFS.
	PageTemplate = "templates/form.tmpl"
	// PagePartial is the theme partial key that overrides PageTemplate.
	PagePartial = "forms.page"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	blockClass       string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithBlockClass replaces the "apartment-form" BEM block used for every class.
func WithBlockClass(block string) Option {
	return func(cfg *config) {
		cfg.blockClass = block
	}
}

// Renderer produces the RTL HTML page for an intake form.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	fields    fieldRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		fields:    fieldRenderer{chrome: newChrome(cfg.blockClass)},
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields, err := r.fields.renderFields(form.Fields)
	if err != nil {
		return nil, err
	}

	c := r.fields.chrome
	hidden := options.HiddenFields
	assets := resolveAssets(options)

	data := map[string]any{
		"form":         form,
		"fields_html":  fields,
		"actions_html": r.fields.renderActions(form.Actions),
		"hidden":       render.SortedHiddenFields(hidden),
		"session_id":   hidden[render.SessionFieldName],
		"events_url":   options.Endpoints.Events,
		"submit_url":   options.Endpoints.Submit,
		"fragment":     options.Fragment,
		"page_title":   strings.Join(form.Title, " "),
		"issues":       strconv.Itoa(form.Issues),
		"classes": map[string]string{
			"wrapper": c.wrapper(),
			"form":    c.form(),
			"title":   c.element(ElementTitle),
		},
		"stylesheet_url": assets.stylesheetURL,
		"inline_css":     assets.inlineCSS,
		"script_url":     assets.scriptURL,
		"inline_script":  assets.inlineScript,
		"theme":          buildThemeContext(options.Theme),
	}

	result, err := r.templates.RenderTemplate(pageTemplate(options.Theme), data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func pageTemplate(cfg *theme.RendererConfig) string {
	if cfg != nil && cfg.Partials != nil {
		if candidate := strings.TrimSpace(cfg.Partials[PagePartial]); candidate != "" {
			return candidate
		}
	}
	return PageTemplate
}

type pageAssets struct {
	stylesheetURL string
	inlineCSS     string
	scriptURL     string
	inlineScript  string
}

// resolveAssets prefers theme asset URLs, then the configured assets endpoint,
// and finally inlines the embedded files. The runtime script is only included
// when the form is bound to an events endpoint.
func resolveAssets(options render.RenderOptions) pageAssets {
	var out pageAssets
	resolve := assetResolver(options)

	if resolve != nil {
		out.stylesheetURL = resolve(StylesheetName)
	}
	if out.stylesheetURL == "" {
		out.inlineCSS = defaultStylesheet()
	}

	if options.Endpoints.Events == "" {
		return out
	}
	if resolve != nil {
		out.scriptURL = resolve(RuntimeScriptName)
	}
	if out.scriptURL == "" {
		out.inlineScript = defaultRuntimeScript()
	}
	return out
}

// assetResolver chains the theme resolver with the assets endpoint. A
// resolver returning "" defers to the next one.
func assetResolver(options render.RenderOptions) func(string) string {
	var chain []func(string) string
	if options.Theme != nil && options.Theme.AssetURL != nil {
		chain = append(chain, options.Theme.AssetURL)
	}
	if prefix := strings.TrimRight(strings.TrimSpace(options.Endpoints.Assets), "/"); prefix != "" {
		chain = append(chain, func(name string) string {
			return prefix + "/" + name
		})
	}
	if len(chain) == 0 {
		return nil
	}
	return func(name string) string {
		for _, resolve := range chain {
			if url := resolve(name); url != "" {
				return url
			}
		}
		return ""
	}
}

type rendererTheme struct {
	Name         string            `json:"name,omitempty"`
	Variant      string            `json:"variant,omitempty"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"cssVars,omitempty"`
	CSSVarsStyle string            `json:"css_vars_style,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	ctx := rendererTheme{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	return ctx
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		value := vars[key]
		if strings.ContainsAny(key+value, "<>{};") {
			continue
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
