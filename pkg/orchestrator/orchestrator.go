package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/vanilla"
	"github.com/goliatone/go-leadform/pkg/themes"
	"github.com/goliatone/go-leadform/pkg/uischema"
	"github.com/goliatone/go-leadform/pkg/widgets"
)

const defaultRendererName = "vanilla"

// FormBuilder turns an intake snapshot into a form model.
type FormBuilder interface {
	Build(formID string, snap intake.Snapshot) model.FormModel
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(builder FormBuilder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers a Transformer that can mutate form models
// after building but before decorators run.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithUIDecorators registers decorators that run after the UI schema copy is
// applied and before widgets are resolved.
func WithUIDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithUISchemaFS supplies an fs.FS holding UI schema documents. Pass nil to
// disable the embedded defaults.
func WithUISchemaFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.uiSchemaFS = fsys
		o.uiSchemaSpecified = true
	}
}

// WithUISchemaStore installs an already loaded store. It takes precedence over
// WithUISchemaFS.
func WithUISchemaStore(store *uischema.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
		o.uiSchemaSpecified = true
	}
}

// WithWidgetRegistry replaces the widget registry used to resolve controls.
// Pass nil to skip widget resolution.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(o *Orchestrator) {
		o.widgets = registry
		o.widgetsSpecified = true
	}
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeDefaults sets the theme and variant used when a request names none.
func WithThemeDefaults(name, variant string) Option {
	return func(o *Orchestrator) {
		o.themeName = name
		o.themeVariant = variant
	}
}

// WithThemeFallbacks sets the partials used when a theme selection does not
// override them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// Orchestrator coordinates the pipeline from intake snapshot to rendered
// output: build, transform, decorate, resolve widgets, select a theme and
// render. Missing dependencies fall back to the built-in implementations.
type Orchestrator struct {
	mu sync.RWMutex

	builder           FormBuilder
	registry          *render.Registry
	defaultRenderer   string
	transformer       Transformer
	decorators        []model.Decorator
	store             *uischema.Store
	uiSchemaFS        fs.FS
	uiSchemaSpecified bool
	widgets           *widgets.Registry
	widgetsSpecified  bool

	themeSelector  theme.ThemeSelector
	themeName      string
	themeVariant   string
	themeFallbacks map[string]string

	initialiseErr error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render one form.
type Request struct {
	// FormID selects the UI schema document. Empty means model.DefaultFormID.
	FormID string

	// Snapshot carries the values, errors and selection flags to render.
	Snapshot intake.Snapshot

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant override the configured theme defaults.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request instructions such as hidden fields and
	// endpoints. A Theme set here bypasses the selector.
	RenderOptions render.RenderOptions
}

// Form builds and decorates the form model for req without rendering it.
func (o *Orchestrator) Form(ctx context.Context, req Request) (model.FormModel, error) {
	if ctx == nil {
		return model.FormModel{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if err := o.initialiseErr; err != nil {
		return model.FormModel{}, err
	}

	form := o.builder.Build(req.FormID, req.Snapshot)
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &form); err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: transform form: %w", err)
		}
	}
	if err := model.Decorate(&form, o.pipeline()...); err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: decorate form: %w", err)
	}
	return form, nil
}

// Render executes the full pipeline and returns the rendered bytes (HTML for
// the default vanilla renderer).
func (o *Orchestrator) Render(ctx context.Context, req Request) ([]byte, error) {
	form, err := o.Form(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	if options.Theme == nil {
		cfg, err := o.themeConfig(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		options.Theme = cfg
	}

	output, err := renderer.Render(ctx, form, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Renderer returns the renderer Render would use for name.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	return o.rendererFor(name)
}

// SetUISchemaStore swaps the UI schema store. It is safe to call while
// requests are in flight, which lets uischema.Watch hot-reload copy.
func (o *Orchestrator) SetUISchemaStore(store *uischema.Store) {
	o.mu.Lock()
	o.store = store
	o.mu.Unlock()
}

// UISchemaStore returns the store currently in effect.
func (o *Orchestrator) UISchemaStore() *uischema.Store {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.store
}

// pipeline lists decorators in the order they run: UI schema copy, caller
// decorators, then widget resolution so explicit widget hints win.
func (o *Orchestrator) pipeline() []model.Decorator {
	out := make([]model.Decorator, 0, len(o.decorators)+2)
	if store := o.UISchemaStore(); store != nil && !store.Empty() {
		out = append(out, uischema.NewDecorator(store))
	}
	out = append(out, o.decorators...)
	if o.widgets != nil {
		out = append(out, o.widgets)
	}
	return out
}

func (o *Orchestrator) themeConfig(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	if name == "" {
		name = o.themeName
	}
	if variant == "" && name == o.themeName {
		variant = o.themeVariant
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return themes.RendererConfig(selection, o.themeFallbacks), nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.widgets == nil && !o.widgetsSpecified {
		o.widgets = widgets.NewRegistry()
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = defaultThemeFallbacks()
	}
	o.ensureUISchema()
}

func (o *Orchestrator) ensureUISchema() {
	if o.store != nil {
		return
	}
	if !o.uiSchemaSpecified {
		o.uiSchemaFS = uischema.EmbeddedFS()
	}
	if o.uiSchemaFS == nil {
		return
	}

	store, err := uischema.LoadFS(o.uiSchemaFS)
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: load ui schema: %w", err)
		return
	}
	o.store = store
}

func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		themes.PagePartial: themes.PageTemplate,
	}
}
