package render

import (
	"context"

	"github.com/goliatone/go-leadform/pkg/model"
)

// Renderer converts a FormModel into a byte representation (HTML, text, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}

// RendererFunc adapts a plain function into a named Renderer.
type RendererFunc struct {
	RendererName string
	Type         string
	Fn           func(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}

func (r RendererFunc) Name() string        { return r.RendererName }
func (r RendererFunc) ContentType() string { return r.Type }

// Render calls Fn.
func (r RendererFunc) Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error) {
	return r.Fn(ctx, form, options)
}
