package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
)

func stubRenderer(name string) render.Renderer {
	return render.RendererFunc{
		RendererName: name,
		Type:         "text/plain",
		Fn: func(_ context.Context, form model.FormModel, _ render.RenderOptions) ([]byte, error) {
			return []byte(name + ":" + form.ID), nil
		},
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubRenderer("vanilla"))
	reg.MustRegister(stubRenderer("json"))

	if err := reg.Register(stubRenderer("json")); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}
	if err := reg.Register(stubRenderer("")); err == nil {
		t.Fatalf("expected unnamed renderer to fail")
	}

	if diff := cmp.Diff([]string{"json", "vanilla"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has("vanilla") || reg.Has("preact") {
		t.Fatalf("unexpected Has results")
	}

	r, err := reg.Get("vanilla")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	out, err := r.Render(context.Background(), model.FormModel{ID: "f"}, render.RenderOptions{})
	if err != nil || string(out) != "vanilla:f" {
		t.Fatalf("render = %q, %v", out, err)
	}

	if _, err := reg.Get("missing"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestEndpointsStatic(t *testing.T) {
	if !(render.Endpoints{Assets: "/assets"}).Static() {
		t.Fatalf("assets-only endpoints should be static")
	}
	if (render.Endpoints{Events: "/e"}).Static() {
		t.Fatalf("events endpoint should not be static")
	}
}
