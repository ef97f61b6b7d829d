// Package leadform is the quick-start surface of the apartment-search intake
// form: an engine that owns the form state, and helpers that render it.
//
// Most callers mount components/apartmentsearch on an http.ServeMux; the
// functions here cover offline rendering and replaying recorded input.
package leadform

import (
	"context"
	"io"
	"io/fs"

	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/vanilla"
)

// RenderOptions aliases render.RenderOptions for callers that only import the
// root package.
type RenderOptions = render.RenderOptions

// Snapshot aliases the engine read model.
type Snapshot = intake.Snapshot

// NewEngine returns a form state engine with the default rules.
func NewEngine(options ...intake.Option) *intake.Engine {
	return intake.New(options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML renders snap with the vanilla renderer.
func RenderHTML(ctx context.Context, snap Snapshot, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Render(ctx, orchestrator.Request{
		Snapshot:      snap,
		Renderer:      "vanilla",
		RenderOptions: opts,
	})
}

// Replay applies newline-delimited JSON events to a fresh engine and returns
// the resulting snapshot.
func Replay(r io.Reader, options ...intake.Option) (Snapshot, error) {
	events, err := intake.DecodeEvents(r)
	if err != nil {
		return Snapshot{}, err
	}
	engine := intake.New(options...)
	if _, err := engine.ApplyAll(events); err != nil {
		return Snapshot{}, err
	}
	return engine.Snapshot(), nil
}

// AssetsFS exposes the stylesheet and browser runtime so Go applications can
// serve them without a build step.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(leadform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
