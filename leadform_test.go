package leadform

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-leadform/pkg/intake"
)

func TestAssetsFSContainsRuntime(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), "leadform-runtime.js")
	if err != nil {
		t.Fatalf("expected runtime script to be readable: %v", err)
	}
	if !strings.Contains(string(data), "data-events-url") {
		t.Fatalf("runtime script should bind forms by their events url")
	}
	if _, err := fs.ReadFile(AssetsFS(), "apartment-form.css"); err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
}

func TestReplayAndRender(t *testing.T) {
	snap, err := Replay(strings.NewReader(`{"field":"purpose","value":"השקעה"}
{"field":"budgetMax","value":1500000}
`))
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if snap.Values.Purpose != intake.Purpose("השקעה") || snap.Values.BudgetMax != 1500000 {
		t.Fatalf("unexpected snapshot: %+v", snap.Values)
	}

	out, err := RenderHTML(context.Background(), snap, RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "1,500,000") {
		t.Fatalf("expected formatted budget in output")
	}
}

func TestNewEngineStartsEmpty(t *testing.T) {
	if got := NewEngine().State(); got != intake.DefaultState() {
		t.Fatalf("unexpected initial state: %+v", got)
	}
}
