package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/goliatone/go-leadform/pkg/intake"
)

// Engine returns an intake engine with events already applied. Any event that
// fails to apply aborts the test.
func Engine(t *testing.T, events ...intake.Event) *intake.Engine {
	t.Helper()

	e := intake.New()
	if _, err := e.ApplyAll(events); err != nil {
		t.Fatalf("apply events: %v", err)
	}
	return e
}

// Snapshot is shorthand for Engine(t, events...).Snapshot().
func Snapshot(t *testing.T, events ...intake.Event) intake.Snapshot {
	t.Helper()
	return Engine(t, events...).Snapshot()
}

// MustDecodeJSON unmarshals data into a fresh T.
func MustDecodeJSON[T any](t *testing.T, data []byte) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode json: %v\n%s", err, data)
	}
	return out
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns the result
// alongside what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
