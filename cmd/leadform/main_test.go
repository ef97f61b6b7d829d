package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/validation"
)

func TestReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	data := `{"field":"location","value":"חיפה"}
{"field":"location","value":"חיפה1"}

{"field":"rooms","value":4}
{"field":"email","value":"nope"}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write events: %v", err)
	}

	snap, err := replay(path)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if snap.Values.Location != "חיפה" {
		t.Fatalf("rejected keystroke should revert, got %q", snap.Values.Location)
	}
	if !snap.Selected(intake.FieldRooms, 4) {
		t.Fatalf("expected rooms=4 selected")
	}
	if msg, _ := snap.Errors.Get(intake.FieldEmail); msg != validation.MessageInvalidEmail {
		t.Fatalf("expected email error, got %q", msg)
	}
}

func TestReplay_UnsupportedField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	if err := os.WriteFile(path, []byte(`{"field":"budgetMin","value":1}`+"\n"), 0o644); err != nil {
		t.Fatalf("write events: %v", err)
	}
	if _, err := replay(path); err == nil {
		t.Fatalf("expected unsupported field error")
	}
}

func TestAssetsPath(t *testing.T) {
	cases := map[string]string{
		"":         "/assets",
		"/":        "/assets",
		"/intake/": "/intake/assets",
		"intake":   "/intake/assets",
	}
	for base, want := range cases {
		if got := assetsPath(base); got != want {
			t.Fatalf("assetsPath(%q) = %q, want %q", base, got, want)
		}
	}
}
