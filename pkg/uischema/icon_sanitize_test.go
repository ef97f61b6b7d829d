package uischema

import (
	"strings"
	"testing"
)

func TestSanitizeIconMarkupRemovesScripts(t *testing.T) {
	input := `  <svg viewBox="0 0 24 24" onload="alert(1)"><script>alert('x')</script><path d="M0 0h24v24H0z" onclick="x()"/></svg>`
	got := sanitizeIconMarkup(input)
	if got == "" {
		t.Fatalf("expected sanitized markup, got empty string")
	}
	for _, banned := range []string{"script", "onload", "onclick"} {
		if strings.Contains(got, banned) {
			t.Fatalf("expected %s to be removed, got %q", banned, got)
		}
	}
	if !strings.Contains(got, "<svg") || !strings.Contains(got, "<path") {
		t.Fatalf("expected svg/path elements to remain, got %q", got)
	}
}

func TestSanitizeIconMarkupEmpty(t *testing.T) {
	if got := SanitizeIcon("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := SanitizeIcon("<iframe src=x></iframe>"); got != "" {
		t.Fatalf("expected foreign markup to be dropped, got %q", got)
	}
}
