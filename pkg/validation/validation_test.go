package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLettersOnly(t *testing.T) {
	validate := LettersOnly()

	accepted := []string{
		"",
		"תל אביב",
		"Tel Aviv",
		"שמעון, ירושלים",
		`it's "fine" - really.`,
		"מרפסת\tגדולה\n",
		"non breaking",
	}
	for _, value := range accepted {
		if got := validate(value); !got.Valid {
			t.Fatalf("expected %q to pass, got %+v", value, got)
		}
	}

	rejected := []string{"123", "רחוב 5", "a@b", "hello!", "semi;colon", "emoji 🙂", "مرحبا"}
	for _, value := range rejected {
		got := validate(value)
		want := Result{Kind: KindFormat, Message: MessageLettersOnly}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("unexpected result for %q (-want +got):\n%s", value, diff)
		}
	}
}

func TestDigitsOnly(t *testing.T) {
	validate := DigitsOnly()

	for _, value := range []string{"", "0", "0501234567"} {
		if got := validate(value); !got.Valid {
			t.Fatalf("expected %q to pass, got %+v", value, got)
		}
	}
	for _, value := range []string{"050-123", "+972", "12a", " 1", "١٢٣"} {
		got := validate(value)
		if got.Valid {
			t.Fatalf("expected %q to fail", value)
		}
		if got.Kind != KindFormat || got.Message != MessageDigitsOnly {
			t.Fatalf("unexpected failure for %q: %+v", value, got)
		}
	}
}

func TestEmailShape(t *testing.T) {
	validate := EmailShape()

	for _, value := range []string{"", "test@example.com", "a@b.c", "שלום@דוגמה.קום", "first.last+tag@sub.domain.io"} {
		if got := validate(value); !got.Valid {
			t.Fatalf("expected %q to pass, got %+v", value, got)
		}
	}
	for _, value := range []string{"notanemail", "a@b", "@b.c", "a@.c", "a b@c.d", "a@b@c.d", "a@b.c ", "a@b."} {
		got := validate(value)
		if got.Valid {
			t.Fatalf("expected %q to fail", value)
		}
		if got.Kind != KindShape || got.Message != MessageInvalidEmail {
			t.Fatalf("unexpected failure for %q: %+v", value, got)
		}
	}
}

func TestAllowEmptyNilValidator(t *testing.T) {
	if got := AllowEmpty(nil)("anything"); !got.Valid {
		t.Fatalf("expected nil validator to pass, got %+v", got)
	}
}

func TestIssuesSortedAndFiltered(t *testing.T) {
	got := Issues(map[string]string{
		"phone":    MessageDigitsOnly,
		"email":    " " + MessageInvalidEmail + " ",
		"location": "",
		"":         "orphan",
	}, map[string]Kind{
		"phone": KindFormat,
		"email": KindShape,
	})

	want := []Issue{
		{Field: "email", Kind: KindShape, Message: MessageInvalidEmail},
		{Field: "phone", Kind: KindFormat, Message: MessageDigitsOnly},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}
