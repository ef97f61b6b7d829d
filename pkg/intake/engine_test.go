package intake

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/validation"
)

func TestNewEngineDefaults(t *testing.T) {
	e := New()

	want := State{
		BudgetMin: 200000,
		BudgetMax: 5000000,
		Purpose:   PurposeResidence,
	}
	if diff := cmp.Diff(want, e.State(), cmp.AllowUnexported(Choice{})); diff != "" {
		t.Fatalf("default state mismatch (-want +got):\n%s", diff)
	}
	if !e.Errors().Empty() {
		t.Fatalf("expected no errors, got %+v", e.Errors())
	}
	if !e.State().SquareMeters.IsNone() || !e.State().Rooms.IsNone() {
		t.Fatalf("expected empty chip groups")
	}
}

func TestSetTextAcceptsLetters(t *testing.T) {
	for _, f := range TextFields() {
		t.Run(string(f), func(t *testing.T) {
			e := New()
			inputs := []string{"Tel Aviv", "תל אביב", "רמת-גן, \"מרכז\"", "O'Neil.", ""}
			for _, input := range inputs {
				out, err := e.SetText(f, input)
				if err != nil {
					t.Fatalf("set %q: %v", input, err)
				}
				if !out.Committed || !out.Result.Valid {
					t.Fatalf("expected %q to commit, got %+v", input, out)
				}
				got, _ := e.State().Text(f)
				if got != input {
					t.Fatalf("stored %q, want %q", got, input)
				}
				if e.Errors().Has(f) {
					t.Fatalf("unexpected error after %q", input)
				}
			}
		})
	}
}

func TestSetTextRejectsAndReverts(t *testing.T) {
	for _, f := range TextFields() {
		t.Run(string(f), func(t *testing.T) {
			e := New()
			if _, err := e.SetText(f, "חיפה"); err != nil {
				t.Fatalf("seed: %v", err)
			}
			for _, input := range []string{"חיפה1", "123", "a_b", "שלום!"} {
				out, err := e.SetText(f, input)
				if err != nil {
					t.Fatalf("set %q: %v", input, err)
				}
				if out.Committed {
					t.Fatalf("expected %q to be rejected", input)
				}
				got, _ := e.State().Text(f)
				if got != "חיפה" {
					t.Fatalf("value changed to %q after rejected %q", got, input)
				}
				msg, ok := e.Error(f)
				if !ok || msg != validation.MessageLettersOnly {
					t.Fatalf("error = %q (%v), want letters-only message", msg, ok)
				}
			}

			if _, err := e.SetText(f, "חיפה"); err != nil {
				t.Fatalf("recover: %v", err)
			}
			if e.Errors().Has(f) {
				t.Fatalf("expected error to clear once input passes")
			}
		})
	}
}

func TestSetTextUnsupportedField(t *testing.T) {
	e := New()
	before := e.Snapshot()

	for _, f := range []Field{FieldEmail, FieldPhone, FieldRooms, FieldBudgetMin, Field("nope")} {
		_, err := e.SetText(f, "abc")
		if !errors.Is(err, ErrUnsupportedField) {
			t.Fatalf("SetText(%q) error = %v, want ErrUnsupportedField", f, err)
		}
	}
	if diff := cmp.Diff(before, e.Snapshot(), cmp.AllowUnexported(Choice{})); diff != "" {
		t.Fatalf("state changed (-before +after):\n%s", diff)
	}
}

func TestSetTextIdempotent(t *testing.T) {
	once := New()
	twice := New()

	for _, input := range []string{"נתניה", "abc1"} {
		if _, err := once.SetText(FieldLocation, input); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 2; i++ {
			if _, err := twice.SetText(FieldLocation, input); err != nil {
				t.Fatal(err)
			}
		}
		if diff := cmp.Diff(once.Snapshot(), twice.Snapshot(), cmp.AllowUnexported(Choice{})); diff != "" {
			t.Fatalf("applying %q twice differs (-once +twice):\n%s", input, diff)
		}
	}
}

func TestSetPhone(t *testing.T) {
	e := New()

	out := e.SetPhone("0501234567")
	if !out.Committed || e.State().Phone != "0501234567" || e.Errors().Has(FieldPhone) {
		t.Fatalf("expected digits to commit cleanly, got %+v state=%q", out, e.State().Phone)
	}

	for _, input := range []string{"050-1234567", "+972", "05O", " 050"} {
		out := e.SetPhone(input)
		if out.Committed {
			t.Fatalf("expected %q to be rejected", input)
		}
		if e.State().Phone != "0501234567" {
			t.Fatalf("phone changed to %q after %q", e.State().Phone, input)
		}
		if msg, _ := e.Error(FieldPhone); msg != validation.MessageDigitsOnly {
			t.Fatalf("error = %q, want digits-only message", msg)
		}
	}

	if out := e.SetPhone(""); !out.Committed || e.State().Phone != "" {
		t.Fatalf("expected empty phone to commit, got %+v", out)
	}
	if e.Errors().Has(FieldPhone) {
		t.Fatalf("expected error cleared after empty input")
	}
}

func TestSetEmailCommitsThenFlags(t *testing.T) {
	cases := []struct {
		input     string
		wantError bool
	}{
		{input: "notanemail", wantError: true},
		{input: "a@b", wantError: true},
		{input: "a b@c.d", wantError: true},
		{input: "", wantError: false},
		{input: "test@example.com", wantError: false},
		{input: "שם@דומיין.ישראל", wantError: false},
	}

	e := New()
	for _, tc := range cases {
		out := e.SetEmail(tc.input)
		if !out.Committed {
			t.Fatalf("email %q was not committed", tc.input)
		}
		if e.State().Email != tc.input {
			t.Fatalf("stored %q, want %q", e.State().Email, tc.input)
		}
		msg, has := e.Error(FieldEmail)
		if has != tc.wantError {
			t.Fatalf("email %q: has error = %v, want %v", tc.input, has, tc.wantError)
		}
		if has && msg != validation.MessageInvalidEmail {
			t.Fatalf("email %q: message = %q", tc.input, msg)
		}
	}
}

func TestToggleChips(t *testing.T) {
	e := New()

	for _, v := range SquareMeterOptions() {
		if _, err := e.ToggleSquareMeters(v); err != nil {
			t.Fatalf("toggle %d: %v", v, err)
		}
		if !e.IsSelected(FieldSquareMeters, v) {
			t.Fatalf("expected %d selected", v)
		}
		if _, err := e.ToggleSquareMeters(v); err != nil {
			t.Fatalf("toggle %d again: %v", v, err)
		}
		if !e.State().SquareMeters.IsNone() {
			t.Fatalf("expected toggle twice to clear, got %s", e.State().SquareMeters)
		}
	}

	if _, err := e.ToggleRooms(2); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ToggleRooms(5); err != nil {
		t.Fatal(err)
	}
	if got, _ := e.State().Rooms.Value(); got != 5 {
		t.Fatalf("rooms = %d, want 5", got)
	}
	if e.IsSelected(FieldRooms, 2) {
		t.Fatalf("expected 2 to be deselected")
	}
}

func TestToggleRoomsScenario(t *testing.T) {
	e := New()
	steps := []struct {
		value int
		want  string
	}{
		{3, "3"},
		{4, "4"},
		{4, "none"},
	}
	for _, step := range steps {
		if _, err := e.ToggleRooms(step.value); err != nil {
			t.Fatalf("toggle %d: %v", step.value, err)
		}
		if got := e.State().Rooms.String(); got != step.want {
			t.Fatalf("after %d rooms = %s, want %s", step.value, got, step.want)
		}
	}
}

func TestToggleUnknownOption(t *testing.T) {
	e := New()
	if _, err := e.ToggleSquareMeters(100); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if _, err := e.ToggleRooms(7); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if _, err := e.Toggle(FieldPurpose, 1); !errors.Is(err, ErrUnsupportedField) {
		t.Fatalf("expected ErrUnsupportedField, got %v", err)
	}
	if !e.State().SquareMeters.IsNone() || !e.State().Rooms.IsNone() {
		t.Fatalf("rejected toggles must not change state")
	}
}

func TestSetBudgetMaxNoClamp(t *testing.T) {
	e := New()
	for _, v := range []int{3000000, 200000, 10, 9000000} {
		e.SetBudgetMax(v)
		if e.State().BudgetMax != v {
			t.Fatalf("budgetMax = %d, want %d", e.State().BudgetMax, v)
		}
		if e.State().BudgetMin != BudgetFloor {
			t.Fatalf("budgetMin moved to %d", e.State().BudgetMin)
		}
	}
}

func TestSetPurpose(t *testing.T) {
	e := New()
	if _, err := e.SetPurpose(PurposeRental); err != nil {
		t.Fatal(err)
	}
	if !e.IsSelected(FieldPurpose, "השכרה") || e.IsSelected(FieldPurpose, PurposeResidence) {
		t.Fatalf("purpose selection flags wrong: %q", e.State().Purpose)
	}
	if _, err := e.SetPurpose(Purpose("מסחרי")); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if e.State().Purpose != PurposeRental {
		t.Fatalf("purpose changed to %q", e.State().Purpose)
	}
}

func TestPreferencesDigitsScenario(t *testing.T) {
	e := New()
	if _, err := e.SetText(FieldPreferences, "123"); err != nil {
		t.Fatal(err)
	}
	if e.State().Preferences != "" {
		t.Fatalf("preferences = %q, want empty", e.State().Preferences)
	}
	if msg, _ := e.Error(FieldPreferences); msg != "ניתן להזין אותיות בלבד" {
		t.Fatalf("error = %q", msg)
	}
}

func TestEmailRecoveryScenario(t *testing.T) {
	e := New()
	e.SetEmail("notanemail")
	if e.State().Email != "notanemail" {
		t.Fatalf("email = %q", e.State().Email)
	}
	if msg, _ := e.Error(FieldEmail); msg != "כתובת אימייל לא תקינה" {
		t.Fatalf("error = %q", msg)
	}

	e.SetEmail("test@example.com")
	if e.State().Email != "test@example.com" {
		t.Fatalf("email = %q", e.State().Email)
	}
	if e.Errors().Has(FieldEmail) {
		t.Fatalf("expected error cleared")
	}
}

func TestWithRuleOverridesPolicy(t *testing.T) {
	e := New(
		WithRule(FieldPhone, Rule{Validate: validation.DigitsOnly(), Policy: PolicyCommit}),
		WithRule(FieldRooms, Rule{Policy: PolicyCommit}),
		nil,
	)
	out := e.SetPhone("abc")
	if !out.Committed || e.State().Phone != "abc" {
		t.Fatalf("expected commit policy to store the value, got %+v", out)
	}
	if !e.Errors().Has(FieldPhone) {
		t.Fatalf("expected the value to be flagged")
	}
	if _, ok := e.rules[FieldRooms]; ok {
		t.Fatalf("rule for a field without an error slot should be ignored")
	}
}

func TestSubmitAndReset(t *testing.T) {
	e := New()
	if _, err := e.SetText(FieldLocation, "ירושלים"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ToggleRooms(3); err != nil {
		t.Fatal(err)
	}
	e.SetEmail("bad")
	e.SetPhone("x")

	sub := e.Submit()
	if sub.Values.Location != "ירושלים" || !sub.Values.Rooms.Is(3) || sub.Values.Email != "bad" {
		t.Fatalf("unexpected submission values: %+v", sub.Values)
	}
	want := []validation.Issue{
		{Field: "email", Kind: validation.KindShape, Message: validation.MessageInvalidEmail},
		{Field: "phone", Kind: validation.KindFormat, Message: validation.MessageDigitsOnly},
	}
	if diff := cmp.Diff(want, sub.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}

	e.Reset()
	if diff := cmp.Diff(DefaultState(), e.State(), cmp.AllowUnexported(Choice{})); diff != "" {
		t.Fatalf("reset state mismatch (-want +got):\n%s", diff)
	}
	if sub := e.Submit(); sub.Issues != nil {
		t.Fatalf("expected no issues after reset, got %+v", sub.Issues)
	}
}
