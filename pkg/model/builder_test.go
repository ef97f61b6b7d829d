package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/intake"
)

func TestBuildDefaultSnapshot(t *testing.T) {
	form := NewBuilder().Build("", intake.New().Snapshot())

	if form.ID != DefaultFormID {
		t.Fatalf("form id = %q", form.ID)
	}
	var names []string
	for _, f := range form.Fields {
		names = append(names, f.Name)
	}
	want := []string{"location", "squareMeters", "rooms", "budgetMax", "purpose", "preferences", "dealbreakers", "phone", "email"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if form.Issues != 0 {
		t.Fatalf("issues = %d", form.Issues)
	}

	budget, _ := form.Field("budgetMax")
	if budget.Bounds == nil || budget.Bounds.Min != 200000 || budget.Bounds.Max != 5000000 || budget.Bounds.Step != 50000 {
		t.Fatalf("unexpected bounds: %+v", budget.Bounds)
	}
	if budget.Display != "$ 5,000,000 - $ 200,000" {
		t.Fatalf("display = %q", budget.Display)
	}
	if budget.Metadata["budget.min"] != "200000" {
		t.Fatalf("budget min metadata = %q", budget.Metadata["budget.min"])
	}

	purpose, _ := form.Field("purpose")
	if len(purpose.Options) != 3 || !purpose.Options[0].Selected || purpose.Options[0].Label != "מגורים" {
		t.Fatalf("unexpected purpose options: %+v", purpose.Options)
	}
}

func TestBuildReflectsSelectionAndErrors(t *testing.T) {
	e := intake.New()
	if _, err := e.ToggleSquareMeters(200); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ToggleRooms(6); err != nil {
		t.Fatal(err)
	}
	e.SetPhone("abc")

	form := NewBuilder().Build("apartment-search", e.Snapshot())

	sqm, _ := form.Field("squareMeters")
	last := sqm.Options[len(sqm.Options)-1]
	want := Option{Value: 200, Label: "+200", Selected: true, TestID: "sqm-chip-200"}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Fatalf("last chip mismatch (-want +got):\n%s", diff)
	}
	if sqm.Options[0].Selected {
		t.Fatalf("only one chip should be selected")
	}

	rooms, _ := form.Field("rooms")
	if rooms.TestID != "rooms-chips" || rooms.Options[5].Label != "+6" || rooms.Options[5].TestID != "room-chip-6" {
		t.Fatalf("unexpected room chips: %+v", rooms)
	}

	phone, _ := form.Field("phone")
	if !phone.HasError() || phone.Group != "contact" {
		t.Fatalf("unexpected phone field: %+v", phone)
	}
	if form.Issues != 1 {
		t.Fatalf("issues = %d, want 1", form.Issues)
	}
}

func TestWithLabeler(t *testing.T) {
	form := NewBuilder(WithLabeler(func(name string) string { return "[" + name + "]" })).
		Build("x", intake.New().Snapshot())
	if form.Fields[0].Label != "[location]" {
		t.Fatalf("label = %q", form.Fields[0].Label)
	}
	if got := defaultLabel("squareMeters"); got != "Square meters" {
		t.Fatalf("defaultLabel = %q", got)
	}
}
