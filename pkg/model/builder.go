package model

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-leadform/pkg/intake"
)

// DefaultFormID identifies the apartment-search form.
const DefaultFormID = "apartment-search"

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler func(string) string
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// Builder converts intake snapshots into form models.
type Builder struct {
	opts builderOptions
}

// NewBuilder returns a Builder using the supplied options.
func NewBuilder(options ...BuilderOption) *Builder {
	cfg := builderOptions{labeler: defaultLabel}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.labeler == nil {
		cfg.labeler = defaultLabel
	}
	return &Builder{opts: cfg}
}

// Build lays out every rendered field of the form with the values, errors and
// selection flags captured in snap. budgetMin is not an input; it is exposed
// as metadata on the budget field.
func (b *Builder) Build(formID string, snap intake.Snapshot) FormModel {
	if strings.TrimSpace(formID) == "" {
		formID = DefaultFormID
	}
	form := FormModel{
		ID:     formID,
		TestID: formID + "-form",
	}

	order := 0
	for _, name := range intake.Fields() {
		if name == intake.FieldBudgetMin {
			continue
		}
		field := b.field(name, snap)
		field.Order = order
		order++
		if field.HasError() {
			form.Issues++
		}
		form.Fields = append(form.Fields, field)
	}
	return form
}

func (b *Builder) field(name intake.Field, snap intake.Snapshot) Field {
	field := Field{
		Name:  string(name),
		Label: b.opts.labeler(string(name)),
		Group: string(name),
	}
	if msg, ok := snap.Errors.Get(name); ok {
		field.Error = msg
	}

	switch name {
	case intake.FieldLocation:
		field.Type = FieldTypeText
		field.Value = snap.Values.Location
		field.TestID = "location-input"
	case intake.FieldPreferences, intake.FieldDealbreakers:
		field.Type = FieldTypeLongText
		field.Value, _ = snap.Values.Text(name)
		field.TestID = string(name) + "-textarea"
	case intake.FieldPhone:
		field.Type = FieldTypePhone
		field.Value = snap.Values.Phone
		field.Group = "contact"
		field.TestID = "phone-input"
	case intake.FieldEmail:
		field.Type = FieldTypeEmail
		field.Value = snap.Values.Email
		field.Group = "contact"
		field.TestID = "email-input"
	case intake.FieldSquareMeters, intake.FieldRooms:
		field.Type = FieldTypeChoice
		field.Value, _ = snap.Values.Value(name)
		prefix := chipPrefix(name)
		field.TestID = prefix + "-chips"
		if name == intake.FieldRooms {
			field.TestID = "rooms-chips"
		}
		field.Options = chipOptions(name, prefix, snap)
	case intake.FieldBudgetMax:
		field.Type = FieldTypeRange
		field.Value = snap.Values.BudgetMax
		field.Display = snap.BudgetLabel
		field.Bounds = &Bounds{Min: intake.BudgetFloor, Max: intake.BudgetCeiling, Step: intake.BudgetStep}
		field.Group = "budget"
		field.TestID = "budget-slider"
		field.Metadata = map[string]string{
			"budget.min": strconv.Itoa(snap.Values.BudgetMin),
		}
	case intake.FieldPurpose:
		field.Type = FieldTypeEnum
		field.Value = string(snap.Values.Purpose)
		field.TestID = "purpose-select"
		for _, opt := range snap.Options[intake.FieldPurpose] {
			label, _ := opt.Value.(string)
			field.Options = append(field.Options, Option{
				Value:    opt.Value,
				Label:    label,
				Selected: opt.Selected,
			})
		}
	}
	return field
}

func chipPrefix(name intake.Field) string {
	if name == intake.FieldSquareMeters {
		return "sqm"
	}
	return "room"
}

// chipOptions labels the last chip of a group "+N" since it stands for "N or
// more".
func chipOptions(name intake.Field, prefix string, snap intake.Snapshot) []Option {
	states := snap.Options[name]
	options := make([]Option, 0, len(states))
	for idx, state := range states {
		label := optionLabel(state.Value)
		if idx == len(states)-1 {
			label = "+" + label
		}
		options = append(options, Option{
			Value:    state.Value,
			Label:    label,
			Selected: state.Selected,
			TestID:   prefix + "-chip-" + optionLabel(state.Value),
		})
	}
	return options
}

func optionLabel(v any) string {
	switch value := v.(type) {
	case int:
		return strconv.Itoa(value)
	case string:
		return value
	default:
		return ""
	}
}

// defaultLabel turns a camelCase field name into a sentence-cased label.
func defaultLabel(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	for idx, r := range name {
		switch {
		case idx == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
