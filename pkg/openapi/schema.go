package openapi

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/invopop/jsonschema"

	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/validation"
)

var (
	choiceType  = reflect.TypeOf(intake.Choice{})
	purposeType = reflect.TypeOf(intake.Purpose(""))
	fieldType   = reflect.TypeOf(intake.Field(""))
	kindType    = reflect.TypeOf(validation.Kind(""))
)

// SubmissionSchema reflects the JSON Schema of intake.Submission.
func SubmissionSchema() *jsonschema.Schema {
	s := reflector().Reflect(&intake.Submission{})
	s.Title = "Apartment search submission"
	if values, ok := s.Properties.Get("values"); ok && values != nil {
		constrainBudget(values)
	}
	return s
}

// EventSchema reflects the JSON Schema of intake.Event.
func EventSchema() *jsonschema.Schema {
	s := reflector().Reflect(&intake.Event{})
	s.Title = "Apartment search input event"
	return s
}

// MarshalSchema encodes s with indentation.
func MarshalSchema(s *jsonschema.Schema) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: encode schema: %w", err)
	}
	return data, nil
}

func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Mapper:         mapType,
	}
}

func mapType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case choiceType:
		return &jsonschema.Schema{
			Description: "Selected chip value, or null when nothing is selected.",
			OneOf: []*jsonschema.Schema{
				{Type: "integer"},
				{Type: "null"},
			},
		}
	case purposeType:
		enum := make([]any, 0, 3)
		for _, p := range intake.Purposes() {
			enum = append(enum, string(p))
		}
		return &jsonschema.Schema{Type: "string", Enum: enum}
	case fieldType:
		fields := intake.Fields()
		enum := make([]any, 0, len(fields))
		for _, f := range fields {
			enum = append(enum, string(f))
		}
		return &jsonschema.Schema{Type: "string", Enum: enum}
	case kindType:
		return &jsonschema.Schema{
			Type: "string",
			Enum: []any{string(validation.KindFormat), string(validation.KindShape)},
		}
	}
	return nil
}

func constrainBudget(values *jsonschema.Schema) {
	if values.Properties == nil {
		return
	}
	for _, name := range []intake.Field{intake.FieldBudgetMin, intake.FieldBudgetMax} {
		prop, ok := values.Properties.Get(string(name))
		if !ok || prop == nil {
			continue
		}
		prop.Minimum = json.Number(strconv.Itoa(intake.BudgetFloor))
		prop.Maximum = json.Number(strconv.Itoa(intake.BudgetCeiling))
		if name == intake.FieldBudgetMax {
			prop.MultipleOf = json.Number(strconv.Itoa(intake.BudgetStep))
		}
	}
}
