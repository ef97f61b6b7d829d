package intake

import (
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-leadform/pkg/validation"
)

var (
	// ErrUnsupportedField is returned when an entry point receives a field it
	// does not manage.
	ErrUnsupportedField = errors.New("intake: unsupported field")
	// ErrUnknownOption is returned when a chip or purpose value is outside the
	// field's option set.
	ErrUnknownOption = errors.New("intake: unknown option")
	// ErrInvalidValue is returned by Apply when an event carries a value of the
	// wrong type for its field.
	ErrInvalidValue = errors.New("intake: invalid value")
)

// Outcome reports what a single mutation did to its field.
type Outcome struct {
	Field     Field             `json:"field"`
	Committed bool              `json:"committed"`
	Result    validation.Result `json:"result"`
}

// Option customises an Engine.
type Option func(*Engine)

// WithRule replaces the validation rule of a validated field. Rules for
// fields without an error slot are ignored.
func WithRule(f Field, rule Rule) Option {
	return func(e *Engine) {
		if !IsValidated(f) {
			return
		}
		e.rules[f] = rule
	}
}

// Engine owns the value and error records of one form session.
type Engine struct {
	state  State
	errors Errors
	kinds  map[Field]validation.Kind
	rules  map[Field]Rule
}

// New constructs an engine seeded with DefaultState and DefaultRules.
func New(options ...Option) *Engine {
	e := &Engine{
		state: DefaultState(),
		kinds: make(map[Field]validation.Kind),
		rules: cloneRules(DefaultRules()),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// SetText validates input against the letters-only rule of a free-text field
// (location, preferences, dealbreakers). Valid input is committed and clears
// the error; invalid input leaves the stored value untouched and sets the
// error.
func (e *Engine) SetText(f Field, input string) (Outcome, error) {
	if !IsTextField(f) {
		return Outcome{Field: f}, fmt.Errorf("%w: %q does not accept free text", ErrUnsupportedField, f)
	}
	return e.validateAndStore(f, input), nil
}

// SetPhone validates input as digits only, reverting on failure.
func (e *Engine) SetPhone(input string) Outcome {
	return e.validateAndStore(FieldPhone, input)
}

// SetEmail always stores input, then flags it when it is non-empty and not
// shaped like an address.
func (e *Engine) SetEmail(input string) Outcome {
	return e.validateAndStore(FieldEmail, input)
}

func (e *Engine) validateAndStore(f Field, input string) Outcome {
	rule := e.rules[f]
	result := validation.Pass()
	if rule.Validate != nil {
		result = rule.Validate(input)
	}

	out := Outcome{Field: f, Result: result}
	if result.Valid || rule.Policy == PolicyCommit {
		e.state.setText(f, input)
		out.Committed = true
	}
	if result.Valid {
		e.errors.set(f, "")
		delete(e.kinds, f)
	} else {
		e.errors.set(f, result.Message)
		e.kinds[f] = result.Kind
	}
	return out
}

// ToggleSquareMeters selects v, or clears the group when v is already selected.
func (e *Engine) ToggleSquareMeters(v int) (Outcome, error) {
	return e.toggle(FieldSquareMeters, &e.state.SquareMeters, v)
}

// ToggleRooms selects v, or clears the group when v is already selected.
func (e *Engine) ToggleRooms(v int) (Outcome, error) {
	return e.toggle(FieldRooms, &e.state.Rooms, v)
}

// Toggle dispatches to the chip group named by f.
func (e *Engine) Toggle(f Field, v int) (Outcome, error) {
	switch f {
	case FieldSquareMeters:
		return e.ToggleSquareMeters(v)
	case FieldRooms:
		return e.ToggleRooms(v)
	default:
		return Outcome{Field: f}, fmt.Errorf("%w: %q is not a chip group", ErrUnsupportedField, f)
	}
}

func (e *Engine) toggle(f Field, target *Choice, v int) (Outcome, error) {
	if !slices.Contains(Options(f), v) {
		return Outcome{Field: f}, fmt.Errorf("%w: %d is not a %s option", ErrUnknownOption, v, f)
	}
	*target = target.Toggle(v)
	return Outcome{Field: f, Committed: true, Result: validation.Pass()}, nil
}

// SetBudgetMax stores the upper budget bound as given. Callers constrain the
// value to the slider domain; the engine does not clamp.
func (e *Engine) SetBudgetMax(v int) Outcome {
	e.state.BudgetMax = v
	return Outcome{Field: FieldBudgetMax, Committed: true, Result: validation.Pass()}
}

// SetPurpose stores one of the known purposes.
func (e *Engine) SetPurpose(p Purpose) (Outcome, error) {
	if !p.Valid() {
		return Outcome{Field: FieldPurpose}, fmt.Errorf("%w: %q is not a purpose", ErrUnknownOption, p)
	}
	e.state.Purpose = p
	return Outcome{Field: FieldPurpose, Committed: true, Result: validation.Pass()}, nil
}

// State returns a copy of the value record.
func (e *Engine) State() State {
	return e.state
}

// Errors returns a copy of the error record.
func (e *Engine) Errors() Errors {
	return e.errors
}

// Error returns the message currently held for f.
func (e *Engine) Error(f Field) (string, bool) {
	return e.errors.Get(f)
}

// IsSelected reports whether option is the active value of an enum field.
// Chip groups take an int; purpose accepts a Purpose or string.
func (e *Engine) IsSelected(f Field, option any) bool {
	return isSelected(e.state, f, option)
}

// Reset restores the defaults of both records. Rules are kept.
func (e *Engine) Reset() {
	e.state = DefaultState()
	e.errors = Errors{}
	clear(e.kinds)
}

// Submission is the record handed to an external transport when the form is
// submitted.
type Submission struct {
	Values State              `json:"values"`
	Issues []validation.Issue `json:"issues,omitempty"`
}

// Submit ends the session from the engine's point of view. No validation gate
// applies and nothing is sent; the current record is returned for whichever
// collaborator owns delivery.
func (e *Engine) Submit() Submission {
	return Submission{
		Values: e.state,
		Issues: e.issues(),
	}
}

func (e *Engine) issues() []validation.Issue {
	messages := e.errors.Map()
	if len(messages) == 0 {
		return nil
	}
	kinds := make(map[string]validation.Kind, len(e.kinds))
	for f, kind := range e.kinds {
		kinds[string(f)] = kind
	}
	return validation.Issues(messages, kinds)
}

func isSelected(s State, f Field, option any) bool {
	switch f {
	case FieldSquareMeters, FieldRooms:
		v, ok := intFrom(option)
		if !ok {
			return false
		}
		c, _ := s.Choice(f)
		return c.Is(v)
	case FieldPurpose:
		switch p := option.(type) {
		case Purpose:
			return s.Purpose == p
		case string:
			return s.Purpose == Purpose(p)
		}
	}
	return false
}
