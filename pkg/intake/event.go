package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Event is a single named input event as it arrives from a transport: the
// field that changed and the raw value the control produced.
//
// Seq is an optional client ordering token. The engine ignores it; sessions
// use it to refuse events that arrive after a later one.
type Event struct {
	Field Field  `json:"field"`
	Value any    `json:"value"`
	Seq   uint64 `json:"seq,omitempty"`
}

// Apply routes ev to the entry point that owns its field. Values are coerced
// from their JSON representation; a value of the wrong type returns
// ErrInvalidValue and leaves both records untouched.
func (e *Engine) Apply(ev Event) (Outcome, error) {
	switch ev.Field {
	case FieldLocation, FieldPreferences, FieldDealbreakers:
		s, ok := stringFrom(ev.Value)
		if !ok {
			return invalid(ev)
		}
		return e.SetText(ev.Field, s)
	case FieldPhone:
		s, ok := stringFrom(ev.Value)
		if !ok {
			return invalid(ev)
		}
		return e.SetPhone(s), nil
	case FieldEmail:
		s, ok := stringFrom(ev.Value)
		if !ok {
			return invalid(ev)
		}
		return e.SetEmail(s), nil
	case FieldSquareMeters, FieldRooms:
		v, ok := intFrom(ev.Value)
		if !ok {
			return invalid(ev)
		}
		return e.Toggle(ev.Field, v)
	case FieldBudgetMax:
		v, ok := intFrom(ev.Value)
		if !ok {
			return invalid(ev)
		}
		return e.SetBudgetMax(v), nil
	case FieldPurpose:
		s, ok := ev.Value.(string)
		if !ok {
			return invalid(ev)
		}
		return e.SetPurpose(Purpose(s))
	default:
		return Outcome{Field: ev.Field}, fmt.Errorf("%w: %q", ErrUnsupportedField, ev.Field)
	}
}

// ApplyAll applies events in order and stops at the first error. The index of
// the failing event is included in the error.
func (e *Engine) ApplyAll(events []Event) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(events))
	for i, ev := range events {
		out, err := e.Apply(ev)
		if err != nil {
			return outcomes, fmt.Errorf("intake: event %d: %w", i, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

func invalid(ev Event) (Outcome, error) {
	return Outcome{Field: ev.Field}, fmt.Errorf("%w: %T for %q", ErrInvalidValue, ev.Value, ev.Field)
}

func stringFrom(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	default:
		return "", false
	}
}

func intFrom(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt || n >= math.MaxInt {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// DecodeEvents reads newline-delimited JSON events. Blank lines are skipped.
// Numbers are decoded as json.Number so chip and budget values keep their
// integer form.
func DecodeEvents(r io.Reader) ([]Event, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var events []Event
	for {
		var ev Event
		err := dec.Decode(&ev)
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, fmt.Errorf("intake: decode event %d: %w", len(events), err)
		}
		events = append(events, ev)
	}
}
