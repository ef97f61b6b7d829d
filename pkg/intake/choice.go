package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Choice is the state of a single-select chip group: either nothing is
// selected or exactly one value is. The zero value is "none".
type Choice struct {
	value int
	set   bool
}

// NoChoice returns the empty selection.
func NoChoice() Choice {
	return Choice{}
}

// Chosen returns a selection holding v.
func Chosen(v int) Choice {
	return Choice{value: v, set: true}
}

// Toggle applies the single transition rule of a chip group: selecting the
// active value clears the group, selecting anything else replaces it.
func (c Choice) Toggle(v int) Choice {
	if c.set && c.value == v {
		return NoChoice()
	}
	return Chosen(v)
}

// Value returns the selected value and whether one is set.
func (c Choice) Value() (int, bool) {
	return c.value, c.set
}

// Is reports whether v is the selected value.
func (c Choice) Is(v int) bool {
	return c.set && c.value == v
}

// IsNone reports whether nothing is selected.
func (c Choice) IsNone() bool {
	return !c.set
}

// String renders the selection for logs and text output.
func (c Choice) String() string {
	if !c.set {
		return "none"
	}
	return strconv.Itoa(c.value)
}

// MarshalJSON encodes the empty selection as null and a selection as a number.
func (c Choice) MarshalJSON() ([]byte, error) {
	if !c.set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(c.value)), nil
}

// UnmarshalJSON accepts null or an integer.
func (c *Choice) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = NoChoice()
		return nil
	}
	var v int
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return fmt.Errorf("intake: choice must be null or an integer: %w", err)
	}
	*c = Chosen(v)
	return nil
}
