package intake

// State is the value record of one form session.
type State struct {
	Location     string  `json:"location"`
	SquareMeters Choice  `json:"squareMeters"`
	Rooms        Choice  `json:"rooms"`
	BudgetMin    int     `json:"budgetMin"`
	BudgetMax    int     `json:"budgetMax"`
	Purpose      Purpose `json:"purpose"`
	Preferences  string  `json:"preferences"`
	Dealbreakers string  `json:"dealbreakers"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
}

// DefaultState returns the record every session starts from.
func DefaultState() State {
	return State{
		BudgetMin: BudgetFloor,
		BudgetMax: BudgetCeiling,
		Purpose:   PurposeResidence,
	}
}

// Text returns the stored value of a string field.
func (s State) Text(f Field) (string, bool) {
	switch f {
	case FieldLocation:
		return s.Location, true
	case FieldPreferences:
		return s.Preferences, true
	case FieldDealbreakers:
		return s.Dealbreakers, true
	case FieldEmail:
		return s.Email, true
	case FieldPhone:
		return s.Phone, true
	case FieldPurpose:
		return string(s.Purpose), true
	default:
		return "", false
	}
}

// Choice returns the selection of a chip-group field.
func (s State) Choice(f Field) (Choice, bool) {
	switch f {
	case FieldSquareMeters:
		return s.SquareMeters, true
	case FieldRooms:
		return s.Rooms, true
	default:
		return Choice{}, false
	}
}

// Value returns the stored value of any field in its natural Go type. Empty
// chip groups are reported as nil.
func (s State) Value(f Field) (any, bool) {
	switch f {
	case FieldSquareMeters, FieldRooms:
		c, _ := s.Choice(f)
		if v, ok := c.Value(); ok {
			return v, true
		}
		return nil, true
	case FieldBudgetMin:
		return s.BudgetMin, true
	case FieldBudgetMax:
		return s.BudgetMax, true
	default:
		return s.Text(f)
	}
}

func (s *State) setText(f Field, value string) {
	switch f {
	case FieldLocation:
		s.Location = value
	case FieldPreferences:
		s.Preferences = value
	case FieldDealbreakers:
		s.Dealbreakers = value
	case FieldEmail:
		s.Email = value
	case FieldPhone:
		s.Phone = value
	}
}

// Errors is the parallel error record: one optional message per validated
// field. An empty string means the slot is clear.
type Errors struct {
	Location     string `json:"location,omitempty"`
	Preferences  string `json:"preferences,omitempty"`
	Dealbreakers string `json:"dealbreakers,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// Get returns the message held for f, if any.
func (e Errors) Get(f Field) (string, bool) {
	var msg string
	switch f {
	case FieldLocation:
		msg = e.Location
	case FieldPreferences:
		msg = e.Preferences
	case FieldDealbreakers:
		msg = e.Dealbreakers
	case FieldEmail:
		msg = e.Email
	case FieldPhone:
		msg = e.Phone
	}
	return msg, msg != ""
}

// Has reports whether f currently carries an error.
func (e Errors) Has(f Field) bool {
	_, ok := e.Get(f)
	return ok
}

// Empty reports whether every slot is clear.
func (e Errors) Empty() bool {
	return e == Errors{}
}

// Map returns the populated slots keyed by field name.
func (e Errors) Map() map[string]string {
	out := make(map[string]string)
	for _, f := range ValidatedFields() {
		if msg, ok := e.Get(f); ok {
			out[string(f)] = msg
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (e *Errors) set(f Field, msg string) {
	switch f {
	case FieldLocation:
		e.Location = msg
	case FieldPreferences:
		e.Preferences = msg
	case FieldDealbreakers:
		e.Dealbreakers = msg
	case FieldEmail:
		e.Email = msg
	case FieldPhone:
		e.Phone = msg
	}
}
