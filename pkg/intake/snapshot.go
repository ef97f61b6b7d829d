package intake

// OptionState is one option of an enum field together with its selection flag.
type OptionState struct {
	Value    any  `json:"value"`
	Selected bool `json:"selected"`
}

// Snapshot is the read model handed to renderers: both records plus the
// derived display values.
type Snapshot struct {
	Values      State                   `json:"values"`
	Errors      Errors                  `json:"errors"`
	BudgetLabel string                  `json:"budgetLabel"`
	Options     map[Field][]OptionState `json:"options"`
}

// Snapshot captures the current records.
func (e *Engine) Snapshot() Snapshot {
	return SnapshotOf(e.state, e.errors)
}

// SnapshotOf derives a snapshot from standalone records.
func SnapshotOf(s State, errs Errors) Snapshot {
	options := make(map[Field][]OptionState, 3)
	for _, f := range []Field{FieldSquareMeters, FieldRooms} {
		values := Options(f)
		states := make([]OptionState, 0, len(values))
		for _, v := range values {
			states = append(states, OptionState{Value: v, Selected: isSelected(s, f, v)})
		}
		options[f] = states
	}
	purposes := Purposes()
	states := make([]OptionState, 0, len(purposes))
	for _, p := range purposes {
		states = append(states, OptionState{Value: string(p), Selected: s.Purpose == p})
	}
	options[FieldPurpose] = states

	return Snapshot{
		Values:      s,
		Errors:      errs,
		BudgetLabel: BudgetLabel(s),
		Options:     options,
	}
}

// Selected reports the selection flag of option within f.
func (s Snapshot) Selected(f Field, option any) bool {
	return isSelected(s.Values, f, option)
}
