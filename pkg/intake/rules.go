package intake

import "github.com/goliatone/go-leadform/pkg/validation"

// Policy decides what happens to a field's stored value when its candidate
// fails validation.
type Policy int

const (
	// PolicyRevert keeps the previous value and only sets the error slot.
	PolicyRevert Policy = iota
	// PolicyCommit stores the candidate and flags it in the error slot.
	PolicyCommit
)

func (p Policy) String() string {
	switch p {
	case PolicyCommit:
		return "commit"
	default:
		return "revert"
	}
}

// Rule binds a validator to a commit policy for one field.
type Rule struct {
	Validate validation.Validator
	Policy   Policy
}

// DefaultRules returns the rule set of the apartment-search form.
func DefaultRules() map[Field]Rule {
	letters := validation.LettersOnly()
	return map[Field]Rule{
		FieldLocation:     {Validate: letters, Policy: PolicyRevert},
		FieldPreferences:  {Validate: letters, Policy: PolicyRevert},
		FieldDealbreakers: {Validate: letters, Policy: PolicyRevert},
		FieldPhone:        {Validate: validation.DigitsOnly(), Policy: PolicyRevert},
		FieldEmail:        {Validate: validation.EmailShape(), Policy: PolicyCommit},
	}
}

func cloneRules(src map[Field]Rule) map[Field]Rule {
	out := make(map[Field]Rule, len(src))
	for f, r := range src {
		out[f] = r
	}
	return out
}
