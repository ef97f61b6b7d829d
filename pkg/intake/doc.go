// Package intake implements the state and validation engine behind the
// apartment-search lead form.
//
// An Engine owns two parallel records: the field values (State) and the
// per-field error messages (Errors). Every mutation entry point validates the
// full candidate value, then reconciles the value slot and the error slot of
// that field in the same call, so readers never observe one without the other.
//
// Validated fields follow one of two policies. Letters-only text fields and
// the phone field reject and revert: an invalid candidate leaves the previous
// value in place and only sets the error. The email field commits then flags:
// the candidate is always stored and the error reflects whether it is well
// formed. Chip groups (square meters, rooms) are single-select toggles backed
// by Choice.
//
// Engines are not safe for concurrent use. Hosts that receive input from more
// than one goroutine must serialise calls per engine.
package intake
