package validation

import (
	"regexp"
	"strings"
)

// Kind classifies why a value was rejected.
type Kind string

const (
	// KindFormat marks values containing characters outside the field's
	// permitted character class (letters-only text, digits-only phone).
	KindFormat Kind = "format"
	// KindShape marks values whose characters are acceptable but whose overall
	// structure is not (email addresses).
	KindShape Kind = "shape"
)

// User-facing messages for the fixed text set.
const (
	MessageLettersOnly  = "ניתן להזין אותיות בלבד"
	MessageDigitsOnly   = "ניתן להזין מספרים בלבד"
	MessageInvalidEmail = "כתובת אימייל לא תקינה"
)

// whitespace mirrors the browser notion of `\s`, which is wider than RE2's
// ASCII-only class.
const whitespace = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

var (
	lettersOnlyPattern = regexp.MustCompile(`^[a-zA-Z\x{0590}-\x{05FF}` + whitespace + `,.'"-]*$`)
	digitsOnlyPattern  = regexp.MustCompile(`^[0-9]*$`)
	emailShapePattern  = regexp.MustCompile(`^[^@` + whitespace + `]+@[^@` + whitespace + `]+\.[^@` + whitespace + `]+$`)
)

// Result is the outcome of validating a single candidate value. Message is
// only populated when Valid is false.
type Result struct {
	Valid   bool   `json:"valid"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// Pass is the zero-issue result.
func Pass() Result {
	return Result{Valid: true}
}

// Fail builds a rejection result.
func Fail(kind Kind, message string) Result {
	return Result{Kind: kind, Message: strings.TrimSpace(message)}
}

// Validator is a pure predicate over the full candidate string. Validators are
// re-run from scratch on every input event; they never see partial diffs.
type Validator func(string) Result

// Pattern returns a validator that accepts values fully matched by re.
func Pattern(re *regexp.Regexp, kind Kind, message string) Validator {
	return func(value string) Result {
		if re != nil && re.MatchString(value) {
			return Pass()
		}
		return Fail(kind, message)
	}
}

// AllowEmpty wraps next so the empty string always passes.
func AllowEmpty(next Validator) Validator {
	return func(value string) Result {
		if value == "" || next == nil {
			return Pass()
		}
		return next(value)
	}
}

// LettersOnly accepts ASCII letters, the Hebrew block, whitespace and the
// punctuation set , . ' " - (the empty string included).
func LettersOnly() Validator {
	return Pattern(lettersOnlyPattern, KindFormat, MessageLettersOnly)
}

// DigitsOnly accepts ASCII digits (the empty string included).
func DigitsOnly() Validator {
	return Pattern(digitsOnlyPattern, KindFormat, MessageDigitsOnly)
}

// EmailShape accepts local@domain.tld shaped values without embedded
// whitespace. The empty string passes.
func EmailShape() Validator {
	return AllowEmpty(Pattern(emailShapePattern, KindShape, MessageInvalidEmail))
}
