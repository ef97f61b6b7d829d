package vanilla

import "strings"

// DefaultBlockClass is the BEM block every chrome class derives from.
const DefaultBlockClass = "apartment-form"

// Element names used below the block, e.g. "apartment-form__chip".
const (
	ElementTitle         = "title"
	ElementSection       = "section"
	ElementLabel         = "label"
	ElementInput         = "input"
	ElementTextarea      = "textarea"
	ElementChips         = "chips"
	ElementChip          = "chip"
	ElementBudget        = "budget"
	ElementBudgetLabel   = "budget-label"
	ElementRange         = "range"
	ElementSelectWrapper = "select-wrapper"
	ElementSelect        = "select"
	ElementContactRow    = "contact-row"
	ElementInputGroup    = "input-group"
	ElementError         = "error"
	ElementSubmit        = "submit"
	ElementWhatsAppCTA   = "whatsapp-cta"
	ElementWhatsAppText  = "whatsapp-text"
	ElementWhatsAppBtn   = "whatsapp-btn"
	ElementLink          = "link"
)

// Modifiers.
const (
	ModifierActive = "active"
	ModifierError  = "error"
	ModifierHalf   = "half"
)

// chrome builds class names for one BEM block.
type chrome struct {
	block string
}

func newChrome(block string) chrome {
	block = strings.TrimSpace(block)
	if block == "" {
		block = DefaultBlockClass
	}
	return chrome{block: block}
}

func (c chrome) wrapper() string { return c.block + "-wrapper" }
func (c chrome) form() string    { return c.block }

func (c chrome) element(name string) string {
	return c.block + "__" + name
}

// classes returns the element class followed by each modifier whose flag is
// set, e.g. "apartment-form__input apartment-form__input--error".
func (c chrome) classes(element string, modifiers ...modifier) string {
	base := c.element(element)
	var b strings.Builder
	b.WriteString(base)
	for _, m := range modifiers {
		if !m.on {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(base)
		b.WriteString("--")
		b.WriteString(m.name)
	}
	return b.String()
}

type modifier struct {
	name string
	on   bool
}

func mod(name string, on bool) modifier {
	return modifier{name: name, on: on}
}

func sanitizeClassList(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.ContainsAny(token, `"'<>`) {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}
