package intake

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencyPrefix = "$ "

var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders v as a dollar amount with US three-digit grouping,
// for example "$ 3,000,000". No rounding is applied.
func FormatCurrency(v int) string {
	return currencyPrefix + currencyPrinter.Sprintf("%d", v)
}

// BudgetLabel renders the budget range display string. The upper bound is
// shown first.
func BudgetLabel(s State) string {
	return FormatCurrency(s.BudgetMax) + " - " + FormatCurrency(s.BudgetMin)
}
