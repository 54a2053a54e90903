// Package format renders report values for Brazilian Portuguese display.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/AngelCh415/terrafedash/internal/models"
)

// NotApplicable is shown instead of undefined ratios and averages.
const NotApplicable = "N/A"

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency formats an amount as "R$ 1.234,56".
func Currency(d decimal.Decimal) string {
	return "R$ " + printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// NullCurrency formats a possibly undefined amount.
func NullCurrency(d decimal.NullDecimal) string {
	if !d.Valid {
		return NotApplicable
	}
	return Currency(d.Decimal)
}

// Count formats an integer with thousands grouping: 12.345.
func Count(n int64) string {
	return printer.Sprint(number.Decimal(n))
}

// Rate formats a percentage that is always defined.
func Rate(v float64) string {
	return printer.Sprint(number.Decimal(v, number.Scale(2))) + "%"
}

// Percent formats a percentage, or N/A when undefined.
func Percent(p models.Percent) string {
	if !p.Valid {
		return NotApplicable
	}
	return Rate(p.Value)
}

