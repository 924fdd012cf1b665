// Package format renders money and rates for people.
package format

import (
	"github.com/iwvelando/retirement-forecast/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	amount = cents(amount)
	if amount < 0 {
		return "-$" + NumericCurrency(-amount)
	}
	return "$" + NumericCurrency(amount)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.2f", cents(amount))
}

// Percent renders a fractional rate as a percentage with two decimals.
func Percent(rate float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.2f%%", rate*100)
}

// cents rounds to the cent and folds negative zero into zero.
func cents(amount float64) float64 {
	amount = mathutil.Round(amount)
	if amount == 0 {
		return 0
	}
	return amount
}
