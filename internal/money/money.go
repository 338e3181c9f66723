// Package money formats deal values for display. All amounts are USD with
// zero fractional digits and locale-aware thousands separators.
package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders an amount as e.g. "$3,500". A NaN or infinite amount
// (the float result of a null/undefined backend value) renders as "$0";
// this is display-only and never mutates the stored value.
func FormatUSD(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return printer.Sprintf("$%v", number.Decimal(math.Round(amount), number.MaxFractionDigits(0)))
}
