package legend

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Round rounds v to digits decimals. Negative digits round to tens,
// hundreds and so on.
func Round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// Label formats v rounded to digits with thousands separators and no
// trailing zeros.
func Label(v float64, digits int) string {
	v = Round(v, digits)
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	frac := max(digits, 0)
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(frac)))
}
