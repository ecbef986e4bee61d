// Package format renders amounts for human-readable output.
package format

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-projection/pkg/mathutil"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	d := mathutil.Cents(amount)
	if d.IsNegative() {
		return "-$" + group(d.Neg().StringFixed(2))
	}
	return "$" + group(d.StringFixed(2))
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	d := mathutil.Cents(amount)
	if d.IsNegative() {
		return "-" + group(d.Neg().StringFixed(2))
	}
	return group(d.StringFixed(2))
}

// Percent renders a percentage with one decimal (e.g., "12.5%").
func Percent(value float64) string {
	return fmt.Sprintf("%.1f%%", mathutil.Finite(value))
}

func group(fixed string) string {
	intPart, decPart, _ := strings.Cut(fixed, ".")
	if len(intPart) <= 3 {
		return intPart + "." + decPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String() + "." + decPart
}
