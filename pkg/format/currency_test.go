package format

import (
	"math"
	"testing"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{1234.567, "$1,234.57"},
		{-1234.56, "-$1,234.56"},
		{1000000, "$1,000,000.00"},
		{-0.001, "$0.00"},
		{math.NaN(), "$0.00"},
	}

	for _, tt := range tests {
		if got := Currency(tt.amount); got != tt.expected {
			t.Errorf("Currency(%v) = %s, expected %s", tt.amount, got, tt.expected)
		}
	}
}

func TestNumericCurrency(t *testing.T) {
	if got := NumericCurrency(-98765.4); got != "-98,765.40" {
		t.Errorf("NumericCurrency() = %s, expected -98,765.40", got)
	}
	if got := NumericCurrency(999.999); got != "1,000.00" {
		t.Errorf("NumericCurrency() = %s, expected 1,000.00", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(12.345); got != "12.3%" {
		t.Errorf("Percent() = %s, expected 12.3%%", got)
	}
	if got := Percent(math.Inf(1)); got != "0.0%" {
		t.Errorf("Percent(Inf) = %s, expected 0.0%%", got)
	}
}
