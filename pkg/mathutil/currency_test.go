package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"Large number", 4541.6666, 4541.67},
		{"Negative number", -12345.678, -12345.68},
		{"Zero", 0.0, 0.0},
		{"Very small negative", -0.001, 0.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCents(t *testing.T) {
	if got := Cents(4078.0958).String(); got != "4078.1" {
		t.Errorf("Cents(4078.0958) = %s, want 4078.1", got)
	}
	if !Cents(math.NaN()).IsZero() {
		t.Errorf("Cents(NaN) should be zero")
	}
	if !Cents(math.Inf(1)).IsZero() {
		t.Errorf("Cents(+Inf) should be zero")
	}
}

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		expected    float64
	}{
		{"Normal division", 50, 200, 0.25},
		{"Zero denominator", 50, 0, 0},
		{"Zero over zero", 0, 0, 0},
		{"Negative values", -30, 60, -0.5},
		{"Overflow collapses", math.MaxFloat64, 1e-300, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SafeDivide(tt.numerator, tt.denominator)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("SafeDivide(%v, %v) = %v, expected %v", tt.numerator, tt.denominator, result, tt.expected)
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	if got := CalculatePercentage(25, 200); math.Abs(got-12.5) > 1e-9 {
		t.Errorf("CalculatePercentage(25, 200) = %v, want 12.5", got)
	}
	if got := CalculatePercentage(25, 0); got != 0 {
		t.Errorf("CalculatePercentage(25, 0) = %v, want 0", got)
	}
}

func TestMonthlyRate(t *testing.T) {
	if got := MonthlyRate(12); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("MonthlyRate(12) = %v, want 0.01", got)
	}
	if got := MonthlyRate(0); got != 0 {
		t.Errorf("MonthlyRate(0) = %v, want 0", got)
	}
}
