package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "$0.00"},
		{"Small", 750, "$750.00"},
		{"Thousands", 1000, "$1,000.00"},
		{"Rounded", 1234.567, "$1,234.57"},
		{"Millions", 2500000, "$2,500,000.00"},
		{"Negative", -1234.5, "-$1,234.50"},
		{"Negative rounding to zero", -0.001, "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestNumericCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{42, "42.00"},
		{-42, "-42.00"},
		{691150.456, "691,150.46"},
	}

	for _, tt := range tests {
		if got := NumericCurrency(tt.amount); got != tt.expected {
			t.Errorf("NumericCurrency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(0.04); got != "4.00%" {
		t.Errorf("Percent(0.04) = %q", got)
	}
	if got := Percent(0.0725); got != "7.25%" {
		t.Errorf("Percent(0.0725) = %q", got)
	}
}
