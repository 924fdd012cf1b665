// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"fmt"
	"math"

	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves round away from zero on the decimal representation so 1.005 becomes
// 1.01 rather than falling victim to binary floating point.
func Round(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	return decimal.NewFromFloat(val).Round(constants.DecimalPlaces).InexactFloat64()
}

// RoundDecimal converts a value to a decimal rounded to cents.
func RoundDecimal(val float64) decimal.Decimal {
	return decimal.NewFromFloat(val).Round(constants.DecimalPlaces)
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Clamp limits val to the closed interval [lo, hi].
func Clamp(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}

// Growth returns (1+rate)^years, the compounding factor used for escalation
// and inflation.
func Growth(rate, years float64) float64 {
	return math.Pow(1+rate, years)
}

// CheckFinite returns an error naming the quantity when val is NaN, infinite
// or larger in magnitude than the safety ceiling.
func CheckFinite(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s is not a finite number", name)
	}
	if math.Abs(val) > constants.SafetyCeiling {
		return fmt.Errorf("%s %.2f exceeds the safety ceiling of %.0f", name, val, constants.SafetyCeiling)
	}
	return nil
}
