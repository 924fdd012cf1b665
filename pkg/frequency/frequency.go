// Package frequency converts income cadences into equivalent monthly amounts.
package frequency

import (
	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/model"
)

// ToMonthly converts amount received at the given cadence into its monthly
// equivalent. A custom cadence without a positive day count yields 0, and a
// one-time amount is returned unchanged because a lump is never spread.
func ToMonthly(amount float64, f model.Frequency, customDays int) float64 {
	switch f {
	case model.FrequencyDaily:
		return amount * constants.DaysPerMonth
	case model.FrequencyWeekly:
		return amount * constants.WeeksPerYear / constants.MonthsPerYear
	case model.FrequencyMonthly:
		return amount
	case model.FrequencyYearly:
		return amount / constants.MonthsPerYear
	case model.FrequencyCustom:
		if customDays <= 0 {
			return 0
		}
		return amount * constants.DaysPerYear / float64(customDays) / constants.MonthsPerYear
	case model.FrequencyOneTime:
		return amount
	default:
		return 0
	}
}

// Valid reports whether f is a known frequency.
func Valid(f model.Frequency) bool {
	for _, known := range model.Frequencies {
		if f == known {
			return true
		}
	}
	return false
}
