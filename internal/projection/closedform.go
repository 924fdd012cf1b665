package projection

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/datetime"
	"github.com/iwvelando/retirement-forecast/pkg/frequency"
	"github.com/iwvelando/retirement-forecast/pkg/mathutil"
	"github.com/iwvelando/retirement-forecast/pkg/model"
)

// CalculateFutureValue returns the value after years of monthly compounding
// of principal plus a monthly contribution paid at the end of each month:
// FV = P(1+r)^n + PMT((1+r)^n - 1)/r with r the monthly rate. A zero rate
// reduces to P + PMT*n.
func CalculateFutureValue(principal, monthlyContribution, annualRate, years float64) (float64, error) {
	for name, v := range map[string]float64{
		"principal":            principal,
		"monthly contribution": monthlyContribution,
		"annual rate":          annualRate,
		"years":                years,
	} {
		if err := mathutil.CheckFinite(name, v); err != nil {
			return 0, fmt.Errorf("%w: %v", model.ErrNumericOverflow, err)
		}
	}
	if years < 0 {
		return 0, fmt.Errorf("%w: years must not be negative, got %.2f", model.ErrInvalidInput, years)
	}
	if years > constants.MaxHorizonYears {
		return 0, fmt.Errorf("%w: horizon of %.1f years exceeds %d", model.ErrNumericOverflow, years, constants.MaxHorizonYears)
	}
	if math.Abs(annualRate) > constants.MaxAnnualRate {
		return 0, fmt.Errorf("%w: annual rate %.2f exceeds %.0f%%",
			model.ErrNumericOverflow, annualRate, constants.MaxAnnualRate*constants.PercentageMultiplier)
	}

	value := futureValue(principal, monthlyContribution, annualRate/constants.MonthsPerYear, years*constants.MonthsPerYear)
	if err := mathutil.CheckFinite("future value", value); err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrNumericOverflow, err)
	}
	return value, nil
}

func futureValue(principal, payment, monthlyRate, months float64) float64 {
	if monthlyRate == 0 {
		return principal + payment*months
	}
	growth := math.Pow(1+monthlyRate, months)
	return principal*growth + payment*(growth-1)/monthlyRate
}

// closedFormSeries emits one point per month up to retirement for a plan
// whose income never changes.
func closedFormSeries(input model.Input, start time.Time, months int) ([]model.MonthlyDataPoint, error) {
	profile := input.Profile
	monthlyRate := profile.ExpectedReturnRate / constants.MonthsPerYear

	income := 0.0
	payment := profile.MonthlyContribution
	for _, source := range input.IncomeSources {
		monthly := frequency.ToMonthly(source.Amount, source.Frequency, source.CustomFrequencyDays)
		income += monthly
		payment += monthly * mathutil.Clamp(source.ContributionPercentage, 0, 1)
	}

	series := make([]model.MonthlyDataPoint, 0, months)
	previous := profile.CurrentSavings
	for i := 0; i < months; i++ {
		month := datetime.AddMonths(start, i)
		value := futureValue(profile.CurrentSavings, payment, monthlyRate, float64(i+1))
		if err := mathutil.CheckFinite("portfolio value", value); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrNumericOverflow, datetime.FormatMonth(month), err)
		}

		series = append(series, model.MonthlyDataPoint{
			MonthIndex:     i,
			Year:           month.Year(),
			Month:          int(month.Month()),
			Age:            profile.CurrentAge + float64(i)/constants.MonthsPerYear,
			Income:         income,
			Contributions:  payment,
			PortfolioValue: value,
			Growth:         value - previous - payment,
		})
		previous = value
	}
	return series, nil
}
