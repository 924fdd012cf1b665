package projection

import (
	"math"

	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/mathutil"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"github.com/shopspring/decimal"
)

// Summarize reduces a series to its aggregate result. Money is rounded to
// cents, and interestEarned is whatever reconciles
// totalSavings = currentSavings + totalContributions + interestEarned. The
// withdrawal-rate check uses the average net monthly draw over the retired
// months, or the configured spending when the series stops at retirement.
func Summarize(input model.Input, series []model.MonthlyDataPoint, opts Options) model.CalculationResult {
	profile := input.Profile
	yearsToRetirement := math.Max(0, profile.RetirementAge-profile.CurrentAge)

	atRetirement := profile.CurrentSavings
	contributions := decimal.Zero
	var cpfAtRetirement *model.CPFAccounts
	var depletedAfter *float64
	retiredMonths := 0
	netDraw := 0.0

	for _, point := range series {
		if !point.Retired {
			atRetirement = point.PortfolioValue
			contributions = contributions.Add(decimal.NewFromFloat(point.Contributions))
			if point.CPF != nil {
				accounts := point.CPF.Accounts
				cpfAtRetirement = &accounts
			}
			continue
		}
		retiredMonths++
		netDraw -= point.Contributions
		if point.PortfolioValue <= 0 && depletedAfter == nil {
			years := mathutil.Round(float64(retiredMonths) / constants.MonthsPerYear)
			depletedAfter = &years
		}
	}

	totalSavings := mathutil.RoundDecimal(atRetirement)
	totalContributions := contributions.Round(constants.DecimalPlaces)
	interestEarned := totalSavings.
		Sub(mathutil.RoundDecimal(profile.CurrentSavings)).
		Sub(totalContributions)

	savings := totalSavings.InexactFloat64()
	result := model.CalculationResult{
		TotalSavings:            savings,
		MonthlyRetirementIncome: mathutil.Round(savings * constants.SafeWithdrawalRate / constants.MonthsPerYear),
		YearsToRetirement:       mathutil.Round(yearsToRetirement),
		TotalContributions:      totalContributions.InexactFloat64(),
		InterestEarned:          interestEarned.InexactFloat64(),
		YearsUntilDepletion:     depletedAfter,
		CPFBalances:             cpfAtRetirement,
	}

	if deflator := mathutil.Growth(profile.InflationRate, yearsToRetirement); deflator > 0 {
		result.InflationAdjustedSavings = mathutil.Round(savings / deflator)
	}

	// Net monthly draw in retirement: spending, recurring expenses and loan
	// payments, less retirement income.
	withdrawal := opts.RetirementSpending
	if retiredMonths > 0 {
		withdrawal = netDraw / float64(retiredMonths)
	}
	result.SustainabilityWarning = depletedAfter != nil || unsustainableWithdrawal(savings, withdrawal)
	return result
}

func unsustainableWithdrawal(savings, monthlySpending float64) bool {
	if monthlySpending <= 0 {
		return false
	}
	if savings <= 0 {
		return true
	}
	return monthlySpending*constants.MonthsPerYear/savings > constants.SafeWithdrawalRate
}
