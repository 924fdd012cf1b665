package projection

import (
	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/mathutil"
	"github.com/iwvelando/retirement-forecast/pkg/model"
)

// ApplyInflationAdjustment returns a copy of series with every monetary field
// discounted by (1+inflationRate)^-years, years counted from the first month.
// The input series is left untouched.
func ApplyInflationAdjustment(series []model.MonthlyDataPoint, inflationRate float64) []model.MonthlyDataPoint {
	adjusted := make([]model.MonthlyDataPoint, len(series))
	for i, point := range series {
		factor := 1 / mathutil.Growth(inflationRate, float64(point.MonthIndex)/constants.MonthsPerYear)

		point.Income *= factor
		point.Expenses *= factor
		point.Contributions *= factor
		point.PortfolioValue *= factor
		point.Growth *= factor

		if point.CPF != nil {
			snapshot := *point.CPF
			snapshot.MonthlyContribution = scaleContribution(snapshot.MonthlyContribution, factor)
			snapshot.MonthlyInterest = scaleInterest(snapshot.MonthlyInterest, factor)
			snapshot.Accounts = scaleAccounts(snapshot.Accounts, factor)
			snapshot.YearToDateContributions *= factor
			snapshot.LoanDraw *= factor
			snapshot.LoanShortfall *= factor
			point.CPF = &snapshot
		}
		adjusted[i] = point
	}
	return adjusted
}

func scaleContribution(c model.CPFContribution, factor float64) model.CPFContribution {
	return model.CPFContribution{
		Total:      c.Total * factor,
		Employee:   c.Employee * factor,
		Employer:   c.Employer * factor,
		Ordinary:   c.Ordinary * factor,
		Special:    c.Special * factor,
		Medisave:   c.Medisave * factor,
		Retirement: c.Retirement * factor,
	}
}

func scaleInterest(i model.CPFInterest, factor float64) model.CPFInterest {
	return model.CPFInterest{
		Ordinary:   i.Ordinary * factor,
		Special:    i.Special * factor,
		Medisave:   i.Medisave * factor,
		Retirement: i.Retirement * factor,
		Extra:      i.Extra * factor,
	}
}

func scaleAccounts(a model.CPFAccounts, factor float64) model.CPFAccounts {
	return model.CPFAccounts{
		Ordinary:   a.Ordinary * factor,
		Special:    a.Special * factor,
		Medisave:   a.Medisave * factor,
		Retirement: a.Retirement * factor,
	}
}
