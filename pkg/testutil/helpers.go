// Package testutil provides common utility functions for testing.
package testutil

import (
	"time"

	"github.com/iwvelando/retirement-forecast/pkg/datetime"
	"github.com/iwvelando/retirement-forecast/pkg/model"
)

// StartMonth is the projection start used by the sample plans.
const StartMonth = "2025-01"

// Start returns StartMonth as a time.
func Start() time.Time {
	return datetime.MustParseTime(datetime.DateTimeLayout, StartMonth)
}

// FindMonth finds the data point for year and month in the series.
// Returns a pointer to the point if found, nil otherwise.
func FindMonth(series []model.MonthlyDataPoint, year, month int) *model.MonthlyDataPoint {
	for i := range series {
		if series[i].Year == year && series[i].Month == month {
			return &series[i]
		}
	}
	return nil
}

// Float returns a pointer to v, for optional fields such as expense ages.
func Float(v float64) *float64 {
	return &v
}

// SampleProfile is a 35-year-old retiring at 65.
func SampleProfile() model.UserProfile {
	return model.UserProfile{
		CurrentAge:         35,
		RetirementAge:      65,
		CurrentSavings:     50000,
		ExpectedReturnRate: 0.06,
		InflationRate:      0.025,
	}
}

// ConstantIncomeInput is a plan the closed form can compute: one constant
// salary with a fixed savings rate.
func ConstantIncomeInput() model.Input {
	return model.Input{
		Profile: SampleProfile(),
		IncomeSources: []model.IncomeSource{
			{
				ID:                     "salary",
				Name:                   "Salary",
				Type:                   model.IncomeSalary,
				Amount:                 6000,
				Frequency:              model.FrequencyMonthly,
				ContributionPercentage: 0.2,
			},
		},
	}
}

// SampleInput exercises every kind of entity, with the mandatory-savings
// scheme enabled.
func SampleInput() model.Input {
	return model.Input{
		Profile: SampleProfile(),
		IncomeSources: []model.IncomeSource{
			{
				ID:                     "salary",
				Name:                   "Salary",
				Type:                   model.IncomeSalary,
				Amount:                 6500,
				Frequency:              model.FrequencyMonthly,
				StartDate:              StartMonth,
				EndDate:                "2054-12",
				AnnualIncrease:         0.02,
				ContributionPercentage: 0.25,
				CPFEligible:            true,
			},
			{
				ID:                     "rent",
				Name:                   "Rental flat",
				Type:                   model.IncomeRental,
				Amount:                 18000,
				Frequency:              model.FrequencyYearly,
				StartDate:              "2030-01",
				ContributionPercentage: 0.5,
			},
			{
				ID:                     "bonus",
				Name:                   "Signing bonus",
				Type:                   model.IncomeOneTime,
				Amount:                 10000,
				Frequency:              model.FrequencyOneTime,
				StartDate:              "2025-06",
				ContributionPercentage: 1,
			},
		},
		OneOffReturns: []model.OneOffReturn{
			{ID: "bond", Date: "2027-03", Amount: 5000, Description: "Bond maturity"},
		},
		Expenses: []model.RetirementExpense{
			{ID: "living", Name: "Living", Category: model.ExpenseLiving, MonthlyAmount: 800, InflationRate: 0.02},
			{ID: "care", Name: "Healthcare", Category: model.ExpenseHealthcare, MonthlyAmount: 400, InflationRate: 0.04, StartAge: Float(60)},
		},
		Loans: []model.Loan{
			{
				ID:            "flat",
				Name:          "Flat",
				Principal:     300000,
				InterestRate:  0.026,
				TermMonths:    300,
				StartDate:     StartMonth,
				Category:      model.LoanCategoryHousing,
				UseCPF:        true,
				CPFPercentage: 60,
			},
		},
		OneTimeExpenses: []model.OneTimeExpense{
			{ID: "car", Name: "Car", Amount: 40000, Date: "2028-07", Category: "transport"},
		},
		CPF: &model.CPFConfig{
			Enabled: true,
			CurrentBalances: model.CPFAccounts{
				Ordinary: 60000,
				Special:  30000,
				Medisave: 25000,
			},
			RetirementSumTarget: model.RetirementSumFull,
		},
	}
}
