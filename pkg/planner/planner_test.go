package planner

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/retirement-forecast/pkg/cpf"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"github.com/iwvelando/retirement-forecast/pkg/testutil"
	"github.com/iwvelando/retirement-forecast/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanner(options ...Option) *Planner {
	return New(nil, append([]Option{WithStartDate(testutil.Start())}, options...)...)
}

func TestCalculateRetirementReconciles(t *testing.T) {
	p := newPlanner(WithMaxAge(90), WithRetirementSpending(3000))

	for name, input := range map[string]model.Input{
		"closed form": testutil.ConstantIncomeInput(),
		"stepped":     testutil.SampleInput(),
	} {
		t.Run(name, func(t *testing.T) {
			result, err := p.CalculateRetirement(input)
			require.NoError(t, err)

			assert.Greater(t, result.TotalSavings, input.Profile.CurrentSavings)
			reconciled := input.Profile.CurrentSavings + result.TotalContributions + result.InterestEarned
			assert.InDelta(t, result.TotalSavings, reconciled, 0.01)
			assert.Equal(t, 30.0, result.YearsToRetirement)

			again, err := p.CalculateRetirement(input)
			require.NoError(t, err)
			assert.Equal(t, result, again, "identical input must give identical results")
		})
	}
}

func TestCalculateRetirementDoesNotMutateInput(t *testing.T) {
	input := testutil.SampleInput()
	before := testutil.SampleInput()

	_, err := newPlanner().CalculateRetirement(input)
	require.NoError(t, err)
	assert.Equal(t, before, input)
}

func TestCalculateRetirementRefusesInvalidInput(t *testing.T) {
	input := testutil.SampleInput()
	input.CPF.CurrentBalances.Special = -500
	input.Profile.ExpectedReturnRate = 0.3

	_, err := newPlanner().CalculateRetirement(input)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.ErrorIs(t, err, model.ErrInvalidCPFBalance)

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 2)
}

func TestGenerateMonthlyProjectionsRejectsNegativeBalances(t *testing.T) {
	input := testutil.SampleInput()
	input.CPF.CurrentBalances.Ordinary = -1

	series, err := newPlanner().GenerateMonthlyProjections(input, 0)
	assert.Nil(t, series)
	assert.ErrorIs(t, err, model.ErrInvalidCPFBalance)
}

func TestGenerateMonthlyProjectionsRejectsInvalidPlans(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Input)
		want   error
	}{
		{
			name: "loan with zero term",
			mutate: func(in *model.Input) {
				in.Loans = []model.Loan{{Name: "Car", Principal: 20000, InterestRate: 0.03, TermMonths: 0, StartDate: "2030-01"}}
			},
			want: model.ErrInvalidLoanParameters,
		},
		{
			name: "negative principal due after the horizon",
			mutate: func(in *model.Input) {
				in.Loans = []model.Loan{{Name: "Later", Principal: -5, InterestRate: 0.03, TermMonths: 12, StartDate: "2090-01"}}
			},
			want: model.ErrInvalidLoanParameters,
		},
		{
			name: "negative balance with the scheme disabled",
			mutate: func(in *model.Input) {
				in.CPF = &model.CPFConfig{Enabled: false, CurrentBalances: model.CPFAccounts{Medisave: -1}}
			},
			want: model.ErrInvalidCPFBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := testutil.ConstantIncomeInput()
			tt.mutate(&input)

			series, err := newPlanner().GenerateMonthlyProjections(input, 0)
			assert.Nil(t, series)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerateMonthlyProjectionsHorizon(t *testing.T) {
	p := newPlanner()
	input := testutil.ConstantIncomeInput()

	tests := []struct {
		name   string
		maxAge float64
		months int
	}{
		{"planner default", 0, 65 * 12},
		{"explicit max age", 70, 35 * 12},
		{"max age before retirement", 60, 30 * 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := p.GenerateMonthlyProjections(input, tt.maxAge)
			require.NoError(t, err)
			require.Len(t, series, tt.months)
			assert.Equal(t, 2025, series[0].Year)
			assert.Equal(t, 1, series[0].Month)
		})
	}
}

func TestGenerateMonthlyProjectionsMandatorySavings(t *testing.T) {
	input := model.Input{
		Profile: model.UserProfile{CurrentAge: 30, RetirementAge: 65, ExpectedReturnRate: 0.05},
		IncomeSources: []model.IncomeSource{{
			ID: "salary", Name: "Salary", Type: model.IncomeSalary, Amount: 5000,
			Frequency: model.FrequencyMonthly, CPFEligible: true,
		}},
		CPF: &model.CPFConfig{Enabled: true},
	}

	series, err := newPlanner().GenerateMonthlyProjections(input, 65)
	require.NoError(t, err)
	require.NotEmpty(t, series)
	require.NotNil(t, series[0].CPF)

	contribution := series[0].CPF.MonthlyContribution
	assert.InDelta(t, 1850, contribution.Total, 0.01)
	assert.InDelta(t, 1000, contribution.Employee, 0.01)
	assert.InDelta(t, 850, contribution.Employer, 0.01)

	for _, point := range series {
		if point.Age < 55 {
			assert.Zero(t, point.CPF.Accounts.Retirement, "age %.2f", point.Age)
		} else {
			assert.Zero(t, point.CPF.Accounts.Special, "age %.2f", point.Age)
		}
	}
}

func TestOptions(t *testing.T) {
	table := cpf.DefaultRateTable()
	table.AnnualCeiling = 30000

	p := New(nil, WithMaxAge(95), WithRetirementSpending(2500), WithRateTable(table))
	opts := p.Options()

	assert.Equal(t, 95.0, opts.MaxAge)
	assert.Equal(t, 2500.0, opts.RetirementSpending)
	require.NotNil(t, opts.RateTable)
	assert.Equal(t, 30000.0, opts.RateTable.AnnualCeiling)
	assert.True(t, opts.StartDate.IsZero())

	assert.Equal(t, 100.0, New(nil).Options().MaxAge)
}

func TestValidate(t *testing.T) {
	p := newPlanner()
	assert.True(t, p.Validate(testutil.SampleInput()).IsValid)

	input := testutil.SampleInput()
	input.Loans[0].TermMonths = 0
	result := p.Validate(input)
	assert.False(t, result.IsValid)
	assert.Equal(t, "loans[0].termMonths", result.Errors[0].Field)
}

func TestApplyInflationAdjustment(t *testing.T) {
	series, err := newPlanner().GenerateMonthlyProjections(testutil.ConstantIncomeInput(), 0)
	require.NoError(t, err)

	adjusted := ApplyInflationAdjustment(series, 0.025)
	require.Len(t, adjusted, len(series))
	assert.Equal(t, series[0].PortfolioValue, adjusted[0].PortfolioValue)

	last := len(series) - 1
	factor := math.Pow(1.025, float64(series[last].MonthIndex)/12)
	assert.InDelta(t, series[last].PortfolioValue/factor, adjusted[last].PortfolioValue, 1e-6)
}
