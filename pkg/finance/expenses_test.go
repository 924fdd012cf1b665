package finance

import (
	"testing"

	"github.com/iwvelando/retirement-forecast/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func age(v float64) *float64 {
	return &v
}

func TestExpenseProcessor_RecurringAmountForMonth(t *testing.T) {
	processor := NewExpenseProcessor(zap.NewNop())
	projectionStart := month("2025-01")

	tests := []struct {
		name     string
		expense  model.RetirementExpense
		month    string
		age      float64
		expected float64
	}{
		{
			name:     "no window is always active",
			expense:  model.RetirementExpense{Name: "Living", MonthlyAmount: 2000},
			month:    "2040-01",
			age:      50,
			expected: 2000,
		},
		{
			name:     "before start age",
			expense:  model.RetirementExpense{Name: "Care", MonthlyAmount: 800, StartAge: age(70)},
			month:    "2040-01",
			age:      69.9,
			expected: 0,
		},
		{
			name:     "at start age",
			expense:  model.RetirementExpense{Name: "Care", MonthlyAmount: 800, StartAge: age(70)},
			month:    "2040-01",
			age:      70,
			expected: 800,
		},
		{
			name:     "end age is exclusive",
			expense:  model.RetirementExpense{Name: "Travel", MonthlyAmount: 500, StartAge: age(65), EndAge: age(75)},
			month:    "2040-01",
			age:      75,
			expected: 0,
		},
		{
			name:     "age window wins over dates",
			expense:  model.RetirementExpense{Name: "Travel", MonthlyAmount: 500, StartAge: age(65), StartDate: "2099-01"},
			month:    "2040-01",
			age:      65,
			expected: 500,
		},
		{
			name:     "date window inclusive end",
			expense:  model.RetirementExpense{Name: "School", MonthlyAmount: 1200, StartDate: "2025-09", EndDate: "2026-06"},
			month:    "2026-06",
			age:      45,
			expected: 1200,
		},
		{
			name:     "outside date window",
			expense:  model.RetirementExpense{Name: "School", MonthlyAmount: 1200, StartDate: "2025-09", EndDate: "2026-06"},
			month:    "2026-07",
			age:      45,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := processor.RecurringAmountForMonth(tt.expense, month(tt.month), tt.age, projectionStart)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, amount, 1e-9)
		})
	}
}

func TestExpenseProcessor_InflationEscalation(t *testing.T) {
	processor := NewExpenseProcessor(nil)

	byAge := model.RetirementExpense{Name: "Care", MonthlyAmount: 1000, InflationRate: 0.05, StartAge: age(60)}
	amount, err := processor.RecurringAmountForMonth(byAge, month("2040-01"), 62, month("2025-01"))
	require.NoError(t, err)
	assert.InDelta(t, 1102.5, amount, 1e-6)

	byDate := model.RetirementExpense{Name: "Living", MonthlyAmount: 1000, InflationRate: 0.05, StartDate: "2025-01"}
	amount, err = processor.RecurringAmountForMonth(byDate, month("2025-01"), 40, month("2025-01"))
	require.NoError(t, err)
	assert.InDelta(t, 1000, amount, 1e-9)

	amount, err = processor.RecurringAmountForMonth(byDate, month("2035-01"), 50, month("2025-01"))
	require.NoError(t, err)
	assert.InDelta(t, 1000*1.62889, amount, 1.0)
}

func TestExpenseProcessor_MalformedDate(t *testing.T) {
	processor := NewExpenseProcessor(zap.NewNop())
	broken := model.RetirementExpense{Name: "Broken", MonthlyAmount: 100, StartDate: "01/2025"}

	_, err := processor.RecurringAmountForMonth(broken, month("2025-01"), 40, month("2025-01"))
	assert.Error(t, err)

	input := model.Input{Expenses: []model.RetirementExpense{broken, {Name: "Living", MonthlyAmount: 300}}}
	summary, err := processor.ProcessExpensesForMonth(month("2025-01"), 40, month("2025-01"), input)
	require.NoError(t, err)
	assert.InDelta(t, 300, summary.Recurring, 1e-9)
}

func TestExpenseProcessor_ProcessExpensesForMonth(t *testing.T) {
	processor := NewExpenseProcessor(zap.NewNop())
	input := model.Input{
		Expenses: []model.RetirementExpense{
			{Name: "Living", MonthlyAmount: 2500},
		},
		OneTimeExpenses: []model.OneTimeExpense{
			{Name: "Car", Amount: 30000, Date: "2025-04"},
			{Name: "Roof", Amount: 12000, Date: "2026-04"},
		},
		Loans: []model.Loan{
			{Name: "Flat", Principal: 1200, InterestRate: 0, TermMonths: 12, StartDate: "2025-01", Category: model.LoanCategoryHousing, UseCPF: true, CPFPercentage: 75},
			{Name: "Car loan", Principal: 600, InterestRate: 0, TermMonths: 6, StartDate: "2025-01", UseCPF: true, CPFPercentage: 100},
		},
	}

	summary, err := processor.ProcessExpensesForMonth(month("2025-04"), 40, month("2025-01"), input)
	require.NoError(t, err)

	assert.InDelta(t, 2500, summary.Recurring, 1e-9)
	assert.InDelta(t, 30000, summary.OneTime, 1e-9)
	assert.InDelta(t, 25+100, summary.LoanCash, 1e-9)
	assert.InDelta(t, 75, summary.LoanCPF, 1e-9)
	assert.InDelta(t, 2500+30000+125, summary.Total(), 1e-9)
	require.Len(t, summary.Loans, 2)
	assert.True(t, summary.Loans[0].Housing)
	assert.False(t, summary.Loans[1].Housing)

	later, err := processor.ProcessExpensesForMonth(month("2025-08"), 40, month("2025-01"), input)
	require.NoError(t, err)
	assert.InDelta(t, 25, later.LoanCash, 1e-9)
	assert.Len(t, later.Loans, 1)
}

func TestExpenseProcessor_InvalidLoanAborts(t *testing.T) {
	processor := NewExpenseProcessor(zap.NewNop())
	input := model.Input{
		Loans: []model.Loan{{Name: "Bad", Principal: 1000, InterestRate: 0.9, TermMonths: 12, StartDate: "2025-01"}},
	}

	_, err := processor.ProcessExpensesForMonth(month("2025-02"), 40, month("2025-01"), input)
	assert.ErrorIs(t, err, model.ErrInvalidLoanParameters)
}
