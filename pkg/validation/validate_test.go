package validation

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/retirement-forecast/pkg/model"
	"github.com/iwvelando/retirement-forecast/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(r Result) []string {
	out := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		out = append(out, fe.Field)
	}
	return out
}

func TestValidateSampleInputs(t *testing.T) {
	for name, input := range map[string]model.Input{
		"sample":   testutil.SampleInput(),
		"constant": testutil.ConstantIncomeInput(),
	} {
		t.Run(name, func(t *testing.T) {
			result := Validate(input)
			assert.True(t, result.IsValid, "unexpected errors: %v", result.Messages())
			assert.Empty(t, result.Errors)
			assert.NoError(t, result.Err())
		})
	}
}

func TestValidateFieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *model.Input)
		field  string
		kind   error
	}{
		{"age below minimum", func(in *model.Input) { in.Profile.CurrentAge = 17 }, "profile.currentAge", nil},
		{"retirement before current age", func(in *model.Input) { in.Profile.RetirementAge = 30 }, "profile.retirementAge", nil},
		{"retirement past maximum", func(in *model.Input) { in.Profile.RetirementAge = 101 }, "profile.retirementAge", nil},
		{"negative savings", func(in *model.Input) { in.Profile.CurrentSavings = -1 }, "profile.currentSavings", nil},
		{"unrealistic savings", func(in *model.Input) { in.Profile.CurrentSavings = 100000001 }, "profile.currentSavings", nil},
		{"unrealistic contribution", func(in *model.Input) { in.Profile.MonthlyContribution = 50001 }, "profile.monthlyContribution", nil},
		{"return too high", func(in *model.Input) { in.Profile.ExpectedReturnRate = 0.21 }, "profile.expectedReturnRate", nil},
		{"negative inflation", func(in *model.Input) { in.Profile.InflationRate = -0.01 }, "profile.inflationRate", nil},
		{"non-finite return", func(in *model.Input) { in.Profile.ExpectedReturnRate = math.NaN() }, "profile.expectedReturnRate", model.ErrNumericOverflow},

		{"income name required", func(in *model.Input) { in.IncomeSources[1].Name = " " }, "incomeSources[1].name", nil},
		{"income name unique", func(in *model.Input) { in.IncomeSources[2].Name = "  SALARY " }, "incomeSources[2].name", nil},
		{"income id unique", func(in *model.Input) { in.IncomeSources[1].ID = "salary" }, "incomeSources[1].id", nil},
		{"income type", func(in *model.Input) { in.IncomeSources[0].Type = "pension" }, "incomeSources[0].type", nil},
		{"income frequency", func(in *model.Input) { in.IncomeSources[0].Frequency = "fortnightly" }, "incomeSources[0].frequency", nil},
		{"income amount", func(in *model.Input) { in.IncomeSources[2].Amount = 0 }, "incomeSources[2].amount", nil},
		{"custom frequency days", func(in *model.Input) { in.IncomeSources[0].Frequency = model.FrequencyCustom }, "incomeSources[0].customFrequencyDays", nil},
		{"income date format", func(in *model.Input) { in.IncomeSources[1].StartDate = "2030/01" }, "incomeSources[1].startDate", nil},
		{"income end before start", func(in *model.Input) { in.IncomeSources[0].EndDate = "2024-12" }, "incomeSources[0].endDate", nil},
		{"fixed period needs end", func(in *model.Input) { in.IncomeSources[1].Type = model.IncomeFixedPeriod }, "incomeSources[1].endDate", nil},
		{"one-time needs start", func(in *model.Input) { in.IncomeSources[2].StartDate = "" }, "incomeSources[2].startDate", nil},
		{"contribution percentage", func(in *model.Input) { in.IncomeSources[0].ContributionPercentage = 1.5 }, "incomeSources[0].contributionPercentage", nil},

		{"return date", func(in *model.Input) { in.OneOffReturns[0].Date = "soon" }, "oneOffReturns[0].date", nil},
		{"return amount", func(in *model.Input) { in.OneOffReturns[0].Amount = 0 }, "oneOffReturns[0].amount", nil},

		{"expense category", func(in *model.Input) { in.Expenses[0].Category = "gadgets" }, "expenses[0].category", nil},
		{"expense amount", func(in *model.Input) { in.Expenses[0].MonthlyAmount = -5 }, "expenses[0].monthlyAmount", nil},
		{"expense inflation", func(in *model.Input) { in.Expenses[1].InflationRate = 0.2 }, "expenses[1].inflationRate", nil},
		{"expense age window", func(in *model.Input) { in.Expenses[1].EndAge = testutil.Float(60) }, "expenses[1].endAge", nil},

		{"loan principal", func(in *model.Input) { in.Loans[0].Principal = 0 }, "loans[0].principal", model.ErrInvalidLoanParameters},
		{"loan rate", func(in *model.Input) { in.Loans[0].InterestRate = 0.51 }, "loans[0].interestRate", model.ErrInvalidLoanParameters},
		{"loan term", func(in *model.Input) { in.Loans[0].TermMonths = 601 }, "loans[0].termMonths", model.ErrInvalidLoanParameters},
		{"loan start", func(in *model.Input) { in.Loans[0].StartDate = "" }, "loans[0].startDate", model.ErrInvalidLoanParameters},
		{"loan CPF share", func(in *model.Input) { in.Loans[0].CPFPercentage = 120 }, "loans[0].cpfPercentage", model.ErrInvalidLoanParameters},

		{"one-time expense amount", func(in *model.Input) { in.OneTimeExpenses[0].Amount = -1 }, "oneTimeExpenses[0].amount", nil},
		{"one-time expense date", func(in *model.Input) { in.OneTimeExpenses[0].Date = "2028-13" }, "oneTimeExpenses[0].date", nil},

		{"negative CPF balance", func(in *model.Input) { in.CPF.CurrentBalances.Medisave = -100 }, "cpf.currentBalances.medisave", model.ErrInvalidCPFBalance},
		{"retirement account before 55", func(in *model.Input) { in.CPF.CurrentBalances.Retirement = 1000 }, "cpf.currentBalances.retirement", model.ErrInvalidCPFBalance},
		{"retirement sum target", func(in *model.Input) { in.CPF.RetirementSumTarget = "premium" }, "cpf.retirementSumTarget", model.ErrUnknownRetirementTarget},
		{"no eligible income", func(in *model.Input) { in.IncomeSources[0].CPFEligible = false }, "cpf.enabled", model.ErrNoEligibleIncome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := testutil.SampleInput()
			tt.mutate(&input)

			result := Validate(input)
			require.False(t, result.IsValid)
			assert.Contains(t, fields(result), tt.field)

			err := result.Err()
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
			if tt.kind != nil {
				assert.ErrorIs(t, err, tt.kind)
			}

			var verr *Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, result.Errors, verr.Errors)
		})
	}
}

func TestValidateAccumulatesAllViolations(t *testing.T) {
	input := testutil.SampleInput()
	input.Profile.CurrentAge = 10
	input.IncomeSources[0].Amount = -1
	input.Loans[0].TermMonths = 0
	input.CPF.CurrentBalances.Ordinary = -1

	result := Validate(input)
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{
		"profile.currentAge",
		"incomeSources[0].amount",
		"loans[0].termMonths",
		"cpf.currentBalances.ordinary",
	}, fields(result))

	err := result.Err()
	assert.ErrorIs(t, err, model.ErrInvalidLoanParameters)
	assert.ErrorIs(t, err, model.ErrInvalidCPFBalance)
	assert.NotErrorIs(t, err, model.ErrNoEligibleIncome)
	assert.Contains(t, err.Error(), "incomeSources[0].amount: must be greater than zero")
}

func TestValidateDisabledCPFStillChecksBalances(t *testing.T) {
	input := testutil.ConstantIncomeInput()
	input.CPF = &model.CPFConfig{CurrentBalances: model.CPFAccounts{Special: -1}}

	result := Validate(input)
	assert.Equal(t, []string{"cpf.currentBalances.special"}, fields(result))

	input.CPF.CurrentBalances.Special = 0
	assert.True(t, Validate(input).IsValid, "a disabled scheme does not need eligible income")
}

func TestValidateRetirementAccountAfterConsolidationAge(t *testing.T) {
	input := testutil.SampleInput()
	input.Profile.CurrentAge = 56
	input.CPF.CurrentBalances.Retirement = 150000

	result := Validate(input)
	assert.True(t, result.IsValid, "unexpected errors: %v", result.Messages())
}

func TestErrorUnwrapDeduplicatesKinds(t *testing.T) {
	err := &Error{Errors: []FieldError{
		{Field: "loans[0].principal", Message: "must be greater than zero", Kind: model.ErrInvalidLoanParameters},
		{Field: "loans[1].principal", Message: "must be greater than zero", Kind: model.ErrInvalidLoanParameters},
		{Field: "profile.currentAge", Message: "must be between 18 and 100, got 5"},
	}}

	assert.Equal(t, []error{model.ErrInvalidInput, model.ErrInvalidLoanParameters}, err.Unwrap())
	assert.Equal(t, "profile.currentAge: must be between 18 and 100, got 5", err.Errors[2].String())
}
