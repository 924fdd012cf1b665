package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncomeSourceIsTimeVarying(t *testing.T) {
	tests := []struct {
		name   string
		source IncomeSource
		want   bool
	}{
		{"constant salary", IncomeSource{Type: IncomeSalary, Frequency: FrequencyMonthly}, false},
		{"escalating salary", IncomeSource{Type: IncomeSalary, Frequency: FrequencyMonthly, AnnualIncrease: 0.03}, true},
		{"dividend ignores escalation", IncomeSource{Type: IncomeDividend, Frequency: FrequencyMonthly, AnnualIncrease: 0.03}, false},
		{"dated", IncomeSource{Type: IncomeRental, Frequency: FrequencyMonthly, StartDate: "2030-01"}, true},
		{"one-time type", IncomeSource{Type: IncomeOneTime, Frequency: FrequencyMonthly}, true},
		{"one-time frequency", IncomeSource{Type: IncomeCustom, Frequency: FrequencyOneTime}, true},
		{"fixed period", IncomeSource{Type: IncomeFixedPeriod, Frequency: FrequencyMonthly}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.source.IsTimeVarying())
		})
	}
}

func TestLoanDrawsFromCPF(t *testing.T) {
	housing := Loan{Category: LoanCategoryHousing, UseCPF: true, CPFPercentage: 50}
	assert.True(t, housing.DrawsFromCPF())

	car := housing
	car.Category = "vehicle"
	assert.False(t, car.DrawsFromCPF(), "only housing loans may draw from the ordinary account")

	cash := housing
	cash.UseCPF = false
	assert.False(t, cash.DrawsFromCPF())
}

func TestInputIsTimeVarying(t *testing.T) {
	in := Input{IncomeSources: []IncomeSource{{Type: IncomeSalary, Frequency: FrequencyMonthly, Amount: 100}}}
	assert.False(t, in.IsTimeVarying())

	in.CPF = &CPFConfig{Enabled: true}
	assert.True(t, in.IsTimeVarying())

	in.CPF.Enabled = false
	in.Loans = []Loan{{Name: "car"}}
	assert.True(t, in.IsTimeVarying())
}

func TestCPFAccountsTotal(t *testing.T) {
	a := CPFAccounts{Ordinary: 1, Special: 2, Medisave: 3, Retirement: 4}
	assert.Equal(t, 10.0, a.Total())
}
