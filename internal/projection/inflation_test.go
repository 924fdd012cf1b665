package projection

import (
	"testing"

	"github.com/iwvelando/retirement-forecast/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyInflationAdjustment(t *testing.T) {
	series := []model.MonthlyDataPoint{
		{MonthIndex: 0, Income: 1000, Expenses: 500, Contributions: 500, PortfolioValue: 10000, Growth: 50},
		{
			MonthIndex: 12, Income: 1000, Expenses: 500, Contributions: 500, PortfolioValue: 11000, Growth: 55,
			CPF: &model.CPFMonth{
				MonthlyContribution: model.CPFContribution{Total: 110, Employee: 60, Employer: 50, Ordinary: 110},
				MonthlyInterest:     model.CPFInterest{Ordinary: 11, Extra: 2.2},
				Accounts:            model.CPFAccounts{Ordinary: 1100, Medisave: 220},
			},
		},
	}

	adjusted := ApplyInflationAdjustment(series, 0.1)
	require.Len(t, adjusted, 2)

	assert.Equal(t, series[0].PortfolioValue, adjusted[0].PortfolioValue)
	assert.InDelta(t, 10000, adjusted[1].PortfolioValue, 1e-9)
	assert.InDelta(t, 50, adjusted[1].Growth, 1e-9)
	assert.InDelta(t, 1000/1.1, adjusted[1].Income, 1e-9)
	assert.InDelta(t, 100, adjusted[1].CPF.MonthlyContribution.Total, 1e-9)
	assert.InDelta(t, 2, adjusted[1].CPF.MonthlyInterest.Extra, 1e-9)
	assert.InDelta(t, 1000, adjusted[1].CPF.Accounts.Ordinary, 1e-9)
	assert.InDelta(t, 200, adjusted[1].CPF.Accounts.Medisave, 1e-9)

	// the caller's series, CPF snapshots included, is unchanged
	assert.Equal(t, 11000.0, series[1].PortfolioValue)
	assert.Equal(t, 1100.0, series[1].CPF.Accounts.Ordinary)
	assert.NotSame(t, series[1].CPF, adjusted[1].CPF)
}

func TestApplyInflationAdjustmentZeroRate(t *testing.T) {
	series := []model.MonthlyDataPoint{{MonthIndex: 36, PortfolioValue: 1234.56}}
	adjusted := ApplyInflationAdjustment(series, 0)
	assert.Equal(t, series, adjusted)
	assert.Empty(t, ApplyInflationAdjustment(nil, 0.03))
}
