package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"github.com/iwvelando/retirement-forecast/pkg/optimization"
	"github.com/iwvelando/retirement-forecast/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() model.CalculationResult {
	years := 8.33
	return model.CalculationResult{
		TotalSavings:             1234567.891,
		MonthlyRetirementIncome:  4115.23,
		YearsToRetirement:        30,
		TotalContributions:       432000,
		InterestEarned:           752567.89,
		YearsUntilDepletion:      &years,
		SustainabilityWarning:    true,
		InflationAdjustedSavings: 588000.5,
		CPFBalances:              &model.CPFAccounts{Ordinary: 1000, Medisave: 2000, Retirement: 3000},
	}
}

func sampleSeries() []model.MonthlyDataPoint {
	return []model.MonthlyDataPoint{
		{MonthIndex: 0, Year: 2025, Month: 11, Age: 35, Income: 6000, Expenses: 800, Contributions: 1200, PortfolioValue: 51450},
		{MonthIndex: 1, Year: 2025, Month: 12, Age: 35.08, Income: 6000, Expenses: 800, Contributions: 1200, PortfolioValue: 52907.25, Growth: 257.25,
			CPF: &model.CPFMonth{
				MonthlyContribution: model.CPFContribution{Total: 1850},
				MonthlyInterest:     model.CPFInterest{Ordinary: 10, Special: 5},
				Accounts:            model.CPFAccounts{Ordinary: 1150, Special: 300, Medisave: 400},
				LoanShortfall:       12.5,
			}},
		{MonthIndex: 2, Year: 2026, Month: 1, Age: 35.17, Retired: true, PortfolioValue: -10},
	}
}

func TestSummaryPretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, "pretty", sampleResult()))
	out := buf.String()

	assert.Contains(t, out, "--- Retirement summary ---")
	assert.Contains(t, out, "$1,234,567.89")
	assert.Contains(t, out, "8.33 years")
	assert.Contains(t, out, "OA $1,000.00, SA $0.00, MA $2,000.00, RA $3,000.00")
	assert.Contains(t, out, "Warning: retirement spending is not sustainable at a 4.00% withdrawal rate")
}

func TestSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, "csv", sampleResult()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	values := map[string]string{}
	for _, record := range records[1:] {
		values[record[0]] = record[1]
	}

	assert.Equal(t, []string{"metric", "value"}, records[0])
	assert.Equal(t, "1234567.89", values["totalSavings"])
	assert.Equal(t, "8.33", values["yearsUntilDepletion"])
	assert.Equal(t, "true", values["sustainabilityWarning"])
	assert.Equal(t, "3000.00", values["cpfRetirement"])
}

func TestSummaryCSVWithoutDepletion(t *testing.T) {
	result := sampleResult()
	result.YearsUntilDepletion = nil
	result.CPFBalances = nil

	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, "csv", result))
	assert.Contains(t, buf.String(), "yearsUntilDepletion,\n")
	assert.NotContains(t, buf.String(), "cpfOrdinary")
}

func TestSummaryJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, "json", sampleResult()))

	var decoded model.CalculationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleResult(), decoded)
	assert.Contains(t, buf.String(), `"yearsUntilDepletion": 8.33`)
}

func TestProjectionPretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Projection(&buf, "pretty", sampleSeries()))
	out := buf.String()

	assert.Contains(t, out, "--- Monthly projection ---")
	assert.NotContains(t, out, "2025-11", "only year ends and the final month are listed")
	assert.Contains(t, out, "2025-12 | 35.08 | $6,000.00 | $800.00 | $1,200.00 | $52,907.25 | $1,850.00")
	assert.Contains(t, out, "CPF loan shortfall $12.50")
	assert.Contains(t, out, "2026-01")
	assert.Contains(t, out, "portfolio depleted")
}

func TestProjectionCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Projection(&buf, "csv", sampleSeries()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "date", records[0][0])
	assert.Equal(t, []string{"2025-11", "0", "35.00", "false", "6000.00", "800.00", "1200.00", "0.00", "51450.00", "", "", "", "", "", ""}, records[1])
	assert.Equal(t, "1150.00", records[2][9])
	assert.Equal(t, "1850.00", records[2][13])
	assert.Equal(t, "15.00", records[2][14])
	assert.Equal(t, "-10.00", records[3][8])
}

func TestProjectionJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Projection(&buf, "json", sampleSeries()))

	var decoded []model.MonthlyDataPoint
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleSeries(), decoded)
}

func TestValidationOutput(t *testing.T) {
	invalid := validation.Result{Errors: []validation.FieldError{
		{Field: "loans[0].termMonths", Message: "must be between 1 and 600, got 0"},
	}}

	var pretty bytes.Buffer
	require.NoError(t, Validation(&pretty, "pretty", invalid))
	assert.Contains(t, pretty.String(), "Plan has 1 error(s):")
	assert.Contains(t, pretty.String(), "  - loans[0].termMonths: must be between 1 and 600, got 0")

	var valid bytes.Buffer
	require.NoError(t, Validation(&valid, "pretty", validation.Result{IsValid: true}))
	assert.Contains(t, valid.String(), "Plan is valid")

	var csvOut bytes.Buffer
	require.NoError(t, Validation(&csvOut, "csv", invalid))
	assert.Equal(t, "field,message\nloans[0].termMonths,\"must be between 1 and 600, got 0\"\n", csvOut.String())

	var jsonOut bytes.Buffer
	require.NoError(t, Validation(&jsonOut, "json", invalid))
	assert.Contains(t, jsonOut.String(), `"field": "loans[0].termMonths"`)
}

func TestOptimizationOutput(t *testing.T) {
	summary := optimization.Summary{
		Field:         "retirementSpending",
		Original:      3000,
		Value:         4321.09,
		MaxAge:        90,
		EndingBalance: 12.34,
		Iterations:    23,
		Converged:     true,
		Notes:         []string{"example note"},
	}

	var pretty bytes.Buffer
	require.NoError(t, Optimization(&pretty, "pretty", summary))
	assert.Contains(t, pretty.String(), "Sustainable to 90  | $4,321.09 per month")
	assert.Contains(t, pretty.String(), "Headroom            | $1,321.09 above configured spending")
	assert.Contains(t, pretty.String(), "Note: example note")

	var csvOut bytes.Buffer
	require.NoError(t, Optimization(&csvOut, "csv", summary))
	lines := strings.Split(strings.TrimSpace(csvOut.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "retirementSpending,3000.00,4321.09,90,12.34,23,true", lines[1])
}

func TestUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Summary(&buf, "xml", sampleResult()))
	assert.Error(t, Projection(&buf, "xml", nil))
	assert.Error(t, Validation(&buf, "xml", validation.Result{}))
	assert.Error(t, Optimization(&buf, "xml", optimization.Summary{}))
	assert.Empty(t, buf.String())
}
