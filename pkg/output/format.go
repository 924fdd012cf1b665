// Package output provides utilities for formatting and displaying projection results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/iwvelando/retirement-forecast/pkg/constants"
	formatutil "github.com/iwvelando/retirement-forecast/pkg/format"
	"github.com/iwvelando/retirement-forecast/pkg/mathutil"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"github.com/iwvelando/retirement-forecast/pkg/optimization"
	"github.com/iwvelando/retirement-forecast/pkg/validation"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

func heading(w io.Writer, title string) error {
	_, err := fmt.Fprintln(w, headingStyle.Render("--- "+title+" ---"))
	return err
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(constants.DecimalPlaces)
}

func unsupported(format string) error {
	return fmt.Errorf("unsupported output format %q", format)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// Summary writes the aggregate result of a calculation.
func Summary(w io.Writer, format string, result model.CalculationResult) error {
	switch format {
	case constants.OutputFormatJSON:
		return JSON(w, result)
	case constants.OutputFormatCSV:
		return summaryCSV(w, result)
	case constants.OutputFormatPretty:
		return summaryPretty(w, result)
	}
	return unsupported(format)
}

func depletionText(result model.CalculationResult) string {
	if result.YearsUntilDepletion == nil {
		return "not depleted"
	}
	return strconv.FormatFloat(*result.YearsUntilDepletion, 'f', 2, 64) + " years"
}

func summaryPretty(w io.Writer, result model.CalculationResult) error {
	if err := heading(w, "Retirement summary"); err != nil {
		return err
	}
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(w, "Years to retirement        | %.2f\n", result.YearsToRetirement)
	_, _ = p.Fprintf(w, "Total savings              | %s\n", formatutil.Currency(result.TotalSavings))
	_, _ = p.Fprintf(w, "Inflation-adjusted savings | %s\n", formatutil.Currency(result.InflationAdjustedSavings))
	_, _ = p.Fprintf(w, "Total contributions        | %s\n", formatutil.Currency(result.TotalContributions))
	_, _ = p.Fprintf(w, "Interest earned            | %s\n", formatutil.Currency(result.InterestEarned))
	_, _ = p.Fprintf(w, "Monthly retirement income  | %s\n", formatutil.Currency(result.MonthlyRetirementIncome))
	_, _ = p.Fprintf(w, "Depletion                  | %s\n", depletionText(result))
	if result.CPFBalances != nil {
		b := result.CPFBalances
		_, _ = p.Fprintf(w, "CPF at retirement          | OA %s, SA %s, MA %s, RA %s\n",
			formatutil.Currency(b.Ordinary), formatutil.Currency(b.Special),
			formatutil.Currency(b.Medisave), formatutil.Currency(b.Retirement))
	}
	if result.SustainabilityWarning {
		_, err := fmt.Fprintf(w, "Warning: retirement spending is not sustainable at a %s withdrawal rate\n",
			formatutil.Percent(constants.SafeWithdrawalRate))
		return err
	}
	return nil
}

func summaryCSV(w io.Writer, result model.CalculationResult) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"metric", "value"},
		{"yearsToRetirement", strconv.FormatFloat(result.YearsToRetirement, 'f', 2, 64)},
		{"totalSavings", money(result.TotalSavings)},
		{"inflationAdjustedSavings", money(result.InflationAdjustedSavings)},
		{"totalContributions", money(result.TotalContributions)},
		{"interestEarned", money(result.InterestEarned)},
		{"monthlyRetirementIncome", money(result.MonthlyRetirementIncome)},
		{"yearsUntilDepletion", ""},
		{"sustainabilityWarning", strconv.FormatBool(result.SustainabilityWarning)},
	}
	if result.YearsUntilDepletion != nil {
		rows[7][1] = strconv.FormatFloat(*result.YearsUntilDepletion, 'f', 2, 64)
	}
	if b := result.CPFBalances; b != nil {
		rows = append(rows,
			[]string{"cpfOrdinary", money(b.Ordinary)},
			[]string{"cpfSpecial", money(b.Special)},
			[]string{"cpfMedisave", money(b.Medisave)},
			[]string{"cpfRetirement", money(b.Retirement)},
		)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV summary: %w", err)
	}
	return nil
}

// Projection writes a monthly series.
func Projection(w io.Writer, format string, series []model.MonthlyDataPoint) error {
	switch format {
	case constants.OutputFormatJSON:
		return JSON(w, series)
	case constants.OutputFormatCSV:
		return projectionCSV(w, series)
	case constants.OutputFormatPretty:
		return projectionPretty(w, series)
	}
	return unsupported(format)
}

func monthLabel(point model.MonthlyDataPoint) string {
	return fmt.Sprintf("%04d-%02d", point.Year, point.Month)
}

// projectionPretty prints one row per year plus the final month.
func projectionPretty(w io.Writer, series []model.MonthlyDataPoint) error {
	if err := heading(w, "Monthly projection"); err != nil {
		return err
	}
	p := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "Date    | Age   | Income | Expenses | Contributions | Portfolio | CPF total | Notes\n")
	_, _ = fmt.Fprintf(w, "____    | ___   | ______ | ________ | _____________ | _________ | _________ | _____\n")
	for i, point := range series {
		if point.Month != 12 && i != len(series)-1 {
			continue
		}
		cpfTotal := "-"
		var notes []string
		if point.CPF != nil {
			cpfTotal = formatutil.Currency(point.CPF.Accounts.Total())
			if !mathutil.IsZero(point.CPF.LoanShortfall) {
				notes = append(notes, "CPF loan shortfall "+formatutil.Currency(point.CPF.LoanShortfall))
			}
		}
		if point.Retired && point.PortfolioValue <= 0 {
			notes = append(notes, "portfolio depleted")
		}
		_, _ = p.Fprintf(w, "%s | %.2f | %s | %s | %s | %s | %s | %v\n",
			monthLabel(point), point.Age,
			formatutil.Currency(point.Income), formatutil.Currency(point.Expenses),
			formatutil.Currency(point.Contributions), formatutil.Currency(point.PortfolioValue),
			cpfTotal, notes)
	}
	return nil
}

func projectionCSV(w io.Writer, series []model.MonthlyDataPoint) error {
	cw := csv.NewWriter(w)
	header := []string{
		"date", "monthIndex", "age", "retired", "income", "expenses", "contributions", "growth", "portfolioValue",
		"cpfOrdinary", "cpfSpecial", "cpfMedisave", "cpfRetirement", "cpfContribution", "cpfInterest",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, point := range series {
		row := []string{
			monthLabel(point),
			strconv.Itoa(point.MonthIndex),
			strconv.FormatFloat(point.Age, 'f', 2, 64),
			strconv.FormatBool(point.Retired),
			money(point.Income),
			money(point.Expenses),
			money(point.Contributions),
			money(point.Growth),
			money(point.PortfolioValue),
			"", "", "", "", "", "",
		}
		if c := point.CPF; c != nil {
			row[9] = money(c.Accounts.Ordinary)
			row[10] = money(c.Accounts.Special)
			row[11] = money(c.Accounts.Medisave)
			row[12] = money(c.Accounts.Retirement)
			row[13] = money(c.MonthlyContribution.Total)
			row[14] = money(c.MonthlyInterest.Total())
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Validation writes the outcome of validating a plan.
func Validation(w io.Writer, format string, result validation.Result) error {
	switch format {
	case constants.OutputFormatJSON:
		return JSON(w, result)
	case constants.OutputFormatCSV:
		cw := csv.NewWriter(w)
		rows := [][]string{{"field", "message"}}
		for _, fe := range result.Errors {
			rows = append(rows, []string{fe.Field, fe.Message})
		}
		if err := cw.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write CSV validation: %w", err)
		}
		return nil
	case constants.OutputFormatPretty:
		if err := heading(w, "Validation"); err != nil {
			return err
		}
		if result.IsValid {
			_, err := fmt.Fprintln(w, "Plan is valid")
			return err
		}
		_, _ = fmt.Fprintf(w, "Plan has %d error(s):\n", len(result.Errors))
		for _, message := range result.Messages() {
			_, _ = fmt.Fprintf(w, "  - %s\n", message)
		}
		return nil
	}
	return unsupported(format)
}

// Optimization writes the spending solver summary.
func Optimization(w io.Writer, format string, summary optimization.Summary) error {
	switch format {
	case constants.OutputFormatJSON:
		return JSON(w, summary)
	case constants.OutputFormatCSV:
		cw := csv.NewWriter(w)
		rows := [][]string{
			{"field", "original", "value", "maxAge", "endingBalance", "iterations", "converged"},
			{
				summary.Field,
				money(summary.Original),
				money(summary.Value),
				strconv.FormatFloat(summary.MaxAge, 'f', -1, 64),
				money(summary.EndingBalance),
				strconv.Itoa(summary.Iterations),
				strconv.FormatBool(summary.Converged),
			},
		}
		if err := cw.WriteAll(rows); err != nil {
			return fmt.Errorf("failed to write CSV optimization: %w", err)
		}
		return nil
	case constants.OutputFormatPretty:
		if err := heading(w, "Sustainable retirement spending"); err != nil {
			return err
		}
		p := message.NewPrinter(language.English)
		_, _ = p.Fprintf(w, "Configured spending | %s\n", formatutil.Currency(summary.Original))
		_, _ = p.Fprintf(w, "Sustainable to %.0f  | %s per month\n", summary.MaxAge, formatutil.Currency(summary.Value))
		if summary.Improved() {
			_, _ = p.Fprintf(w, "Headroom            | %s above configured spending\n", formatutil.Currency(summary.Value-summary.Original))
		}
		_, _ = p.Fprintf(w, "Ending balance      | %s\n", formatutil.Currency(summary.EndingBalance))
		_, _ = p.Fprintf(w, "Iterations          | %d (converged: %t)\n", summary.Iterations, summary.Converged)
		for _, note := range summary.Notes {
			_, _ = fmt.Fprintf(w, "Note: %s\n", note)
		}
		return nil
	}
	return unsupported(format)
}
