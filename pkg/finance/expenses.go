package finance

import (
	"fmt"
	"time"

	"github.com/iwvelando/retirement-forecast/pkg/datetime"
	"github.com/iwvelando/retirement-forecast/pkg/mathutil"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"go.uber.org/zap"
)

// ExpenseSummary aggregates every outflow due in a given month.
type ExpenseSummary struct {
	Recurring float64
	OneTime   float64
	// LoanCash is the part of loan payments paid from cash flow.
	LoanCash float64
	// LoanCPF is the part of housing loan payments drawn from the ordinary
	// account; it never touches the portfolio.
	LoanCPF float64
	Loans   []LoanPayment
}

// Total is the cash outflow of the month.
func (s ExpenseSummary) Total() float64 {
	return s.Recurring + s.OneTime + s.LoanCash
}

// ExpenseProcessor handles recurring, one-time and loan outflows
type ExpenseProcessor struct {
	loanProcessor *LoanProcessor
	logger        *zap.Logger
}

// NewExpenseProcessor creates a new expense processor with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewExpenseProcessor(logger *zap.Logger) *ExpenseProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseProcessor{
		loanProcessor: NewLoanProcessor(logger),
		logger:        logger,
	}
}

// RecurringAmountForMonth returns the escalated monthly amount of expense in
// month, or zero when the expense is outside its window. Age windows are
// half-open, [startAge, endAge), and win over date windows.
func (ep *ExpenseProcessor) RecurringAmountForMonth(expense model.RetirementExpense, month time.Time, age float64, projectionStart time.Time) (float64, error) {
	var years float64

	if expense.AgeBased() {
		if expense.StartAge != nil && age < *expense.StartAge {
			return 0, nil
		}
		if expense.EndAge != nil && age >= *expense.EndAge {
			return 0, nil
		}
		if expense.StartAge != nil {
			years = age - *expense.StartAge
		} else {
			years = datetime.YearsBetween(datetime.StartOfMonth(projectionStart), month)
		}
	} else {
		start, hasStart, err := datetime.ParseOptionalMonth(expense.StartDate)
		if err != nil {
			return 0, fmt.Errorf("expense %s start date: %w", expense.Name, err)
		}
		end, hasEnd, err := datetime.ParseOptionalMonth(expense.EndDate)
		if err != nil {
			return 0, fmt.Errorf("expense %s end date: %w", expense.Name, err)
		}
		if !hasStart {
			start = datetime.StartOfMonth(projectionStart)
		}
		if !hasEnd {
			end = time.Time{}
		}
		if !datetime.InWindow(month, start, end) {
			return 0, nil
		}
		years = datetime.YearsBetween(start, month)
	}

	amount := expense.MonthlyAmount
	if expense.InflationRate != 0 && years > 0 {
		amount *= mathutil.Growth(expense.InflationRate, years)
	}
	return amount, nil
}

// OneTimeAmountForMonth sums the one-time expenses dated in month. Entries
// with a malformed date are skipped.
func (ep *ExpenseProcessor) OneTimeAmountForMonth(expenses []model.OneTimeExpense, month time.Time) float64 {
	total := 0.0
	for _, expense := range expenses {
		date, err := datetime.ParseMonth(expense.Date)
		if err != nil {
			ep.logger.Warn("skipping one-time expense with malformed date",
				zap.String("op", "finance.OneTimeAmountForMonth"),
				zap.String("expense", expense.Name),
				zap.Error(err),
			)
			continue
		}
		if datetime.SameMonth(date, month) {
			ep.logger.Debug("One-time expense due",
				zap.String("date", datetime.FormatMonth(month)),
				zap.String("expense", expense.Name),
				zap.Float64("amount", expense.Amount),
			)
			total += expense.Amount
		}
	}
	return total
}

// ProcessExpensesForMonth aggregates recurring expenses, one-time expenses and
// loan payments due in month. Loan failures abort; a recurring expense with a
// malformed date is logged and contributes nothing.
func (ep *ExpenseProcessor) ProcessExpensesForMonth(month time.Time, age float64, projectionStart time.Time, input model.Input) (ExpenseSummary, error) {
	var summary ExpenseSummary

	for _, expense := range input.Expenses {
		amount, err := ep.RecurringAmountForMonth(expense, month, age, projectionStart)
		if err != nil {
			ep.logger.Warn("skipping expense with malformed date",
				zap.String("op", "finance.ProcessExpensesForMonth"),
				zap.String("expense", expense.Name),
				zap.Error(err),
			)
			continue
		}
		summary.Recurring += amount
	}

	summary.OneTime = ep.OneTimeAmountForMonth(input.OneTimeExpenses, month)

	loanSummary, err := ep.loanProcessor.ProcessLoansForMonth(month, input.Loans)
	if err != nil {
		return ExpenseSummary{}, err
	}
	summary.LoanCash = loanSummary.Cash
	summary.LoanCPF = loanSummary.CPF
	summary.Loans = loanSummary.Payments

	return summary, nil
}
