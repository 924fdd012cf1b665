// Package finance aggregates the monthly cash flows of a retirement plan:
// income, recurring and one-time expenses, and loan payments.
package finance

import (
	"fmt"
	"time"

	"github.com/iwvelando/retirement-forecast/pkg/datetime"
	"github.com/iwvelando/retirement-forecast/pkg/loans"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"go.uber.org/zap"
)

// LoanPayment is one loan's payment in a given month.
type LoanPayment struct {
	ID      string
	Name    string
	Payment float64
	Cash    float64
	CPF     float64
	Housing bool
}

// LoanSummary aggregates the loan payments due in a given month.
type LoanSummary struct {
	Cash     float64
	CPF      float64
	Payments []LoanPayment
}

// LoanProcessor handles loan payment processing
type LoanProcessor struct {
	logger *zap.Logger
}

// NewLoanProcessor creates a new loan processor with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewLoanProcessor(logger *zap.Logger) *LoanProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoanProcessor{logger: logger}
}

// CheckLoans rejects any loan whose terms cannot be amortized or whose start
// month is malformed, whether or not it falls due inside the horizon.
func (lp *LoanProcessor) CheckLoans(loanList []model.Loan) error {
	for _, loan := range loanList {
		if _, err := loans.MonthlyPaymentForTerm(loan.Principal, loan.InterestRate, loan.TermMonths); err != nil {
			return fmt.Errorf("loan %s: %w", loan.Name, err)
		}
		if _, err := datetime.ParseMonth(loan.StartDate); err != nil {
			return fmt.Errorf("%w: loan %s start date: %v", model.ErrInvalidLoanParameters, loan.Name, err)
		}
	}
	return nil
}

// ProcessLoansForMonth returns the payments of every loan due in month, split
// between cash flow and the ordinary account.
func (lp *LoanProcessor) ProcessLoansForMonth(month time.Time, loanList []model.Loan) (LoanSummary, error) {
	var summary LoanSummary

	for _, loan := range loanList {
		due, err := loans.IsDue(loan, month)
		if err != nil {
			return LoanSummary{}, fmt.Errorf("loan %s: %w", loan.Name, err)
		}
		if !due {
			continue
		}

		payment, err := loans.MonthlyPaymentForTerm(loan.Principal, loan.InterestRate, loan.TermMonths)
		if err != nil {
			return LoanSummary{}, fmt.Errorf("loan %s: %w", loan.Name, err)
		}
		cpfShare := loans.CPFShare(loan, payment)

		lp.logger.Debug("Loan payment active",
			zap.String("date", datetime.FormatMonth(month)),
			zap.String("loan", loan.Name),
			zap.Float64("amount", payment),
			zap.Float64("cpf", cpfShare),
		)

		summary.Cash += payment - cpfShare
		summary.CPF += cpfShare
		summary.Payments = append(summary.Payments, LoanPayment{
			ID:      loan.ID,
			Name:    loan.Name,
			Payment: payment,
			Cash:    payment - cpfShare,
			CPF:     cpfShare,
			Housing: loan.Category == model.LoanCategoryHousing,
		})
	}
	return summary, nil
}

// MonthlyFlows is every cash flow of one simulated month.
type MonthlyFlows struct {
	Income   IncomeSummary
	Expenses ExpenseSummary
}

// NetContribution is what the month adds to the portfolio before one-time
// expenses: the saved share of income less recurring expenses and the cash
// share of loan payments.
func (f MonthlyFlows) NetContribution() float64 {
	return f.Income.Contribution - f.Expenses.Recurring - f.Expenses.LoanCash
}

// ForecastEngine coordinates the income and expense processors
type ForecastEngine struct {
	incomeProcessor  *IncomeProcessor
	expenseProcessor *ExpenseProcessor
	logger           *zap.Logger
}

// NewForecastEngine creates a new forecast engine
func NewForecastEngine(logger *zap.Logger) *ForecastEngine {
	if logger == nil {
		// Create a no-op logger if none provided
		logger = zap.NewNop()
	}

	return &ForecastEngine{
		incomeProcessor:  NewIncomeProcessor(logger),
		expenseProcessor: NewExpenseProcessor(logger),
		logger:           logger,
	}
}

// ProcessMonthlyChanges gathers every income and outflow of month.
func (fe *ForecastEngine) ProcessMonthlyChanges(month time.Time, age float64, projectionStart time.Time, input model.Input) (MonthlyFlows, error) {
	if fe.incomeProcessor == nil || fe.expenseProcessor == nil {
		return MonthlyFlows{}, fmt.Errorf("forecast engine not properly initialized")
	}

	income := fe.incomeProcessor.ProcessIncomeForMonth(month, projectionStart, input.IncomeSources, input.OneOffReturns)
	expenses, err := fe.expenseProcessor.ProcessExpensesForMonth(month, age, projectionStart, input)
	if err != nil {
		return MonthlyFlows{}, fmt.Errorf("failed to process expenses for %s: %w", datetime.FormatMonth(month), err)
	}

	return MonthlyFlows{Income: income, Expenses: expenses}, nil
}
