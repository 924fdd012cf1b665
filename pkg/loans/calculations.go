// Package loans provides common loan processing utilities.
package loans

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/datetime"
	"github.com/iwvelando/retirement-forecast/pkg/mathutil"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"go.uber.org/zap"
)

const (
	minTermYears = 1
	maxTermYears = 50
)

// Payment holds the values for a given payment.
type Payment struct {
	Payment            float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
	CPFShare           float64
}

// MonthlyPayment calculates the fixed monthly payment for a loan using the
// standard amortization formula with the term expressed in years.
func MonthlyPayment(principal, annualRate, termYears float64) (float64, error) {
	if termYears < minTermYears || termYears > maxTermYears {
		return 0, fmt.Errorf("%w: term %.2f years outside [%d, %d]",
			model.ErrInvalidLoanParameters, termYears, minTermYears, maxTermYears)
	}
	if err := checkPrincipalAndRate(principal, annualRate); err != nil {
		return 0, err
	}
	return amortize(principal, annualRate, termYears*constants.MonthsPerYear)
}

// MonthlyPaymentForTerm calculates the fixed monthly payment for a loan whose
// term is given in months.
func MonthlyPaymentForTerm(principal, annualRate float64, termMonths int) (float64, error) {
	if termMonths < 1 || termMonths > constants.MaxLoanTermMonth {
		return 0, fmt.Errorf("%w: term %d months outside [1, %d]",
			model.ErrInvalidLoanParameters, termMonths, constants.MaxLoanTermMonth)
	}
	if err := checkPrincipalAndRate(principal, annualRate); err != nil {
		return 0, err
	}
	return amortize(principal, annualRate, float64(termMonths))
}

func checkPrincipalAndRate(principal, annualRate float64) error {
	if principal <= 0 || math.IsNaN(principal) {
		return fmt.Errorf("%w: principal must be greater than 0, got %.2f", model.ErrInvalidLoanParameters, principal)
	}
	if principal > constants.SafetyCeiling {
		return fmt.Errorf("%w: principal %.2f exceeds the safety ceiling", model.ErrNumericOverflow, principal)
	}
	if annualRate < 0 || annualRate > constants.MaxLoanRate || math.IsNaN(annualRate) {
		return fmt.Errorf("%w: annual rate %.4f outside [0, %.2f]",
			model.ErrInvalidLoanParameters, annualRate, constants.MaxLoanRate)
	}
	return nil
}

func amortize(principal, annualRate, n float64) (float64, error) {
	r := annualRate / constants.MonthsPerYear
	if r == 0 {
		return principal / n, nil
	}
	power := math.Pow(1+r, n)
	payment := principal * r * power / (power - 1)
	if err := mathutil.CheckFinite("loan payment", payment); err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrNumericOverflow, err)
	}
	return payment, nil
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualRate float64) float64 {
	return remainingPrincipal * annualRate / constants.MonthsPerYear
}

// RemainingBalance returns the outstanding principal after paymentsMade
// payments without re-amortizing.
func RemainingBalance(principal, annualRate float64, termMonths, paymentsMade int) (float64, error) {
	payment, err := MonthlyPaymentForTerm(principal, annualRate, termMonths)
	if err != nil {
		return 0, err
	}
	if paymentsMade <= 0 {
		return principal, nil
	}
	if paymentsMade >= termMonths {
		return 0, nil
	}

	r := annualRate / constants.MonthsPerYear
	k := float64(paymentsMade)
	var balance float64
	if r == 0 {
		balance = principal - payment*k
	} else {
		power := math.Pow(1+r, k)
		balance = principal*power - payment*(power-1)/r
	}
	return math.Max(0, balance), nil
}

// IsDue reports whether a payment falls in month, i.e. start ≤ month <
// start+termMonths.
func IsDue(loan model.Loan, month time.Time) (bool, error) {
	start, err := datetime.ParseMonth(loan.StartDate)
	if err != nil {
		return false, err
	}
	elapsed := datetime.MonthsBetween(start, month)
	return elapsed >= 0 && elapsed < loan.TermMonths, nil
}

// CPFShare returns the portion of payment sourced from the ordinary account.
// Loans outside the housing category always pay from cash flow.
func CPFShare(loan model.Loan, payment float64) float64 {
	if !loan.DrawsFromCPF() {
		return 0
	}
	return payment * mathutil.Clamp(loan.CPFPercentage, 0, constants.PercentageMultiplier) / constants.PercentageMultiplier
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates a complete amortization schedule for a loan keyed
// by YYYY-MM.
func (g *AmortizationScheduleGenerator) GenerateSchedule(loan model.Loan) (map[string]Payment, error) {
	monthlyPayment, err := MonthlyPaymentForTerm(loan.Principal, loan.InterestRate, loan.TermMonths)
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", loan.Name, err)
	}
	start, err := datetime.ParseMonth(loan.StartDate)
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", loan.Name, err)
	}

	schedule := make(map[string]Payment, loan.TermMonths)
	remaining := loan.Principal
	for month := 0; month < loan.TermMonths; month++ {
		var current Payment
		current.Payment = monthlyPayment
		current.Interest = CalculateInterestPayment(remaining, loan.InterestRate)
		current.Principal = monthlyPayment - current.Interest

		if month == loan.TermMonths-1 || mathutil.Round(remaining-current.Principal) <= 0 {
			// We will get machine error otherwise so just set to 0.
			current.RemainingPrincipal = 0
		} else {
			current.RemainingPrincipal = remaining - current.Principal
		}
		current.CPFShare = CPFShare(loan, monthlyPayment)

		schedule[datetime.FormatMonth(datetime.AddMonths(start, month))] = current
		remaining = current.RemainingPrincipal
	}

	g.logger.Debug(fmt.Sprintf("generated %d payments of %.2f for loan %s", len(schedule), monthlyPayment, loan.Name),
		zap.String("op", "loans.GenerateSchedule"),
	)
	return schedule, nil
}
