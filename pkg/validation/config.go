package validation

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/datetime"
	"github.com/iwvelando/retirement-forecast/pkg/model"
)

// HorizonEnd returns the month in which the plan reaches maxAge.
func HorizonEnd(start time.Time, currentAge, maxAge float64) time.Time {
	months := int(math.Round((maxAge - currentAge) * constants.MonthsPerYear))
	return datetime.AddMonths(start, months)
}

// ValidateLoanMaturity checks if a loan matures before the end of the horizon.
func ValidateLoanMaturity(loanName, startDate, horizonEnd string, termMonths int) (string, error) {
	maturityDate, err := datetime.OffsetDate(startDate, datetime.DateTimeLayout, termMonths)
	if err != nil {
		return "", err
	}

	if maturityDate > horizonEnd {
		return fmt.Sprintf("Loan '%s' matures after the projection horizon (%s > %s) - payments past the horizon are not projected",
			loanName, maturityDate, horizonEnd), nil
	}

	return "", nil
}

// ValidateEntryDates checks if a dated entry falls inside the horizon.
func ValidateEntryDates(entryName, startDate, endDate, horizonEnd string) []string {
	var warnings []string

	if startDate != "" && startDate >= horizonEnd {
		warnings = append(warnings, fmt.Sprintf("%s starts at or after the projection horizon (%s >= %s)",
			entryName, startDate, horizonEnd))
	}

	if endDate != "" && endDate > horizonEnd {
		warnings = append(warnings, fmt.Sprintf("%s ends after the projection horizon (%s > %s)",
			entryName, endDate, horizonEnd))
	}

	return warnings
}

// HorizonValidator produces non-fatal warnings for plan entries that reach
// past the age at which the projection stops.
type HorizonValidator struct {
	Input  model.Input
	Start  time.Time
	MaxAge float64
}

// ValidateAll returns every horizon warning for the plan.
func (hv HorizonValidator) ValidateAll() []string {
	var warnings []string

	horizonEnd := datetime.FormatMonth(HorizonEnd(hv.Start, hv.Input.Profile.CurrentAge, hv.MaxAge))

	if hv.Input.Profile.RetirementAge >= hv.MaxAge {
		warnings = append(warnings, fmt.Sprintf("Retirement age %g is not below the maximum age %g - no retirement months are projected",
			hv.Input.Profile.RetirementAge, hv.MaxAge))
	}

	for _, source := range hv.Input.IncomeSources {
		warnings = append(warnings, ValidateEntryDates(fmt.Sprintf("Income source '%s'", source.Name),
			source.StartDate, source.EndDate, horizonEnd)...)
	}

	for _, ret := range hv.Input.OneOffReturns {
		warnings = append(warnings, ValidateEntryDates(fmt.Sprintf("One-off return '%s'", ret.Description),
			ret.Date, "", horizonEnd)...)
	}

	for _, expense := range hv.Input.Expenses {
		name := fmt.Sprintf("Expense '%s'", expense.Name)
		if expense.AgeBased() {
			if expense.StartAge != nil && *expense.StartAge >= hv.MaxAge {
				warnings = append(warnings, fmt.Sprintf("%s starts at or after the maximum age (%g >= %g)",
					name, *expense.StartAge, hv.MaxAge))
			}
			continue
		}
		warnings = append(warnings, ValidateEntryDates(name, expense.StartDate, expense.EndDate, horizonEnd)...)
	}

	for _, expense := range hv.Input.OneTimeExpenses {
		warnings = append(warnings, ValidateEntryDates(fmt.Sprintf("One-time expense '%s'", expense.Name),
			expense.Date, "", horizonEnd)...)
	}

	for _, loan := range hv.Input.Loans {
		warning, err := ValidateLoanMaturity(loan.Name, loan.StartDate, horizonEnd, loan.TermMonths)
		if err == nil && warning != "" {
			warnings = append(warnings, warning)
		}
	}

	return warnings
}
