// Package validation checks retirement plans before they reach the
// projection engine and produces non-fatal horizon warnings for plan files.
package validation

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/datetime"
	"github.com/iwvelando/retirement-forecast/pkg/frequency"
	"github.com/iwvelando/retirement-forecast/pkg/model"
)

// Validate checks every entity of the plan and accumulates all violations.
func Validate(input model.Input) Result {
	c := &collector{}

	validateProfile(c, input.Profile)

	ids := map[string]string{}
	names := map[string]int{}
	for i, source := range input.IncomeSources {
		loc := fmt.Sprintf("incomeSources[%d]", i)
		checkID(c, ids, loc, source.ID)
		name := strings.ToLower(strings.TrimSpace(source.Name))
		if name != "" {
			if first, ok := names[name]; ok {
				c.add(loc+".name", nil, "duplicates the name of incomeSources[%d]", first)
			} else {
				names[name] = i
			}
		}
		validateIncomeSource(c, loc, source)
	}
	for i, ret := range input.OneOffReturns {
		loc := fmt.Sprintf("oneOffReturns[%d]", i)
		checkID(c, ids, loc, ret.ID)
		validateOneOffReturn(c, loc, ret)
	}
	for i, expense := range input.Expenses {
		loc := fmt.Sprintf("expenses[%d]", i)
		checkID(c, ids, loc, expense.ID)
		validateExpense(c, loc, expense)
	}
	for i, loan := range input.Loans {
		loc := fmt.Sprintf("loans[%d]", i)
		checkID(c, ids, loc, loan.ID)
		validateLoan(c, loc, loan)
	}
	for i, expense := range input.OneTimeExpenses {
		loc := fmt.Sprintf("oneTimeExpenses[%d]", i)
		checkID(c, ids, loc, expense.ID)
		validateOneTimeExpense(c, loc, expense)
	}
	if input.CPF != nil {
		validateCPF(c, input)
	}

	return c.result()
}

func validateProfile(c *collector, p model.UserProfile) {
	for _, f := range []namedValue{
		{"currentAge", p.CurrentAge},
		{"retirementAge", p.RetirementAge},
		{"currentSavings", p.CurrentSavings},
		{"expectedReturnRate", p.ExpectedReturnRate},
		{"inflationRate", p.InflationRate},
		{"monthlyContribution", p.MonthlyContribution},
	} {
		if !finite(f.value) {
			c.add("profile."+f.name, model.ErrNumericOverflow, "must be a finite number")
		}
	}

	switch {
	case p.CurrentAge < constants.MinAge || p.CurrentAge > constants.MaxAge:
		c.add("profile.currentAge", nil, "must be between %d and %d, got %g", constants.MinAge, constants.MaxAge, p.CurrentAge)
	case p.RetirementAge <= p.CurrentAge:
		c.add("profile.retirementAge", nil, "must be greater than current age %g, got %g", p.CurrentAge, p.RetirementAge)
	}
	if p.RetirementAge > constants.MaxAge {
		c.add("profile.retirementAge", nil, "must not exceed %d, got %g", constants.MaxAge, p.RetirementAge)
	}

	if p.CurrentSavings < 0 {
		c.add("profile.currentSavings", nil, "cannot be negative")
	} else if p.CurrentSavings > constants.MaxCurrentSavings {
		c.add("profile.currentSavings", nil, "is unrealistically high (over %.0f)", constants.MaxCurrentSavings)
	}
	if p.MonthlyContribution < 0 {
		c.add("profile.monthlyContribution", nil, "cannot be negative")
	} else if p.MonthlyContribution > constants.MaxMonthlyContribution {
		c.add("profile.monthlyContribution", nil, "is unrealistically high (over %.0f per month)", constants.MaxMonthlyContribution)
	}

	checkRate(c, "profile.expectedReturnRate", p.ExpectedReturnRate, 0, constants.MaxReturnRate, nil)
	checkRate(c, "profile.inflationRate", p.InflationRate, 0, constants.MaxInflationRate, nil)
}

func validateIncomeSource(c *collector, loc string, s model.IncomeSource) {
	if strings.TrimSpace(s.Name) == "" {
		c.add(loc+".name", nil, "is required")
	}
	if !slices.Contains(model.IncomeTypes, s.Type) {
		c.add(loc+".type", nil, "unknown income type %q", s.Type)
	}
	if !frequency.Valid(s.Frequency) {
		c.add(loc+".frequency", nil, "unknown frequency %q", s.Frequency)
	}
	if !finite(s.Amount) || s.Amount <= 0 {
		c.add(loc+".amount", nil, "must be greater than zero")
	}
	switch {
	case s.Frequency == model.FrequencyCustom && s.CustomFrequencyDays <= 0:
		c.add(loc+".customFrequencyDays", nil, "must be positive for a custom frequency")
	case s.Frequency != model.FrequencyCustom && s.CustomFrequencyDays != 0:
		c.add(loc+".customFrequencyDays", nil, "is only allowed with a custom frequency")
	}

	start, hasStart := checkOptionalMonth(c, loc+".startDate", s.StartDate)
	end, hasEnd := checkOptionalMonth(c, loc+".endDate", s.EndDate)
	if hasStart && hasEnd && end.Before(start) {
		c.add(loc+".endDate", nil, "must not be before startDate")
	}
	if s.Type == model.IncomeFixedPeriod && strings.TrimSpace(s.EndDate) == "" {
		c.add(loc+".endDate", nil, "is required for a fixed-period source")
	}
	if s.IsLump() && strings.TrimSpace(s.StartDate) == "" {
		c.add(loc+".startDate", nil, "is required for a one-time source")
	}

	checkRate(c, loc+".annualIncrease", s.AnnualIncrease, -1, 1, nil)
	checkRate(c, loc+".contributionPercentage", s.ContributionPercentage, 0, 1, nil)
}

func validateOneOffReturn(c *collector, loc string, r model.OneOffReturn) {
	checkMonth(c, loc+".date", r.Date)
	if !finite(r.Amount) || r.Amount == 0 {
		c.add(loc+".amount", nil, "must be a non-zero amount")
	}
}

func validateExpense(c *collector, loc string, e model.RetirementExpense) {
	if strings.TrimSpace(e.Name) == "" {
		c.add(loc+".name", nil, "is required")
	}
	if e.Category != "" && !slices.Contains(model.ExpenseCategories, e.Category) {
		c.add(loc+".category", nil, "unknown category %q", e.Category)
	}
	if !finite(e.MonthlyAmount) || e.MonthlyAmount < 0 {
		c.add(loc+".monthlyAmount", nil, "cannot be negative")
	}
	checkRate(c, loc+".inflationRate", e.InflationRate, 0, constants.MaxInflationRate, nil)

	start, hasStart := checkOptionalMonth(c, loc+".startDate", e.StartDate)
	end, hasEnd := checkOptionalMonth(c, loc+".endDate", e.EndDate)
	if hasStart && hasEnd && end.Before(start) {
		c.add(loc+".endDate", nil, "must not be before startDate")
	}

	if e.StartAge != nil && (*e.StartAge < 0 || *e.StartAge > constants.MaxAge) {
		c.add(loc+".startAge", nil, "must be between 0 and %d", constants.MaxAge)
	}
	if e.EndAge != nil && (*e.EndAge < 0 || *e.EndAge > constants.MaxAge) {
		c.add(loc+".endAge", nil, "must be between 0 and %d", constants.MaxAge)
	}
	if e.StartAge != nil && e.EndAge != nil && *e.EndAge <= *e.StartAge {
		c.add(loc+".endAge", nil, "must be greater than startAge")
	}
}

func validateLoan(c *collector, loc string, l model.Loan) {
	kind := model.ErrInvalidLoanParameters
	if strings.TrimSpace(l.Name) == "" {
		c.add(loc+".name", nil, "is required")
	}
	if !finite(l.Principal) || l.Principal <= 0 {
		c.add(loc+".principal", kind, "must be greater than zero")
	} else if l.Principal > constants.SafetyCeiling {
		c.add(loc+".principal", kind, "exceeds %.0f", constants.SafetyCeiling)
	}
	checkRate(c, loc+".interestRate", l.InterestRate, 0, constants.MaxLoanRate, kind)
	if l.TermMonths < 1 || l.TermMonths > constants.MaxLoanTermMonth {
		c.add(loc+".termMonths", kind, "must be between 1 and %d, got %d", constants.MaxLoanTermMonth, l.TermMonths)
	}
	if _, err := datetime.ParseMonth(l.StartDate); err != nil {
		c.add(loc+".startDate", kind, "must be a YYYY-MM month, got %q", l.StartDate)
	}
	if l.CPFPercentage < 0 || l.CPFPercentage > constants.PercentageMultiplier {
		c.add(loc+".cpfPercentage", kind, "must be between 0 and 100, got %g", l.CPFPercentage)
	}
}

func validateOneTimeExpense(c *collector, loc string, e model.OneTimeExpense) {
	if strings.TrimSpace(e.Name) == "" {
		c.add(loc+".name", nil, "is required")
	}
	if !finite(e.Amount) || e.Amount <= 0 {
		c.add(loc+".amount", nil, "must be greater than zero")
	}
	checkMonth(c, loc+".date", e.Date)
}

func validateCPF(c *collector, input model.Input) {
	cfg := input.CPF
	balances := cfg.CurrentBalances
	for _, f := range []namedValue{
		{"ordinary", balances.Ordinary},
		{"special", balances.Special},
		{"medisave", balances.Medisave},
		{"retirement", balances.Retirement},
	} {
		if !finite(f.value) || f.value < 0 {
			c.add("cpf.currentBalances."+f.name, model.ErrInvalidCPFBalance, "cannot be negative")
		}
	}
	if balances.Retirement > 0 && input.Profile.CurrentAge < constants.CPFConsolidationAge {
		c.add("cpf.currentBalances.retirement", model.ErrInvalidCPFBalance,
			"must be zero before age %d", constants.CPFConsolidationAge)
	}

	switch cfg.RetirementSumTarget {
	case "", model.RetirementSumBasic, model.RetirementSumFull, model.RetirementSumEnhanced:
	default:
		c.add("cpf.retirementSumTarget", model.ErrUnknownRetirementTarget, "unknown target %q", cfg.RetirementSumTarget)
	}

	if cfg.Enabled && !input.HasEligibleIncome() {
		c.add("cpf.enabled", model.ErrNoEligibleIncome, "requires at least one CPF-eligible income source")
	}
}

func checkID(c *collector, seen map[string]string, loc, id string) {
	if id == "" {
		return
	}
	if first, ok := seen[id]; ok {
		c.add(loc+".id", nil, "duplicates the id of %s", first)
		return
	}
	seen[id] = loc
}

func checkRate(c *collector, field string, v, lo, hi float64, kind error) {
	if !finite(v) || v < lo || v > hi {
		c.add(field, kind, "must be between %g%% and %g%%, got %g", lo*100, hi*100, v)
	}
}

func checkMonth(c *collector, field, date string) {
	if _, err := datetime.ParseMonth(date); err != nil {
		c.add(field, nil, "must be a YYYY-MM month, got %q", date)
	}
}

func checkOptionalMonth(c *collector, field, date string) (time.Time, bool) {
	t, present, err := datetime.ParseOptionalMonth(date)
	if err != nil {
		c.add(field, nil, "must be a YYYY-MM month, got %q", date)
		return time.Time{}, false
	}
	return t, present
}

type namedValue struct {
	name  string
	value float64
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
