package cpf

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

// Engine steps one person's accounts through a projection. It owns a private
// copy of the starting balances, so a new Engine is needed per run.
type Engine struct {
	logger *zap.Logger
	table  RateTable

	accounts     model.CPFAccounts
	target       float64
	manual       bool
	consolidated bool

	yearToDate     float64
	yearToDateYear int
}

// NewEngine validates cfg against the roster and returns an engine primed
// with the starting balances. currentAge guards the rule that the retirement
// account stays empty until the consolidation age.
func NewEngine(logger *zap.Logger, table RateTable, cfg model.CPFConfig, sources []model.IncomeSource, currentAge float64) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	balances := cfg.CurrentBalances
	if err := table.CheckBalances(balances, currentAge); err != nil {
		return nil, err
	}

	if cfg.Enabled && !hasEligibleIncome(sources) {
		return nil, model.ErrNoEligibleIncome
	}

	target, err := table.TargetSum(cfg.RetirementSumTarget)
	if err != nil {
		return nil, err
	}

	return &Engine{
		logger:   logger,
		table:    table,
		accounts: balances,
		target:   target,
		manual:   cfg.ManualOverride,
	}, nil
}

// CheckBalances rejects negative starting balances and a funded retirement
// account before the consolidation age.
func (t RateTable) CheckBalances(balances model.CPFAccounts, currentAge float64) error {
	accounts := []struct {
		name  string
		value float64
	}{
		{"ordinary", balances.Ordinary},
		{"special", balances.Special},
		{"medisave", balances.Medisave},
		{"retirement", balances.Retirement},
	}
	for _, a := range accounts {
		if a.value < 0 || math.IsNaN(a.value) {
			return fmt.Errorf("%w: %s account %.2f", model.ErrInvalidCPFBalance, a.name, a.value)
		}
	}
	if balances.Retirement > 0 && currentAge < t.ConsolidationAge {
		return fmt.Errorf("%w: retirement account must be empty before age %.0f",
			model.ErrInvalidCPFBalance, t.ConsolidationAge)
	}
	return nil
}

func hasEligibleIncome(sources []model.IncomeSource) bool {
	for _, s := range sources {
		if s.CPFEligible {
			return true
		}
	}
	return false
}

// Accounts returns the current balances.
func (e *Engine) Accounts() model.CPFAccounts {
	return e.accounts
}

// Consolidated reports whether the consolidation event has fired.
func (e *Engine) Consolidated() bool {
	return e.consolidated
}

// Step advances the accounts by one month: contribution from eligibleWage
// (capped by the annual ceiling), interest, the consolidation event on the
// first month at or past the consolidation age, and the ordinary-account draw
// for housing loans. The draw never takes the account below zero; the part it
// cannot cover is reported as LoanShortfall.
func (e *Engine) Step(month time.Time, age, eligibleWage, loanShare float64) (model.CPFMonth, error) {
	if month.Year() != e.yearToDateYear {
		e.yearToDateYear = month.Year()
		e.yearToDate = 0
	}

	var snapshot model.CPFMonth
	if !e.manual {
		snapshot.MonthlyContribution = e.contribute(age, math.Max(0, eligibleWage))
	}
	snapshot.MonthlyInterest = e.accrueInterest(age)

	if !e.consolidated && age >= e.table.ConsolidationAge {
		e.consolidate()
		snapshot.Consolidated = true
		e.logger.Debug("consolidated special account into retirement account",
			zap.String("op", "cpf.Step"),
			zap.String("date", datetime.FormatMonth(month)),
			zap.Float64("retirement", e.accounts.Retirement),
			zap.Float64("ordinary", e.accounts.Ordinary),
		)
	}

	if loanShare > 0 {
		draw := math.Min(e.accounts.Ordinary, loanShare)
		e.accounts.Ordinary -= draw
		snapshot.LoanDraw = draw
		snapshot.LoanShortfall = loanShare - draw
		if snapshot.LoanShortfall > 0 {
			e.logger.Debug("ordinary account cannot cover housing loan share",
				zap.String("op", "cpf.Step"),
				zap.String("date", datetime.FormatMonth(month)),
				zap.Float64("shortfall", snapshot.LoanShortfall),
			)
		}
	}

	if err := mathutil.CheckFinite("CPF balance", e.accounts.Total()); err != nil {
		return model.CPFMonth{}, fmt.Errorf("%w: %v", model.ErrNumericOverflow, err)
	}

	snapshot.Accounts = e.accounts
	snapshot.YearToDateContributions = e.yearToDate
	return snapshot, nil
}

func (e *Engine) contribute(age, wage float64) model.CPFContribution {
	band := e.table.BandFor(age)
	total := wage * band.Total()
	if total <= 0 {
		return model.CPFContribution{}
	}

	scale := 1.0
	if headroom := math.Max(0, e.table.AnnualCeiling-e.yearToDate); total > headroom {
		scale = headroom / total
	}

	c := model.CPFContribution{
		Total:      total * scale,
		Employee:   wage * band.Employee * scale,
		Employer:   wage * band.Employer * scale,
		Ordinary:   wage * band.Ordinary * scale,
		Special:    wage * band.Special * scale,
		Medisave:   wage * band.Medisave * scale,
		Retirement: wage * band.Retirement * scale,
	}
	// The special account closes at consolidation; later allocations go to
	// the retirement account, and the retirement account only opens then.
	if e.consolidated {
		c.Retirement += c.Special
		c.Special = 0
	} else if age < e.table.ConsolidationAge {
		c.Special += c.Retirement
		c.Retirement = 0
	}

	e.accounts.Ordinary += c.Ordinary
	e.accounts.Special += c.Special
	e.accounts.Medisave += c.Medisave
	e.accounts.Retirement += c.Retirement
	e.yearToDate += c.Total
	return c
}

func (e *Engine) accrueInterest(age float64) model.CPFInterest {
	rates := e.table.Interest
	i := model.CPFInterest{
		Ordinary:   e.accounts.Ordinary * rates.Ordinary / constants.MonthsPerYear,
		Special:    e.accounts.Special * rates.Special / constants.MonthsPerYear,
		Medisave:   e.accounts.Medisave * rates.Medisave / constants.MonthsPerYear,
		Retirement: e.accounts.Retirement * rates.Retirement / constants.MonthsPerYear,
	}

	extra := e.table.Extra
	if extra.Rate > 0 && age < extra.BelowAge {
		base := math.Min(e.accounts.Ordinary, extra.OrdinaryCap) +
			e.accounts.Special + e.accounts.Medisave + e.accounts.Retirement
		base = math.Min(base, extra.BalanceCap)
		i.Extra = base * extra.Rate / constants.MonthsPerYear
		if e.consolidated {
			i.Retirement += i.Extra
		} else {
			i.Special += i.Extra
		}
	}

	e.accounts.Ordinary += i.Ordinary
	e.accounts.Special += i.Special
	e.accounts.Medisave += i.Medisave
	e.accounts.Retirement += i.Retirement
	return i
}

func (e *Engine) consolidate() {
	headroom := math.Max(0, e.target-e.accounts.Retirement)
	moved := math.Min(e.accounts.Special, headroom)
	e.accounts.Retirement += moved
	e.accounts.Ordinary += e.accounts.Special - moved

	if e.table.TopUpFromOrdinary {
		topUp := math.Min(e.accounts.Ordinary, math.Max(0, e.target-e.accounts.Retirement))
		e.accounts.Ordinary -= topUp
		e.accounts.Retirement += topUp
	}

	e.accounts.Special = 0
	e.consolidated = true
}
