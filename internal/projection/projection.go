// Package projection simulates a retirement plan month by month and
// summarises the resulting series.
package projection

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/cpf"
	"github.com/iwvelando/retirement-forecast/pkg/datetime"
	"github.com/iwvelando/retirement-forecast/pkg/finance"
	"github.com/iwvelando/retirement-forecast/pkg/mathutil"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"go.uber.org/zap"
)

// Options tune a projection run.
type Options struct {
	// StartDate is the month of the first data point. Zero means the current
	// month.
	StartDate time.Time
	// MaxAge extends the series past retirement for depletion tracking. Values
	// at or below the retirement age stop the series at retirement.
	MaxAge float64
	// RetirementSpending is the fixed monthly withdrawal after retirement.
	RetirementSpending float64
	// RateTable overrides the reference mandatory-savings rates.
	RateTable *cpf.RateTable
}

func (o Options) startMonth() time.Time {
	if o.StartDate.IsZero() {
		return datetime.StartOfMonth(time.Now().UTC())
	}
	return datetime.StartOfMonth(o.StartDate)
}

func (o Options) rateTable() cpf.RateTable {
	if o.RateTable == nil {
		return cpf.DefaultRateTable()
	}
	return *o.RateTable
}

// Engine runs projections.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a new projection engine with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

type horizon struct {
	retirementMonths int
	totalMonths      int
}

func planHorizon(profile model.UserProfile, opts Options) (horizon, error) {
	for name, v := range map[string]float64{
		"current age":          profile.CurrentAge,
		"retirement age":       profile.RetirementAge,
		"current savings":      profile.CurrentSavings,
		"expected return rate": profile.ExpectedReturnRate,
		"inflation rate":       profile.InflationRate,
		"monthly contribution": profile.MonthlyContribution,
		"retirement spending":  opts.RetirementSpending,
		"max age":              opts.MaxAge,
	} {
		if err := mathutil.CheckFinite(name, v); err != nil {
			return horizon{}, fmt.Errorf("%w: %v", model.ErrNumericOverflow, err)
		}
	}
	if math.Abs(profile.ExpectedReturnRate) > constants.MaxAnnualRate {
		return horizon{}, fmt.Errorf("%w: annual return rate %.2f exceeds %.0f%%",
			model.ErrNumericOverflow, profile.ExpectedReturnRate, constants.MaxAnnualRate*constants.PercentageMultiplier)
	}
	if profile.RetirementAge < profile.CurrentAge {
		return horizon{}, fmt.Errorf("%w: retirement age %.1f is before current age %.1f",
			model.ErrInvalidInput, profile.RetirementAge, profile.CurrentAge)
	}

	endAge := math.Max(profile.RetirementAge, opts.MaxAge)
	if endAge-profile.CurrentAge > constants.MaxHorizonYears {
		return horizon{}, fmt.Errorf("%w: horizon of %.1f years exceeds %d",
			model.ErrNumericOverflow, endAge-profile.CurrentAge, constants.MaxHorizonYears)
	}

	return horizon{
		retirementMonths: int(math.Round((profile.RetirementAge - profile.CurrentAge) * constants.MonthsPerYear)),
		totalMonths:      int(math.Round((endAge - profile.CurrentAge) * constants.MonthsPerYear)),
	}, nil
}

// Project produces the monthly series for input. Plans without time-varying
// behaviour use the closed-form annuity up to retirement; everything else is
// simulated month by month. Past retirement the series stops at MaxAge or on
// the first month the portfolio is no longer positive.
func (e *Engine) Project(input model.Input, opts Options) ([]model.MonthlyDataPoint, error) {
	h, err := planHorizon(input.Profile, opts)
	if err != nil {
		return nil, err
	}

	if !input.IsTimeVarying() {
		e.logger.Debug(fmt.Sprintf("using closed form for %d months to retirement", h.retirementMonths),
			zap.String("op", "projection.Project"),
		)
		series, err := closedFormSeries(input, opts.startMonth(), h.retirementMonths)
		if err != nil {
			return nil, err
		}
		return e.simulate(input, opts, h, series)
	}

	e.logger.Debug(fmt.Sprintf("stepping %d months (%d to retirement)", h.totalMonths, h.retirementMonths),
		zap.String("op", "projection.Project"),
	)
	return e.simulate(input, opts, h, nil)
}

// simulate steps from the end of prefix to the end of the horizon.
func (e *Engine) simulate(input model.Input, opts Options, h horizon, prefix []model.MonthlyDataPoint) ([]model.MonthlyDataPoint, error) {
	profile := input.Profile
	start := opts.startMonth()
	monthlyRate := profile.ExpectedReturnRate / constants.MonthsPerYear

	var cpfEngine *cpf.Engine
	if input.CPFEnabled() {
		var err error
		cpfEngine, err = cpf.NewEngine(e.logger, opts.rateTable(), *input.CPF, input.IncomeSources, profile.CurrentAge)
		if err != nil {
			return nil, err
		}
	}

	if input.CPF != nil && !input.CPF.Enabled {
		if err := opts.rateTable().CheckBalances(input.CPF.CurrentBalances, profile.CurrentAge); err != nil {
			return nil, err
		}
	}
	if err := finance.NewLoanProcessor(e.logger).CheckLoans(input.Loans); err != nil {
		return nil, err
	}

	forecastEngine := finance.NewForecastEngine(e.logger)

	series := make([]model.MonthlyDataPoint, 0, h.totalMonths)
	series = append(series, prefix...)
	balance := profile.CurrentSavings
	if len(prefix) > 0 {
		balance = prefix[len(prefix)-1].PortfolioValue
	}

	for i := len(prefix); i < h.totalMonths; i++ {
		month := datetime.AddMonths(start, i)
		age := profile.CurrentAge + float64(i)/constants.MonthsPerYear
		retired := i >= h.retirementMonths

		flows, err := forecastEngine.ProcessMonthlyChanges(month, age, start, input)
		if err != nil {
			return nil, err
		}
		if retired {
			flows.Income = flows.Income.AfterRetirement()
		}

		inflow := flows.Income.Contribution
		outflow := flows.Expenses.Recurring + flows.Expenses.LoanCash
		if retired {
			outflow += opts.RetirementSpending
		} else {
			inflow += profile.MonthlyContribution
		}

		point := model.MonthlyDataPoint{
			MonthIndex: i,
			Year:       month.Year(),
			Month:      int(month.Month()),
			Age:        age,
			Income:     flows.Income.Total,
			Retired:    retired,
		}

		if cpfEngine != nil {
			snapshot, err := cpfEngine.Step(month, age, flows.Income.CPFEligibleWage(), flows.Expenses.LoanCPF)
			if err != nil {
				return nil, err
			}
			outflow += snapshot.LoanShortfall
			point.CPF = &snapshot
		} else {
			// Without the scheme there is no ordinary account to draw from.
			outflow += flows.Expenses.LoanCPF
		}

		if balance > 0 {
			point.Growth = balance * monthlyRate
		}
		balance += point.Growth
		balance += inflow - outflow
		balance -= flows.Expenses.OneTime

		if err := mathutil.CheckFinite("portfolio value", balance); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrNumericOverflow, datetime.FormatMonth(month), err)
		}

		point.Expenses = outflow + flows.Expenses.OneTime
		point.Contributions = inflow - point.Expenses
		point.PortfolioValue = balance
		series = append(series, point)

		if retired && balance <= 0 {
			e.logger.Debug(fmt.Sprintf("portfolio depleted at age %.2f", age),
				zap.String("op", "projection.Project"),
				zap.String("date", datetime.FormatMonth(month)),
			)
			break
		}
	}

	return series, nil
}

// Calculate runs the projection and summarises it.
func (e *Engine) Calculate(input model.Input, opts Options) (model.CalculationResult, error) {
	series, err := e.Project(input, opts)
	if err != nil {
		return model.CalculationResult{}, err
	}
	return Summarize(input, series, opts), nil
}
