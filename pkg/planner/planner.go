// Package planner is the entry point for callers of the retirement engine:
// validate a plan, calculate its summary, generate its monthly series and
// discount a series for inflation.
package planner

import (
	"fmt"
	"time"

	"github.com/iwvelando/retirement-forecast/internal/projection"
	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/cpf"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"github.com/iwvelando/retirement-forecast/pkg/validation"
	"go.uber.org/zap"
)

// Planner runs projections with a fixed set of options. It holds no state
// between calls, so one Planner may serve concurrent callers.
type Planner struct {
	logger *zap.Logger
	engine *projection.Engine
	opts   projection.Options
}

// Option configures a Planner.
type Option func(*Planner)

// WithStartDate sets the month of the first data point. The default is the
// current month.
func WithStartDate(start time.Time) Option {
	return func(p *Planner) {
		p.opts.StartDate = start
	}
}

// WithRateTable replaces the reference mandatory-savings rates.
func WithRateTable(table cpf.RateTable) Option {
	return func(p *Planner) {
		p.opts.RateTable = &table
	}
}

// WithMaxAge sets the age up to which retirement depletion is tracked.
func WithMaxAge(age float64) Option {
	return func(p *Planner) {
		p.opts.MaxAge = age
	}
}

// WithRetirementSpending sets the fixed monthly withdrawal after retirement.
func WithRetirementSpending(monthly float64) Option {
	return func(p *Planner) {
		p.opts.RetirementSpending = monthly
	}
}

// New creates a Planner. If logger is nil, it will use a no-op logger.
func New(logger *zap.Logger, options ...Option) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Planner{
		logger: logger,
		engine: projection.NewEngine(logger),
		opts:   projection.Options{MaxAge: constants.DefaultMaxAge},
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Options returns the projection options the planner runs with.
func (p *Planner) Options() projection.Options {
	return p.opts
}

// Validate checks the plan and reports every violation.
func (p *Planner) Validate(input model.Input) validation.Result {
	return validation.Validate(input)
}

// CalculateRetirement validates the plan and summarises its projection. An
// invalid plan is refused with a *validation.Error.
func (p *Planner) CalculateRetirement(input model.Input) (model.CalculationResult, error) {
	if err := p.Validate(input).Err(); err != nil {
		p.logger.Debug("refusing to calculate an invalid plan",
			zap.String("op", "planner.CalculateRetirement"),
			zap.Error(err),
		)
		return model.CalculationResult{}, err
	}

	result, err := p.engine.Calculate(input, p.opts)
	if err != nil {
		return model.CalculationResult{}, fmt.Errorf("failed to calculate retirement: %w", err)
	}
	return result, nil
}

// GenerateMonthlyProjections returns the monthly series up to maxAge. A
// maxAge of zero uses the planner's configured maximum age.
func (p *Planner) GenerateMonthlyProjections(input model.Input, maxAge float64) ([]model.MonthlyDataPoint, error) {
	opts := p.opts
	if maxAge > 0 {
		opts.MaxAge = maxAge
	}
	series, err := p.engine.Project(input, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate projections: %w", err)
	}
	return series, nil
}

// ApplyInflationAdjustment discounts every monetary field of series to
// today's money. The input series is not modified.
func ApplyInflationAdjustment(series []model.MonthlyDataPoint, inflationRate float64) []model.MonthlyDataPoint {
	return projection.ApplyInflationAdjustment(series, inflationRate)
}
