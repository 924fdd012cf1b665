// Package optimizer solves for the largest monthly retirement spending a plan
// can sustain until its maximum age.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/retirement-forecast/internal/config"
	"github.com/iwvelando/retirement-forecast/internal/projection"
	formatutil "github.com/iwvelando/retirement-forecast/pkg/format"
	"github.com/iwvelando/retirement-forecast/pkg/mathutil"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"github.com/iwvelando/retirement-forecast/pkg/optimization"
	"go.uber.org/zap"
)

const centEpsilon = 1e-9

type Runner struct {
	logger *zap.Logger
	engine *projection.Engine
	input  model.Input
	opts   projection.Options
	cfg    *config.OptimizerConfig
}

type evaluation struct {
	value         float64
	endingBalance float64
	finalAge      float64
	depleted      bool
	floor         float64
}

func (e evaluation) feasible() bool {
	return !e.depleted && e.endingBalance >= e.floor
}

// NewRunner constructs a Runner for the provided plan. A nil cfg uses the
// default bounds.
func NewRunner(logger *zap.Logger, input model.Input, opts projection.Options, cfg *config.OptimizerConfig) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &config.OptimizerConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxAge <= input.Profile.RetirementAge {
		return nil, fmt.Errorf("optimizer requires a max age past retirement age %.1f, got %.1f",
			input.Profile.RetirementAge, opts.MaxAge)
	}

	return &Runner{
		logger: logger,
		engine: projection.NewEngine(logger),
		input:  input,
		opts:   opts,
		cfg:    cfg,
	}, nil
}

// Run bisects the spending bounds. More spending never leaves a larger
// balance, so the feasible set is an interval starting at the minimum.
func (r *Runner) Run() (optimization.Summary, error) {
	minVal := *r.cfg.Min
	maxVal := *r.cfg.Max

	summary := optimization.Summary{
		Field:           r.cfg.Field,
		Original:        r.opts.RetirementSpending,
		OriginalDisplay: formatutil.Currency(r.opts.RetirementSpending),
		MaxAge:          r.opts.MaxAge,
	}

	lowerEval, err := r.evaluate(minVal)
	if err != nil {
		return optimization.Summary{}, err
	}
	if !lowerEval.feasible() {
		applyEvaluation(&summary, lowerEval)
		note := fmt.Sprintf(
			"unable to sustain the minimum spending of %s per month: the portfolio is depleted at age %.2f",
			formatutil.Currency(minVal), lowerEval.finalAge,
		)
		if !lowerEval.depleted {
			note = fmt.Sprintf(
				"unable to sustain the minimum spending of %s per month: the portfolio ends at %s, below the floor of %s",
				formatutil.Currency(minVal), formatutil.Currency(lowerEval.endingBalance), formatutil.Currency(lowerEval.floor),
			)
		}
		summary.Notes = []string{note}
		return summary, nil
	}

	upperEval, err := r.evaluate(maxVal)
	if err != nil {
		return optimization.Summary{}, err
	}
	if upperEval.feasible() {
		applyEvaluation(&summary, upperEval)
		summary.Converged = true
		summary.Notes = []string{fmt.Sprintf(
			"the maximum spending of %s per month is sustainable; raise the maximum to search further",
			formatutil.Currency(maxVal),
		)}
		return summary, nil
	}

	iterations := 0
	best := lowerEval
	lower := minVal
	upper := maxVal
	for iterations < r.cfg.MaxIterations && upper-lower > r.cfg.Tolerance {
		mid := lower + (upper-lower)/2
		evalMid, err := r.evaluate(mid)
		if err != nil {
			return optimization.Summary{}, err
		}
		iterations++
		if evalMid.feasible() {
			best = evalMid
			lower = mid
		} else {
			upper = mid
		}
	}

	// Report whole cents; rounding down keeps the result feasible.
	if floored := math.Floor(lower*100+centEpsilon) / 100; floored < lower {
		flooredEval, err := r.evaluate(floored)
		if err != nil {
			return optimization.Summary{}, err
		}
		if flooredEval.feasible() {
			best = flooredEval
		}
	}

	applyEvaluation(&summary, best)
	summary.Iterations = iterations
	summary.Converged = mathutil.WithinTolerance(upper, lower, r.cfg.Tolerance)

	r.logger.Info("optimizer solved retirement spending",
		zap.String("op", "optimizer.Run"),
		zap.Float64("original", summary.Original),
		zap.Float64("optimized", summary.Value),
		zap.Float64("endingBalance", summary.EndingBalance),
		zap.Int("iterations", iterations),
		zap.Bool("converged", summary.Converged),
	)

	return summary, nil
}

func (r *Runner) evaluate(spending float64) (evaluation, error) {
	opts := r.opts
	opts.RetirementSpending = spending

	series, err := r.engine.Project(r.input, opts)
	if err != nil {
		return evaluation{}, fmt.Errorf("optimizer projection failed: %w", err)
	}
	if len(series) == 0 {
		return evaluation{}, fmt.Errorf("optimizer projection produced no months")
	}

	last := series[len(series)-1]
	return evaluation{
		value:         spending,
		endingBalance: last.PortfolioValue,
		finalAge:      last.Age,
		depleted:      last.Retired && last.PortfolioValue <= 0,
		floor:         r.cfg.Floor(),
	}, nil
}

func applyEvaluation(summary *optimization.Summary, eval evaluation) {
	summary.Value = eval.value
	summary.ValueDisplay = formatutil.Currency(eval.value)
	summary.EndingBalance = eval.endingBalance
}
