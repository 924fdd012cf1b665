package finance

import (
	"fmt"
	"time"

	"github.com/iwvelando/retirement-forecast/pkg/datetime"
	"github.com/iwvelando/retirement-forecast/pkg/frequency"
	"github.com/iwvelando/retirement-forecast/pkg/mathutil"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"go.uber.org/zap"
)

// ActiveIncome is one income source paying in a given month.
type ActiveIncome struct {
	ID           string
	Name         string
	Type         model.IncomeType
	Monthly      float64
	Contribution float64
	CPFEligible  bool
	// OpenEnded is set when the source has no end date.
	OpenEnded bool
	Lump      bool
}

// Employment reports whether the income is earned from work that retirement
// ends: an open-ended salary or any open-ended CPF-eligible source.
func (a ActiveIncome) Employment() bool {
	return a.OpenEnded && !a.Lump && (a.Type == model.IncomeSalary || a.CPFEligible)
}

// IncomeSummary aggregates every income paying in a given month.
type IncomeSummary struct {
	// Total is all income received, lumps included.
	Total float64
	// Contribution is the share of Total diverted to savings.
	Contribution float64
	// Lumps is the one-off part of Total: one-time sources and one-off returns.
	Lumps  float64
	Active []ActiveIncome
}

// CPFEligibleWage sums the monthly income of active CPF-eligible sources.
func (s IncomeSummary) CPFEligibleWage() float64 {
	wage := 0.0
	for _, a := range s.Active {
		if a.CPFEligible {
			wage += a.Monthly
		}
	}
	return wage
}

// AfterRetirement drops open-ended employment income. Sources with an explicit
// end date keep paying to that date, and lumps and one-off returns are kept.
func (s IncomeSummary) AfterRetirement() IncomeSummary {
	kept := IncomeSummary{
		Total:        s.Total,
		Contribution: s.Contribution,
		Lumps:        s.Lumps,
	}
	for _, a := range s.Active {
		if a.Employment() {
			kept.Total -= a.Monthly
			kept.Contribution -= a.Contribution
			continue
		}
		kept.Active = append(kept.Active, a)
	}
	return kept
}

// CPFEligible returns the active CPF-eligible sources.
func (s IncomeSummary) CPFEligible() []ActiveIncome {
	var eligible []ActiveIncome
	for _, a := range s.Active {
		if a.CPFEligible {
			eligible = append(eligible, a)
		}
	}
	return eligible
}

// IncomeProcessor handles income aggregation
type IncomeProcessor struct {
	logger *zap.Logger
}

// NewIncomeProcessor creates a new income processor with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewIncomeProcessor(logger *zap.Logger) *IncomeProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IncomeProcessor{logger: logger}
}

// SourceAmountForMonth returns what a single source pays in month. Sources
// without a start date are active from projectionStart, which is also the
// base for escalation.
func (ip *IncomeProcessor) SourceAmountForMonth(source model.IncomeSource, month, projectionStart time.Time) (float64, error) {
	start, hasStart, err := datetime.ParseOptionalMonth(source.StartDate)
	if err != nil {
		return 0, fmt.Errorf("income source %s start date: %w", source.Name, err)
	}
	end, hasEnd, err := datetime.ParseOptionalMonth(source.EndDate)
	if err != nil {
		return 0, fmt.Errorf("income source %s end date: %w", source.Name, err)
	}

	if source.IsLump() {
		if hasStart && datetime.SameMonth(month, start) {
			return source.Amount, nil
		}
		return 0, nil
	}
	if source.Type == model.IncomeFixedPeriod && !hasEnd {
		return 0, nil
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

	monthly := frequency.ToMonthly(source.Amount, source.Frequency, source.CustomFrequencyDays)
	if source.Type.Escalates() && source.AnnualIncrease != 0 {
		if years := datetime.YearsBetween(start, month); years > 0 {
			monthly *= mathutil.Growth(source.AnnualIncrease, years)
		}
	}
	return monthly, nil
}

// ProcessIncomeForMonth aggregates every source and one-off return paying in
// month. A source with a malformed date contributes nothing for the month and
// the rest of the roster is still aggregated.
func (ip *IncomeProcessor) ProcessIncomeForMonth(month, projectionStart time.Time, sources []model.IncomeSource, returns []model.OneOffReturn) IncomeSummary {
	var summary IncomeSummary

	for _, source := range sources {
		amount, err := ip.SourceAmountForMonth(source, month, projectionStart)
		if err != nil {
			ip.logger.Warn("skipping income source with malformed date",
				zap.String("op", "finance.ProcessIncomeForMonth"),
				zap.String("source", source.Name),
				zap.Error(err),
			)
			continue
		}
		if amount == 0 {
			continue
		}

		contribution := amount * mathutil.Clamp(source.ContributionPercentage, 0, 1)
		summary.Total += amount
		summary.Contribution += contribution
		if source.IsLump() {
			summary.Lumps += amount
		}
		summary.Active = append(summary.Active, ActiveIncome{
			ID:           source.ID,
			Name:         source.Name,
			Type:         source.Type,
			Monthly:      amount,
			Contribution: contribution,
			CPFEligible:  source.CPFEligible,
			OpenEnded:    source.EndDate == "",
			Lump:         source.IsLump(),
		})
		ip.logger.Debug("Income active",
			zap.String("date", datetime.FormatMonth(month)),
			zap.String("source", source.Name),
			zap.Float64("amount", amount),
		)
	}

	for _, ret := range returns {
		date, err := datetime.ParseMonth(ret.Date)
		if err != nil {
			ip.logger.Warn("skipping one-off return with malformed date",
				zap.String("op", "finance.ProcessIncomeForMonth"),
				zap.String("return", ret.Description),
				zap.Error(err),
			)
			continue
		}
		if !datetime.SameMonth(month, date) {
			continue
		}
		summary.Total += ret.Amount
		summary.Contribution += ret.Amount
		summary.Lumps += ret.Amount
	}

	return summary
}
