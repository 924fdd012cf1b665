package config

import (
	"errors"
	"fmt"
	"strings"
)

// Optimizer directive values.
const (
	OptimizerFieldRetirementSpending = "retirementSpending"

	// OptimizerKindSustain keeps the portfolio positive to the maximum age.
	OptimizerKindSustain = "sustain"
	// OptimizerKindLegacy additionally keeps EndingFloor in the portfolio at
	// the maximum age.
	OptimizerKindLegacy = "legacy"

	defaultToleranceAmount = 0.01
	defaultMaxIterations   = 60
	defaultMaxSpending     = 50000.0
)

var spendingAliases = map[string]bool{
	"retirementspending":  true,
	"retirement_spending": true,
	"retirement-spending": true,
	"spending":            true,
}

// OptimizerConfig is the spending solver directive: the largest monthly
// retirement spending within [Min, Max] the plan can carry to its maximum age.
type OptimizerConfig struct {
	Field         string   `yaml:"field,omitempty" mapstructure:"field"`
	Kind          string   `yaml:"kind,omitempty" mapstructure:"kind"`
	Min           *float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max           *float64 `yaml:"max,omitempty" mapstructure:"max"`
	EndingFloor   float64  `yaml:"endingFloor,omitempty" mapstructure:"endingFloor"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerField maps the accepted spellings of a field to its
// canonical name. Blank means retirement spending.
func CanonicalOptimizerField(value string) string {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" || spendingAliases[key] {
		return OptimizerFieldRetirementSpending
	}
	return key
}

// Normalize fills unset bounds and limits with their defaults.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Field = CanonicalOptimizerField(o.Field)
	if o.Kind = strings.ToLower(strings.TrimSpace(o.Kind)); o.Kind == "" {
		o.Kind = OptimizerKindSustain
	}

	if o.Min == nil {
		o.Min = new(float64)
	}
	if o.Max == nil {
		upper := defaultMaxSpending
		o.Max = &upper
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultToleranceAmount
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Floor is the balance the portfolio must still hold at the maximum age.
func (o *OptimizerConfig) Floor() float64 {
	if o == nil || o.Kind != OptimizerKindLegacy {
		return 0
	}
	return o.EndingFloor
}

// Validate normalizes the directive and rejects what the solver cannot run.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return errors.New("optimizer configuration cannot be nil")
	}
	o.Normalize()

	switch {
	case o.Field != OptimizerFieldRetirementSpending:
		return fmt.Errorf("optimizer field %q is not supported", o.Field)
	case o.Kind != OptimizerKindSustain && o.Kind != OptimizerKindLegacy:
		return fmt.Errorf("optimizer kind %q is not supported", o.Kind)
	case *o.Min < 0:
		return fmt.Errorf("optimizer minimum %.2f cannot be negative", *o.Min)
	case *o.Min >= *o.Max:
		return fmt.Errorf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	case o.EndingFloor < 0:
		return fmt.Errorf("optimizer ending floor %.2f cannot be negative", o.EndingFloor)
	case o.Kind == OptimizerKindLegacy && o.EndingFloor == 0:
		return fmt.Errorf("optimizer kind %q requires a positive endingFloor", OptimizerKindLegacy)
	}
	return nil
}
