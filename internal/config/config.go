// Package config defines the data structures related to configuration and
// includes functions for loading, normalising and exporting a plan file.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/retirement-forecast/internal/projection"
	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/cpf"
	"github.com/iwvelando/retirement-forecast/pkg/datetime"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"github.com/iwvelando/retirement-forecast/pkg/validation"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds a retirement plan together with the settings of the
// run that projects it.
type Configuration struct {
	model.Input `mapstructure:",squash" yaml:",inline"`

	Projection ProjectionConfig `yaml:"projection,omitempty"`
	Optimizer  *OptimizerConfig `yaml:"optimizer,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
}

// ProjectionConfig holds the projection run options.
type ProjectionConfig struct {
	StartDate          string  `yaml:"startDate,omitempty"` // YYYY-MM, defaults to the current month
	MaxAge             float64 `yaml:"maxAge,omitempty"`
	RetirementSpending float64 `yaml:"retirementSpending,omitempty"` // monthly withdrawal after retirement
	RateTable          string  `yaml:"rateTable,omitempty"`          // optional YAML rate table path
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format    string `yaml:"format,omitempty"` // pretty, csv, json
	Inflation bool   `yaml:"inflation,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()
	configuration.AssignIDs()

	return &configuration, nil
}

// ApplyDefaults fills the run settings the file left out.
func (c *Configuration) ApplyDefaults() {
	if c.Projection.MaxAge == 0 {
		c.Projection.MaxAge = constants.DefaultMaxAge
	}
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
}

// AssignIDs gives every plan entry without an id a random one so that
// validation errors and outputs can refer to it.
func (c *Configuration) AssignIDs() {
	for i := range c.IncomeSources {
		assignID(&c.IncomeSources[i].ID)
	}
	for i := range c.OneOffReturns {
		assignID(&c.OneOffReturns[i].ID)
	}
	for i := range c.Expenses {
		assignID(&c.Expenses[i].ID)
	}
	for i := range c.Loans {
		assignID(&c.Loans[i].ID)
	}
	for i := range c.OneTimeExpenses {
		assignID(&c.OneTimeExpenses[i].ID)
	}
}

func assignID(id *string) {
	if strings.TrimSpace(*id) == "" {
		*id = uuid.NewString()
	}
}

// StartMonth returns the configured projection start.
func (c *Configuration) StartMonth() (time.Time, error) {
	return c.StartMonthWithFixedTime(time.Now())
}

// StartMonthWithFixedTime returns the configured projection start, falling
// back to the month of fixedTime.
func (c *Configuration) StartMonthWithFixedTime(fixedTime time.Time) (time.Time, error) {
	start, ok, err := datetime.ParseOptionalMonth(c.Projection.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid projection start date: %w", err)
	}
	if !ok {
		return datetime.StartOfMonth(fixedTime.UTC()), nil
	}
	return start, nil
}

// ProjectionOptions resolves the run settings into projection options,
// loading the rate table file when one is configured.
func (c *Configuration) ProjectionOptions(fixedTime time.Time) (projection.Options, error) {
	start, err := c.StartMonthWithFixedTime(fixedTime)
	if err != nil {
		return projection.Options{}, err
	}

	opts := projection.Options{
		StartDate:          start,
		MaxAge:             c.Projection.MaxAge,
		RetirementSpending: c.Projection.RetirementSpending,
	}

	if c.Projection.RateTable != "" {
		table, err := cpf.LoadRateTable(c.Projection.RateTable)
		if err != nil {
			return projection.Options{}, err
		}
		opts.RateTable = &table
	}

	return opts, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	return c.ValidateConfigurationWithFixedTime(time.Now())
}

// ValidateConfigurationWithFixedTime returns the non-fatal warnings for the
// plan, measured against a horizon that starts at the configured start date
// or at fixedTime.
func (c *Configuration) ValidateConfigurationWithFixedTime(fixedTime time.Time) []string {
	var warnings []string

	start, err := c.StartMonthWithFixedTime(fixedTime)
	if err != nil {
		return append(warnings, err.Error())
	}

	maxAge := c.Projection.MaxAge
	if maxAge == 0 {
		maxAge = constants.DefaultMaxAge
	}

	validator := validation.HorizonValidator{Input: c.Input, Start: start, MaxAge: maxAge}
	return append(warnings, validator.ValidateAll()...)
}

// ExportYAML writes the configuration in the same layout LoadConfiguration
// reads.
func (c *Configuration) ExportYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}
