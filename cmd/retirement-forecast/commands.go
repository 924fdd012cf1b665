package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/retirement-forecast/internal/optimizer"
	"github.com/iwvelando/retirement-forecast/internal/projection"
	"github.com/iwvelando/retirement-forecast/pkg/cpf"
	"github.com/iwvelando/retirement-forecast/pkg/output"
	"github.com/iwvelando/retirement-forecast/pkg/planner"
	"github.com/iwvelando/retirement-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func plannerFor(logger *zap.Logger, opts projection.Options) *planner.Planner {
	options := []planner.Option{
		planner.WithStartDate(opts.StartDate),
		planner.WithMaxAge(opts.MaxAge),
		planner.WithRetirementSpending(opts.RetirementSpending),
	}
	if opts.RateTable != nil {
		options = append(options, planner.WithRateTable(*opts.RateTable))
	}
	return planner.New(logger, options...)
}

// runWithPlanner opens the plan and hands a configured planner to fn.
func runWithPlanner(flags *cliFlags, fn func(s *session, p *planner.Planner) error) error {
	s, err := openSession(flags)
	if err != nil {
		return err
	}
	defer s.close()

	opts, err := s.conf.ProjectionOptions(time.Now())
	if err != nil {
		s.logger.Error("failed to resolve projection options",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}
	return fn(s, plannerFor(s.logger, opts))
}

func calculateCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "calculate",
		Short: "Summarise the plan at retirement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithPlanner(flags, func(s *session, p *planner.Planner) error {
				result, err := p.CalculateRetirement(s.conf.Input)
				var verr *validation.Error
				if errors.As(err, &verr) {
					if werr := output.Validation(cmd.OutOrStdout(), s.outputFormat, validation.Result{Errors: verr.Errors}); werr != nil {
						return werr
					}
					return err
				}
				if err != nil {
					s.logger.Error("failed to calculate retirement",
						zap.String("op", "main"),
						zap.Error(err),
					)
					return err
				}
				return output.Summary(cmd.OutOrStdout(), s.outputFormat, result)
			})
		},
	}
}

func projectCmd(flags *cliFlags) *cobra.Command {
	var maxAge float64
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Print the month-by-month projection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithPlanner(flags, func(s *session, p *planner.Planner) error {
				series, err := p.GenerateMonthlyProjections(s.conf.Input, maxAge)
				if err != nil {
					s.logger.Error("failed to generate projections",
						zap.String("op", "main"),
						zap.Error(err),
					)
					return err
				}
				if s.conf.Output.Inflation {
					series = planner.ApplyInflationAdjustment(series, s.conf.Input.Profile.InflationRate)
				}
				return output.Projection(cmd.OutOrStdout(), s.outputFormat, series)
			})
		},
	}
	cmd.Flags().Float64Var(&maxAge, "max-age", 0, "age to project to, overriding the plan")
	return cmd
}

func validateCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the plan and list every problem found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithPlanner(flags, func(s *session, p *planner.Planner) error {
				result := p.Validate(s.conf.Input)
				if err := output.Validation(cmd.OutOrStdout(), s.outputFormat, result); err != nil {
					return err
				}
				return result.Err()
			})
		},
	}
}

func solveSpendingCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "solve-spending",
		Short: "Find the highest monthly retirement spending that lasts to the maximum age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithPlanner(flags, func(s *session, p *planner.Planner) error {
				if err := p.Validate(s.conf.Input).Err(); err != nil {
					return err
				}
				runner, err := optimizer.NewRunner(s.logger, s.conf.Input, p.Options(), s.conf.Optimizer)
				if err != nil {
					return fmt.Errorf("failed to create optimizer: %w", err)
				}
				summary, err := runner.Run()
				if err != nil {
					s.logger.Error("failed to solve retirement spending",
						zap.String("op", "main"),
						zap.Error(err),
					)
					return err
				}
				return output.Optimization(cmd.OutOrStdout(), s.outputFormat, summary)
			})
		},
	}
}

func exportCmd(flags *cliFlags) *cobra.Command {
	var rates bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the normalised plan, or the effective CPF rate table, as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(flags)
			if err != nil {
				return err
			}
			defer s.close()

			if !rates {
				return s.conf.ExportYAML(cmd.OutOrStdout())
			}
			opts, err := s.conf.ProjectionOptions(time.Now())
			if err != nil {
				return err
			}
			table := cpf.DefaultRateTable()
			if opts.RateTable != nil {
				table = *opts.RateTable
			}
			return table.Export(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&rates, "rates", false, "export the CPF rate table instead of the plan")
	return cmd
}
