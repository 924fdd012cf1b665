package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/iwvelando/retirement-forecast/internal/config"
	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cliFlags are the persistent flags shared by every subcommand.
type cliFlags struct {
	configLocation string
	outputFormat   string
	logLevel       string
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zc zap.Config
	switch format {
	case "console":
		zc = zap.NewDevelopmentConfig()
	case "json":
		zc = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zc.Level = zap.NewAtomicLevelAt(zapLevel)

	// Logs go to stderr unless a file is configured, so stdout carries only
	// the report.
	zc.OutputPaths = []string{"stderr"}
	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}
		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		zc.OutputPaths = []string{loggingConfig.OutputFile}
		zc.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zc.Build()
}

// session is a loaded plan with its logger and resolved output format.
type session struct {
	conf         *config.Configuration
	logger       *zap.Logger
	outputFormat string
}

func openSession(flags *cliFlags) (*session, error) {
	conf, err := config.LoadConfiguration(flags.configLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", flags.configLocation, err)
	}

	logger, err := initializeLogger(conf.Logging, flags.logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	outputFormat := conf.Output.Format
	if flags.outputFormat != "" {
		outputFormat = flags.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		_ = logger.Sync()
		return nil, err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	return &session{conf: conf, logger: logger, outputFormat: outputFormat}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "retirement-forecast %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(cmd.OutOrStdout(), bi.Main.Path, bi.GoVersion)
			}
		},
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}
	root := &cobra.Command{
		Use:           "retirement-forecast",
		Short:         "Retirement projection calculator",
		Long:          "Month-by-month retirement savings projections with CPF mandatory savings accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configLocation, "config", constants.DefaultConfigFile, "path to plan file")
	root.PersistentFlags().StringVar(&flags.outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		calculateCmd(flags),
		projectCmd(flags),
		validateCmd(flags),
		solveSpendingCmd(flags),
		exportCmd(flags),
		versionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}
