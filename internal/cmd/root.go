package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/lintgate/internal/config"
	"github.com/harrison/lintgate/internal/display"
	"github.com/harrison/lintgate/internal/gate"
	"github.com/harrison/lintgate/internal/history"
	"github.com/harrison/lintgate/internal/logger"
	"github.com/harrison/lintgate/internal/models"
	"github.com/harrison/lintgate/internal/report"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for lintgate.
// Invoked with no arguments it runs the gate.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lintgate",
		Short: "Pass/fail pylint gate over the pepnet and test trees",
		Long: `lintgate finds every Python file under the configured roots
(pepnet/ and test/ by default), runs pylint once over all of them with
--errors-only and one suppressed rule, and exits with pylint's status.

On success it prints a single confirmation line to stdout.

Configuration is loaded from .lintgate/config.yaml if present.`,
		Example: `  lintgate                          # Run the gate with defaults
  lintgate --config ci.yaml         # Use a custom config file
  lintgate --log-level info         # Log discovery and the run summary
  lintgate --report last-run.json   # Also write a JSON summary`,
		Version: Version,
		Args:    cobra.NoArgs,
		// Silence usage and errors; main prints the error and picks the exit code
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGate,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .lintgate/config.yaml)")
	cmd.Flags().String("log-level", "", "Console log level: trace, debug, info, warn, error (overrides config)")
	cmd.Flags().String("log-dir", "", "Directory for per-run log files (overrides config)")
	cmd.Flags().String("report", "", "Write a JSON summary of the run to this path (overrides config)")

	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// loadConfig loads the file named by --config, or .lintgate/config.yaml.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		cfg, err := config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	return cfg, nil
}

// changedString returns a pointer to the flag value when the flag was set.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func runGate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Merge CLI flags with config (flags take precedence)
	cfg.MergeWithFlags(
		changedString(cmd, "log-level"),
		changedString(cmd, "log-dir"),
		changedString(cmd, "report"),
	)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	consoleLog := logger.NewConsoleLogger(stderr, cfg.LogLevel)
	multiLog := &multiLogger{loggers: []runLogger{consoleLog}}

	if cfg.LogDir != "" {
		fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			consoleLog.LogWarn(fmt.Sprintf("File logging disabled: %v", err))
		} else {
			defer fileLog.Close()
			multiLog.loggers = append(multiLog.loggers, fileLog)
			consoleLog.LogDebug("Run log: " + fileLog.RunFile())
		}
	}

	runner := gate.NewRunner(cfg, multiLog)
	runner.Stdout = stdout
	runner.Invoker.Stdout = stdout
	runner.Invoker.Stderr = stderr
	runner.OnScanErrors = func(errs []error) {
		display.ScanWarning(errs).Display(stderr, logger.IsTerminal(stderr))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	outcome, runErr := runner.Run(ctx)
	multiLog.LogOutcome(outcome)

	// Side outputs never change the gate's result
	if cfg.ReportPath != "" {
		if err := report.WriteSummary(cfg.ReportPath, outcome); err != nil {
			multiLog.LogWarn(fmt.Sprintf("Failed to write report: %v", err))
		}
	}
	if cfg.History.Enabled {
		if err := recordHistory(ctx, cfg.History.DBPath, outcome); err != nil {
			multiLog.LogWarn(fmt.Sprintf("Failed to record history: %v", err))
		}
	}

	return runErr
}

func recordHistory(ctx context.Context, dbPath string, outcome *models.Outcome) error {
	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, outcome)
}

// runLogger is implemented by both the console and file loggers
type runLogger interface {
	gate.Logger
	LogOutcome(outcome *models.Outcome)
}

// multiLogger implements gate.Logger by delegating to multiple loggers
type multiLogger struct {
	loggers []runLogger
}

// LogDebug forwards to all loggers
func (ml *multiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

// LogInfo forwards to all loggers
func (ml *multiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

// LogWarn forwards to all loggers
func (ml *multiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

// LogError forwards to all loggers
func (ml *multiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}

// LogOutcome forwards to all loggers
func (ml *multiLogger) LogOutcome(outcome *models.Outcome) {
	for _, l := range ml.loggers {
		l.LogOutcome(outcome)
	}
}
