package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/lintgate/internal/history"
	"github.com/harrison/lintgate/internal/logger"
	"github.com/harrison/lintgate/internal/models"
	"github.com/harrison/lintgate/internal/report"
)

// NewHistoryCommand creates the 'lintgate history' command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded gate runs",
		Long: `Display previous gate runs from the history database, most recent first.

Runs are recorded only when history.enabled is set in the config.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 = all)")
	cmd.Flags().String("format", "text", "Output format: text, markdown, html")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	output := cmd.OutOrStdout()

	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "markdown", "html":
	default:
		return fmt.Errorf("invalid format %q, must be one of: text, markdown, html", format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var records []*history.RunRecord
	if _, err := os.Stat(cfg.History.DBPath); err == nil {
		store, err := history.NewStore(cfg.History.DBPath)
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer store.Close()

		records, err = store.List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("history database %s: %w", cfg.History.DBPath, err)
	}

	switch format {
	case "markdown":
		fmt.Fprint(output, report.RenderMarkdown(records))
	case "html":
		html, err := report.RenderHTML(records)
		if err != nil {
			return err
		}
		fmt.Fprint(output, html)
	default:
		writeHistoryText(output, records, logger.IsTerminal(output))
	}

	return nil
}

// writeHistoryText prints one line per run plus a pass count.
func writeHistoryText(w io.Writer, records []*history.RunRecord, colorOutput bool) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	passed := 0
	for _, r := range records {
		if r.Status == models.StatusPassed {
			passed++
		}
	}
	fmt.Fprintf(w, "%s  %s\n\n",
		logger.FormatMetric("Runs", len(records), colorOutput),
		logger.FormatMetric("Passed", passed, colorOutput))

	for _, r := range records {
		fmt.Fprintf(w, "%s  %-6s  exit %-3d  %4d files  %3d findings  %8s  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			logger.FormatStatus(r.Status, colorOutput),
			r.ExitCode,
			r.FileCount,
			r.FindingCount,
			r.Duration.Round(time.Millisecond),
			r.RunID,
		)
		if r.ErrorMessage != "" && r.Status == models.StatusError {
			fmt.Fprintf(w, "    %s\n", r.ErrorMessage)
		}
	}
}
