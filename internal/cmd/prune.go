package cmd

import (
	"fmt"
	"time"

	"github.com/Iron-Ham/daylog/internal/logdir"
	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Prepare the log directory and delete expired log files",
	Long: `Prepare the log directory and delete expired log files.

The directory and its access marker are created if missing, then every log
file last modified more than --days days ago is deleted. Files that do not
follow the log file naming convention are never touched. A retention of 0
or less disables pruning.`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

var pruneDays int

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().IntVar(&pruneDays, "days", 0, "Retention in days (default: logger.days_to_retain_logs)")
}

func runPrune(cmd *cobra.Command, args []string) error {
	h, err := openHost()
	if err != nil {
		return err
	}
	defer h.Close()

	days := h.cfg.Logger.DaysToRetainLogs
	if cmd.Flags().Changed("days") {
		days = pruneDays
	}

	report, err := logdir.New(h.fs, h.log).Bootstrap(h.dir(), days, time.Now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Directory: %s\n", h.dir())
	fmt.Fprintf(out, "Access marker: %s\n", report.Marker.Outcome)
	if report.Marker.Err != nil {
		fmt.Fprintf(out, "  %v\n", report.Marker.Err)
	}

	prune := report.Prune
	switch {
	case prune.Disabled:
		fmt.Fprintln(out, "Retention disabled; nothing pruned.")
		return nil
	case prune.Err != nil:
		return fmt.Errorf("failed to list %s: %w", h.dir(), prune.Err)
	}

	for _, name := range prune.Deleted {
		fmt.Fprintf(out, "Deleted %s\n", name)
	}
	for _, f := range prune.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.Name, f.Err)
	}
	fmt.Fprintf(out, "Pruned %d, kept %d (retention %d days)\n", prune.Pruned(), prune.Kept, days)

	if len(prune.Failures) > 0 {
		return fmt.Errorf("%d log files could not be deleted", len(prune.Failures))
	}
	return nil
}
