package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"time"

	"github.com/Iron-Ham/daylog/internal/admin"
	"github.com/Iron-Ham/daylog/internal/level"
	"github.com/Iron-Ham/daylog/internal/viewer"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List, read and manage log files",
	Long: `List, read, follow, export and delete the files in the log directory.

Without a subcommand, lists the log files newest first.`,
	RunE: runLogsList,
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List log files, newest first",
	Long: `List log files, newest first.

Examples:
  # Only the files of one channel
  daylog logs list --match 'payments-*'

  # January 2024 with sizes
  daylog logs list -m '*-2024-01-*' --long`,
	Args: cobra.NoArgs,
	RunE: runLogsList,
}

var logsShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Show the records of a log file",
	Long: `Show the records of a log file. Without a file, shows the newest one.

Examples:
  # Last 20 records of the newest file
  daylog logs show -n 20

  # Warnings and worse from the last hour
  daylog logs show dev-2024-01-01-3f2a.log --level warning --since 1h

  # Search messages and context
  daylog logs show --grep "timeout|refused"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogsShow,
}

var logsDeleteCmd = &cobra.Command{
	Use:   "delete <file>...",
	Short: "Delete log files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLogsDelete,
}

var logsExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write a zstd-compressed copy of a log file",
	Long: `Write a zstd-compressed copy of a log file.

The copy is written to <file>.zst in the current directory unless --output
is given. Use --output - to write to standard output.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogsExport,
}

var logsFollowCmd = &cobra.Command{
	Use:   "follow [file]",
	Short: "Print records as they are appended (like tail -f)",
	Long:  `Print records as they are appended. Without a file, follows the newest one.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogsFollow,
}

var (
	logsMatch  string
	logsLong   bool
	logsTail   int
	logsLevel  string
	logsSince  string
	logsGrep   string
	logsRaw    bool
	logsOutput string
)

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsListCmd)
	logsCmd.AddCommand(logsShowCmd)
	logsCmd.AddCommand(logsDeleteCmd)
	logsCmd.AddCommand(logsExportCmd)
	logsCmd.AddCommand(logsFollowCmd)

	for _, c := range []*cobra.Command{logsCmd, logsListCmd} {
		c.Flags().StringVarP(&logsMatch, "match", "m", "", "Only list files matching a glob pattern")
		c.Flags().BoolVar(&logsLong, "long", false, "Show size and modification time")
	}

	logsShowCmd.Flags().IntVarP(&logsTail, "tail", "n", 0, "Number of records to show (0 for all)")
	logsShowCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (name or number)")
	logsShowCmd.Flags().StringVar(&logsSince, "since", "", "Show records since duration ago (e.g., 1h, 30m)")
	logsShowCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter records matching pattern (regex)")
	logsShowCmd.Flags().BoolVar(&logsRaw, "raw", false, "Print the file unchanged")

	logsExportCmd.Flags().StringVarP(&logsOutput, "output", "o", "", "Output path, or - for standard output")
}

func runLogsList(cmd *cobra.Command, args []string) error {
	h, err := openHost()
	if err != nil {
		return err
	}
	defer h.Close()

	files, err := h.viewer().ListLogFileInfo(h.dir())
	if err != nil {
		return err
	}
	files, err = matchFiles(files, logsMatch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintf(out, "No log files in %s\n", h.dir())
		return nil
	}
	for _, f := range files {
		if logsLong {
			fmt.Fprintf(out, "%10s  %s  %s\n", admin.FormatSize(f.Size), f.ModTime.Format("2006-01-02 15:04"), f.Name)
			continue
		}
		fmt.Fprintln(out, f.Name)
	}
	return nil
}

// matchFiles keeps the files whose names match a glob pattern, in order.
func matchFiles(files []viewer.FileInfo, pattern string) ([]viewer.FileInfo, error) {
	if pattern == "" {
		return files, nil
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	matched, err := viewer.Match(names, pattern)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(matched))
	for _, name := range matched {
		keep[name] = true
	}

	result := make([]viewer.FileInfo, 0, len(matched))
	for _, f := range files {
		if keep[f.Name] {
			result = append(result, f)
		}
	}
	return result, nil
}

// pickFile returns args[0], or the newest log file when no name was given.
func pickFile(h *host, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	files, err := h.viewer().ListLogFileInfo(h.dir())
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no log files in %s", h.dir())
	}
	return files[0].Name, nil
}

// recordFilter holds the show filters.
type recordFilter struct {
	levels   *level.Registry
	minLevel level.Level
	hasMin   bool
	since    time.Time
	grep     *regexp.Regexp
}

func newRecordFilter(minLevel, since, grep string, now time.Time) (*recordFilter, error) {
	f := &recordFilter{levels: level.Default()}

	if minLevel != "" {
		l, _, err := f.levels.Resolve(level.Parse(minLevel))
		if err != nil {
			return nil, err
		}
		f.minLevel, f.hasMin = l, true
	}

	if since != "" {
		duration, err := time.ParseDuration(since)
		if err != nil {
			return nil, fmt.Errorf("invalid duration format: %w", err)
		}
		f.since = now.Add(-duration)
	}

	if grep != "" {
		re, err := regexp.Compile(grep)
		if err != nil {
			return nil, fmt.Errorf("invalid grep pattern: %w", err)
		}
		f.grep = re
	}
	return f, nil
}

// active reports whether any filter is set. Without filters raw lines are
// shown in place; with filters only parsed records can be judged.
func (f *recordFilter) active() bool {
	return f.hasMin || !f.since.IsZero() || f.grep != nil
}

func (f *recordFilter) passes(r viewer.Record) bool {
	if !r.Parsed {
		return !f.active()
	}
	if f.hasMin {
		// Levels this registry does not know are kept.
		if l, err := f.levels.Lookup(r.Level); err == nil && l < f.minLevel {
			return false
		}
	}
	if !f.since.IsZero() && r.Timestamp.Before(f.since) {
		return false
	}
	if f.grep != nil && !f.grep.MatchString(r.Message+" "+r.Context) {
		return false
	}
	return true
}

func runLogsShow(cmd *cobra.Command, args []string) error {
	filter, err := newRecordFilter(logsLevel, logsSince, logsGrep, time.Now())
	if err != nil {
		return err
	}

	h, err := openHost()
	if err != nil {
		return err
	}
	defer h.Close()

	name, err := pickFile(h, args)
	if err != nil {
		return err
	}
	content, err := h.viewer().ReadLogFile(h.dir(), name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if logsRaw {
		_, err := io.WriteString(out, content)
		return err
	}

	var lines []string
	for _, r := range viewer.ParseRecords(content) {
		if filter.passes(r) {
			lines = append(lines, admin.RenderRecord(r))
		}
	}

	// Apply tail limit
	if logsTail > 0 && len(lines) > logsTail {
		lines = lines[len(lines)-logsTail:]
	}

	if len(lines) == 0 {
		fmt.Fprintln(out, "No matching records found.")
		return nil
	}
	fmt.Fprintln(out, strings.Join(lines, "\n"))
	return nil
}

func runLogsDelete(cmd *cobra.Command, args []string) error {
	h, err := openHost()
	if err != nil {
		return err
	}
	defer h.Close()

	v, out := h.viewer(), cmd.OutOrStdout()
	var failed []string
	for _, name := range args {
		deleted, err := v.DeleteLogFile(h.dir(), name)
		switch {
		case err != nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, err)
			failed = append(failed, name)
		case deleted:
			fmt.Fprintf(out, "Deleted %s\n", name)
		default:
			fmt.Fprintf(out, "%s was already deleted\n", name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to delete %s", strings.Join(failed, ", "))
	}
	return nil
}

func runLogsExport(cmd *cobra.Command, args []string) error {
	h, err := openHost()
	if err != nil {
		return err
	}
	defer h.Close()

	name := args[0]
	output := logsOutput
	if output == "" {
		output = name + viewer.ExportExtension
	}

	var w io.Writer
	if output == "-" {
		w = cmd.OutOrStdout()
	} else {
		f, err := os.OpenFile(output, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	n, err := h.viewer().Export(h.dir(), name, w)
	if err != nil {
		if output != "-" {
			_ = os.Remove(output)
		}
		return err
	}
	if output != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%s) to %s\n", name, admin.FormatSize(n), output)
	}
	return nil
}

func runLogsFollow(cmd *cobra.Command, args []string) error {
	h, err := openHost()
	if err != nil {
		return err
	}
	defer h.Close()

	name, err := pickFile(h, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "Following %s... (Ctrl+C to stop)\n\n", name)
	return h.viewer().Follow(ctx, h.dir(), name, cmd.OutOrStdout())
}
