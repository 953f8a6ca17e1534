package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Iron-Ham/daylog/internal/channel"
	"github.com/Iron-Ham/daylog/internal/config"
	"github.com/Iron-Ham/daylog/internal/level"
	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write [message...]",
	Short: "Append a record to today's log file",
	Long: `Append a record to today's log file for the configured channel.

Examples:
  # Write an INFO record
  daylog write "cache warmed"

  # Write an ERROR record with context
  daylog write -l error -f order=1234 -f retry=true "payment failed"

  # Attach a JSON object as context
  daylog write --context '{"user":{"id":7}}' "login"

  # Write one record per line of standard input
  tail -f app.out | daylog write --stdin -l notice`,
	RunE: runWrite,
}

var (
	writeLevel   string
	writeChannel string
	writeFields  []string
	writeContext string
	writeStdin   bool
)

func init() {
	rootCmd.AddCommand(writeCmd)

	writeCmd.Flags().StringVarP(&writeLevel, "level", "l", "info", "Level name or number")
	writeCmd.Flags().StringVar(&writeChannel, "channel", "", "Channel name (default: logger.channel)")
	writeCmd.Flags().StringArrayVarP(&writeFields, "field", "f", nil, "Context field as key=value (repeatable)")
	writeCmd.Flags().StringVar(&writeContext, "context", "", "Context as a JSON object")
	writeCmd.Flags().BoolVar(&writeStdin, "stdin", false, "Read one message per line from standard input")
}

func runWrite(cmd *cobra.Command, args []string) error {
	if !writeStdin && len(args) == 0 {
		return fmt.Errorf("a message is required (or use --stdin)")
	}

	if writeChannel != "" {
		// SetChannel only logs a bad name, so check it here.
		s := config.DefaultSettings()
		if err := s.Apply(nil, config.KeyChannel, writeChannel); err != nil {
			return fmt.Errorf("invalid --channel: %w", err)
		}
	}

	fields, err := parseFields(writeContext, writeFields)
	if err != nil {
		return err
	}

	h, err := openHost()
	if err != nil {
		return err
	}
	defer h.Close()

	ch, err := h.channel()
	if err != nil {
		return fmt.Errorf("log directory unavailable: %w", err)
	}
	if writeChannel != "" {
		ch.SetChannel(writeChannel)
	}

	ref := level.Parse(writeLevel)
	write := func(message string) error {
		written, err := ch.Log(ref, message, fields)
		if err != nil {
			return err
		}
		if !written {
			return fmt.Errorf("record not written: channel is %s", ch.State())
		}
		return nil
	}

	if !writeStdin {
		if err := write(strings.Join(args, " ")); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ch.CurrentFile())
		return nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		if err := write(line); err != nil {
			return err
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading standard input: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", count, ch.CurrentFile())
	return nil
}

// parseFields builds record context from a JSON object and key=value pairs.
// Pairs win over keys of the same name in the object.
func parseFields(object string, pairs []string) (channel.Fields, error) {
	fields := channel.Fields{}
	if object != "" {
		if err := json.Unmarshal([]byte(object), &fields); err != nil {
			return nil, fmt.Errorf("invalid --context: %w", err)
		}
		if fields == nil {
			fields = channel.Fields{}
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --field %q: expected key=value", pair)
		}
		fields[key] = value
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}
