package cmd

import (
	"fmt"

	"github.com/Iron-Ham/daylog/internal/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse log files interactively",
	Long: `Open an interactive browser over the log directory.

Keys:
  ↑/↓ or j/k   move
  enter        open the selected file
  esc          back to the list
  /            filter file names with a glob
  d            delete the selected file (asks first)
  r            refresh
  q            quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	h, err := openHost()
	if err != nil {
		return err
	}
	defer h.Close()

	if err := tui.Run(h.viewer(), h.dir()); err != nil {
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}
