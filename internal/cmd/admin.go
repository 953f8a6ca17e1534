package cmd

import (
	"fmt"
	"net/url"
	"os"

	"github.com/Iron-Ham/daylog/internal/admin"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var adminCmd = &cobra.Command{
	Use:   "admin [query]",
	Short: "Render the admin log page",
	Long: `Render the admin log page for a query string, the way an admin surface
would for a request.

Examples:
  # The file list
  daylog admin

  # Show one file
  daylog admin 'log_file=dev-2024-01-01-3f2a.log'

  # Delete a file, then render the redirect target
  daylog admin 'action=delete&log=dev-2024-01-01-3f2a.log'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdmin,
}

func init() {
	rootCmd.AddCommand(adminCmd)
}

func runAdmin(cmd *cobra.Command, args []string) error {
	query := url.Values{}
	if len(args) > 0 {
		var err error
		if query, err = url.ParseQuery(args[0]); err != nil {
			return fmt.Errorf("invalid query: %w", err)
		}
	}

	h, err := openHost()
	if err != nil {
		return err
	}
	defer h.Close()

	width := 0
	if termWidth, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = termWidth
	}

	page := admin.NewPage(h.viewer(), h.dir(), h.log)
	view := page.Handle(query)
	out := cmd.OutOrStdout()
	if view.Redirect == "" {
		fmt.Fprint(out, admin.Render(view, width))
		return nil
	}

	// Follow the redirect like a browser would, keeping the notice.
	next, err := url.ParseQuery(view.Redirect[1:])
	if err != nil {
		return fmt.Errorf("invalid redirect %q: %w", view.Redirect, err)
	}
	target := page.Handle(next)
	if target.Notice == "" {
		target.Notice, target.IsError = view.Notice, view.IsError
	}
	fmt.Fprint(out, admin.Render(target, width))
	return nil
}
