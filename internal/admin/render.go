package admin

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/daylog/internal/tui/styles"
	"github.com/Iron-Ham/daylog/internal/viewer"
)

// Render draws v for a terminal of the given width. A width of zero or
// less means no wrapping.
func Render(v View, width int) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Logs"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(v.Dir))
	b.WriteString("\n\n")

	if v.Notice != "" {
		if v.IsError {
			b.WriteString(styles.ErrorMsg.Render(v.Notice))
		} else {
			b.WriteString(styles.SuccessMsg.Render(v.Notice))
		}
		b.WriteString("\n\n")
	}

	if v.Redirect != "" {
		return b.String()
	}

	if len(v.Files) == 0 {
		b.WriteString(styles.Muted.Render("No log files yet."))
		b.WriteString("\n")
	}
	for _, f := range v.Files {
		b.WriteString(RenderFileLine(f, f.Name == v.Selected))
		b.WriteString("\n")
	}

	if v.Selected != "" && v.Content != "" {
		b.WriteString("\n")
		box := styles.ContentBox
		if width > 4 {
			box = box.Width(width - 2)
		}
		b.WriteString(box.Render(RenderRecords(v.Records)))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderFileLine draws one entry of the file list.
func RenderFileLine(f viewer.FileInfo, active bool) string {
	name := styles.FileItem.Render(f.Name)
	if active {
		name = styles.FileItemActive.Render(f.Name)
	}
	meta := styles.FileMeta.Render(fmt.Sprintf("%s  %s", FormatSize(f.Size), f.ModTime.Format("2006-01-02 15:04")))
	return lipgloss.JoinHorizontal(lipgloss.Top, name, " ", meta)
}

// RenderRecords draws parsed records with level colors.
func RenderRecords(records []viewer.Record) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, RenderRecord(r))
	}
	return strings.Join(lines, "\n")
}

// RenderRecord draws one record.
func RenderRecord(r viewer.Record) string {
	if !r.Parsed {
		return styles.Muted.Render(r.Raw)
	}
	parts := []string{
		styles.Timestamp.Render("[" + r.Timestamp.Format("2006-01-02 15:04:05") + "]"),
		styles.LevelStyle(r.Level).Render("[" + r.Level + "]"),
		styles.Text.Render(r.Message),
	}
	if r.Context != "" {
		parts = append(parts, styles.Context.Render(r.Context))
	}
	return strings.Join(parts, " ")
}

// FormatSize renders a byte count for humans.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
