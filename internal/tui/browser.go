// Package tui is the interactive log browser. It lists the files of a log
// directory and opens one at a time in a scrolling view.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/daylog/internal/admin"
	"github.com/Iron-Ham/daylog/internal/tui/styles"
	"github.com/Iron-Ham/daylog/internal/viewer"
)

type mode int

const (
	modeList mode = iota
	modeFile
	modeFilter
	modeConfirmDelete
)

// filesLoadedMsg carries a directory listing.
type filesLoadedMsg struct {
	files []viewer.FileInfo
	err   error
}

// fileLoadedMsg carries one file's contents.
type fileLoadedMsg struct {
	name    string
	content string
	err     error
}

// fileDeletedMsg reports a delete.
type fileDeletedMsg struct {
	name    string
	deleted bool
	err     error
}

// Model is the Bubbletea model for the log browser
type Model struct {
	viewer *viewer.Viewer
	dir    string

	files    []viewer.FileInfo
	filtered []viewer.FileInfo
	cursor   int
	pattern  string

	mode     mode
	open     string
	viewport viewport.Model
	filter   textinput.Model

	width    int
	height   int
	errorMsg string
	infoMsg  string
	quitting bool
}

// New creates a browser for dir
func New(v *viewer.Viewer, dir string) Model {
	ti := textinput.New()
	ti.Placeholder = "glob, e.g. dev-2024-*"
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		viewer:   v,
		dir:      dir,
		viewport: viewport.New(80, 20),
		filter:   ti,
	}
}

// Run starts the browser on the alternate screen and blocks until it exits.
func Run(v *viewer.Viewer, dir string) error {
	_, err := tea.NewProgram(New(v, dir), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.loadFiles()
}

func (m Model) loadFiles() tea.Cmd {
	v, dir := m.viewer, m.dir
	return func() tea.Msg {
		files, err := v.ListLogFileInfo(dir)
		return filesLoadedMsg{files: files, err: err}
	}
}

func (m Model) loadFile(name string) tea.Cmd {
	v, dir := m.viewer, m.dir
	return func() tea.Msg {
		content, err := v.ReadLogFile(dir, name)
		return fileLoadedMsg{name: name, content: content, err: err}
	}
}

func (m Model) deleteFile(name string) tea.Cmd {
	v, dir := m.viewer, m.dir
	return func() tea.Msg {
		deleted, err := v.DeleteLogFile(dir, name)
		return fileDeletedMsg{name: name, deleted: deleted, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-6, 3)
		return m, nil

	case filesLoadedMsg:
		if msg.err != nil {
			m.errorMsg = msg.err.Error()
			return m, nil
		}
		m.files = msg.files
		m.applyFilter()
		return m, nil

	case fileLoadedMsg:
		if msg.err != nil {
			m.errorMsg = msg.err.Error()
			m.mode = modeList
			return m, nil
		}
		m.open = msg.name
		m.mode = modeFile
		m.viewport.SetContent(admin.RenderRecords(viewer.ParseRecords(msg.content)))
		m.viewport.GotoTop()
		return m, nil

	case fileDeletedMsg:
		switch {
		case msg.err != nil:
			m.errorMsg = msg.err.Error()
		case msg.deleted:
			m.infoMsg = "Deleted " + msg.name
		default:
			m.infoMsg = msg.name + " was already deleted"
		}
		m.mode = modeList
		return m, m.loadFiles()

	case tea.KeyMsg:
		m.errorMsg = ""
		m.infoMsg = ""

		switch m.mode {
		case modeFilter:
			return m.handleFilterKeypress(msg)
		case modeConfirmDelete:
			return m.handleConfirmKeypress(msg)
		case modeFile:
			return m.handleFileKeypress(msg)
		}
		return m.handleListKeypress(msg)
	}

	return m, nil
}

func (m Model) handleListKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}

	case "g", "home":
		m.cursor = 0

	case "G", "end":
		m.cursor = max(len(m.filtered)-1, 0)

	case "enter":
		if f, ok := m.selected(); ok {
			return m, m.loadFile(f.Name)
		}

	case "d":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}

	case "/":
		m.mode = modeFilter
		m.filter.SetValue(m.pattern)
		m.filter.Focus()
		return m, textinput.Blink

	case "r":
		return m, m.loadFiles()
	}
	return m, nil
}

func (m Model) handleFileKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "backspace":
		m.mode = modeList
		m.open = ""
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "r":
		return m, m.loadFile(m.open)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleFilterKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.filter.Blur()
		return m, nil

	case "enter":
		m.pattern = strings.TrimSpace(m.filter.Value())
		m.mode = modeList
		m.filter.Blur()
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	if msg.String() != "y" {
		m.infoMsg = "Delete cancelled"
		return m, nil
	}
	if f, ok := m.selected(); ok {
		return m, m.deleteFile(f.Name)
	}
	return m, nil
}

// applyFilter recomputes the visible files and keeps the cursor in range.
func (m *Model) applyFilter() {
	names := make([]string, len(m.files))
	byName := make(map[string]viewer.FileInfo, len(m.files))
	for i, f := range m.files {
		names[i] = f.Name
		byName[f.Name] = f
	}

	matched, err := viewer.Match(names, m.pattern)
	if err != nil {
		m.errorMsg = err.Error()
		matched = names
	}

	m.filtered = make([]viewer.FileInfo, 0, len(matched))
	for _, name := range matched {
		m.filtered = append(m.filtered, byName[name])
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
}

func (m Model) selected() (viewer.FileInfo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return viewer.FileInfo{}, false
	}
	return m.filtered[m.cursor], true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	header := styles.Title.Render("daylog") + "  " + styles.Subtitle.Render(m.dir)
	b.WriteString(header)
	b.WriteString("\n")

	switch m.mode {
	case modeFile:
		b.WriteString(styles.Primary.Render(m.open))
		b.WriteString("\n")
		b.WriteString(styles.ContentBox.Render(m.viewport.View()))
		b.WriteString("\n")
		b.WriteString(m.help("↑/↓", "scroll", "r", "reload", "esc", "back"))
		return b.String()
	default:
		b.WriteString(m.renderList())
	}

	if m.mode == modeFilter {
		b.WriteString("\n")
		b.WriteString("Filter: " + m.filter.View())
	}
	if m.mode == modeConfirmDelete {
		if f, ok := m.selected(); ok {
			b.WriteString("\n")
			b.WriteString(styles.ErrorMsg.Render(fmt.Sprintf("Delete %s? (y/N)", f.Name)))
		}
	}
	if m.errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorMsg.Render(m.errorMsg))
	}
	if m.infoMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.SuccessMsg.Render(m.infoMsg))
	}

	b.WriteString("\n")
	b.WriteString(m.help("↑/↓", "move", "enter", "open", "d", "delete", "/", "filter", "r", "refresh", "q", "quit"))
	return b.String()
}

func (m Model) renderList() string {
	if len(m.filtered) == 0 {
		if m.pattern != "" {
			return styles.Muted.Render(fmt.Sprintf("No log files match %q.", m.pattern))
		}
		return styles.Muted.Render("No log files yet.")
	}

	// Keep the cursor on screen when the list is taller than the window.
	visible := len(m.filtered)
	if m.height > 8 {
		visible = min(visible, m.height-6)
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	lines := make([]string, 0, visible)
	for i := start; i < start+visible && i < len(m.filtered); i++ {
		f := m.filtered[i]
		prefix := "  "
		if i == m.cursor {
			prefix = styles.Primary.Render("▸ ")
		}
		line := prefix + admin.RenderFileLine(f, i == m.cursor)
		if m.width > 0 {
			line = ansi.Truncate(line, m.width, "…")
		}
		lines = append(lines, line)
	}
	if m.pattern != "" {
		lines = append(lines, styles.Muted.Render(fmt.Sprintf("filter: %s (%d of %d)", m.pattern, len(m.filtered), len(m.files))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) help(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, styles.HelpKey.Render(pairs[i])+" "+pairs[i+1])
	}
	return styles.HelpBar.Render(strings.Join(parts, "  "))
}
