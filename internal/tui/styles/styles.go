package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray
	BlueColor      = lipgloss.Color("#60A5FA") // Blue
	OrangeColor    = lipgloss.Color("#FB923C") // Orange
	PinkColor      = lipgloss.Color("#F472B6") // Pink

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// Content area
	ContentBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// File list
	FileItem = lipgloss.NewStyle().
			Padding(0, 1)

	FileItemActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 1)

	FileMeta = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	// Footer / status bar
	StatusBar = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(SurfaceColor).
			Padding(0, 1)

	// Error message
	ErrorMsg = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Success message
	SuccessMsg = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	// Record timestamp
	Timestamp = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Record context
	Context = lipgloss.NewStyle().
		Foreground(BlueColor)
)

// LevelColor returns the color for a level name
func LevelColor(name string) lipgloss.Color {
	switch name {
	case "DEBUG":
		return MutedColor
	case "INFO":
		return SecondaryColor
	case "NOTICE":
		return BlueColor
	case "WARNING":
		return WarningColor
	case "ERROR":
		return ErrorColor
	case "CRITICAL", "ALERT":
		return OrangeColor
	case "EMERGENCY":
		return PinkColor
	default:
		return TextColor
	}
}

// LevelStyle returns the badge style for a level name. Levels from ERROR
// up are bold.
func LevelStyle(name string) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(LevelColor(name))
	switch name {
	case "ERROR", "CRITICAL", "ALERT", "EMERGENCY":
		style = style.Bold(true)
	}
	return style
}
