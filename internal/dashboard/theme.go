package dashboard

import "github.com/charmbracelet/lipgloss"

// Theme defines all colors used by the watch dashboard.
// Use DarkTheme() or LightTheme() to get a pre-built theme.
type Theme struct {
	Primary   lipgloss.Color // warm accent — title, cursor
	Secondary lipgloss.Color // cool accent — selected row
	Error     lipgloss.Color // errors, partial layouts
	Warning   lipgloss.Color // pending layouts
	Success   lipgloss.Color // complete layouts, active panes
	Text      lipgloss.Color // primary text
	TextMuted lipgloss.Color // secondary text — hints, timestamps
	Border    lipgloss.Color // separators, headers
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#fab283"),
		Secondary: lipgloss.Color("#5c9cf5"),
		Error:     lipgloss.Color("#e06c75"),
		Warning:   lipgloss.Color("#f5a742"),
		Success:   lipgloss.Color("#7fd88f"),
		Text:      lipgloss.Color("#eeeeee"),
		TextMuted: lipgloss.Color("#808080"),
		Border:    lipgloss.Color("#484848"),
	}
}

// LightTheme returns a light theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#b35c00"),
		Secondary: lipgloss.Color("#0550ae"),
		Error:     lipgloss.Color("#cf222e"),
		Warning:   lipgloss.Color("#bf8700"),
		Success:   lipgloss.Color("#116329"),
		Text:      lipgloss.Color("#1f2328"),
		TextMuted: lipgloss.Color("#656d76"),
		Border:    lipgloss.Color("#d0d7de"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// styles holds all lipgloss styles derived from a Theme.
type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	selected lipgloss.Style
	complete lipgloss.Style
	pending  lipgloss.Style
	partial  lipgloss.Style
	text     lipgloss.Style
	dim      lipgloss.Style
	err      lipgloss.Style
}

// newStyles builds all styles from a theme.
func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		header:   lipgloss.NewStyle().Foreground(t.Border),
		selected: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		complete: lipgloss.NewStyle().Foreground(t.Success),
		pending:  lipgloss.NewStyle().Foreground(t.Warning),
		partial:  lipgloss.NewStyle().Foreground(t.Error),
		text:     lipgloss.NewStyle().Foreground(t.Text),
		dim:      lipgloss.NewStyle().Foreground(t.TextMuted),
		err:      lipgloss.NewStyle().Foreground(t.Error),
	}
}
