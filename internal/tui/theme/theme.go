// Package theme holds the lipgloss styles shared by the TUI components.
package theme

import "github.com/charmbracelet/lipgloss"

// Colors is the palette for one theme
type Colors struct {
	Orange lipgloss.Color
	Blue   lipgloss.Color
	Green  lipgloss.Color
	Red    lipgloss.Color
	Muted  lipgloss.Color
	Text   lipgloss.Color
}

// Theme groups the styles used across views
type Theme struct {
	Dark   bool
	Colors Colors

	Header    lipgloss.Style
	Info      lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Border    lipgloss.Style
	Selected  lipgloss.Style
}

var (
	darkColors = Colors{
		Orange: lipgloss.Color("#FFA657"),
		Blue:   lipgloss.Color("#79C0FF"),
		Green:  lipgloss.Color("#7EE787"),
		Red:    lipgloss.Color("#FF7B72"),
		Muted:  lipgloss.Color("#8B949E"),
		Text:   lipgloss.Color("#E6EDF3"),
	}
	lightColors = Colors{
		Orange: lipgloss.Color("#BC4C00"),
		Blue:   lipgloss.Color("#0969DA"),
		Green:  lipgloss.Color("#1A7F37"),
		Red:    lipgloss.Color("#CF222E"),
		Muted:  lipgloss.Color("#6E7781"),
		Text:   lipgloss.Color("#1F2328"),
	}
)

// New builds the dark or light theme
func New(dark bool) *Theme {
	c := lightColors
	if dark {
		c = darkColors
	}
	return &Theme{
		Dark:      dark,
		Colors:    c,
		Header:    lipgloss.NewStyle().Bold(true).Foreground(c.Blue),
		Info:      lipgloss.NewStyle().Foreground(c.Blue),
		Highlight: lipgloss.NewStyle().Bold(true).Foreground(c.Orange),
		Muted:     lipgloss.NewStyle().Foreground(c.Muted),
		Error:     lipgloss.NewStyle().Foreground(c.Red),
		Success:   lipgloss.NewStyle().Foreground(c.Green),
		Border:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c.Muted),
		Selected:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c.Orange),
	}
}

// DefaultTheme is used by components that are not told otherwise
var DefaultTheme = New(true)
