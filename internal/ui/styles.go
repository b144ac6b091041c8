package ui

import (
	"protein/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all application styles, initialized with theme configuration.
type Styles struct {
	ColorPrimary   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorDanger    lipgloss.Color

	TitleStyle lipgloss.Style
	DateStyle  lipgloss.Style
	PaneStyle  lipgloss.Style

	DoneStyle    lipgloss.Style
	PendingStyle lipgloss.Style
	StreakStyle  lipgloss.Style
	QuoteStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
	ErrorStyle   lipgloss.Style

	DoneIcon    string
	PendingIcon string
}

// NewStylesFromTheme creates a new Styles instance from a ThemeConfig.
// If a theme color is empty, it uses the appropriate default.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	if theme == nil {
		theme = &config.ThemeConfig{}
	}
	s := &Styles{
		ColorPrimary:   colorOrDefault(theme.Primary, "#7C3AED"),
		ColorAccent:    colorOrDefault(theme.Accent, "#10B981"),
		ColorMuted:     colorOrDefault(theme.Muted, "#6B7280"),
		ColorText:      lipgloss.Color("#F9FAFB"),
		ColorTextMuted: lipgloss.Color("#9CA3AF"),
		ColorDanger:    lipgloss.Color("#EF4444"),
	}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorText).
		Background(s.ColorPrimary).
		Padding(0, 1)
	s.DateStyle = lipgloss.NewStyle().Foreground(s.ColorTextMuted)
	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorMuted).
		Padding(0, 1)

	s.DoneStyle = lipgloss.NewStyle().Bold(true).Foreground(s.ColorAccent)
	s.PendingStyle = lipgloss.NewStyle().Foreground(s.ColorTextMuted)
	s.StreakStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	s.QuoteStyle = lipgloss.NewStyle().Italic(true).Foreground(s.ColorTextMuted)
	s.MutedStyle = lipgloss.NewStyle().Foreground(s.ColorMuted)
	s.ErrorStyle = lipgloss.NewStyle().Foreground(s.ColorDanger)

	s.DoneIcon = lipgloss.NewStyle().Foreground(s.ColorAccent).Render("●")
	s.PendingIcon = lipgloss.NewStyle().Foreground(s.ColorMuted).Render("○")
	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}
