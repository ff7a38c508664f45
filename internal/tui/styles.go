package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/vitalflow/internal/catalog"
)

// Styles are the lipgloss styles derived from a profile theme.
type Styles struct {
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Title       lipgloss.Style
	Achieved    lipgloss.Style
	Locked      lipgloss.Style
	Muted       lipgloss.Style
	Danger      lipgloss.Style
	Doc         lipgloss.Style
}

func NewStyles(theme catalog.Theme) Styles {
	return Styles{
		ActiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Card)).
			Background(lipgloss.Color(theme.Primary)).
			Padding(0, 1).
			Bold(true),
		InactiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Primary)).
			Bold(true),
		Achieved: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Secondary)).
			Bold(true),
		Locked: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		Doc: lipgloss.NewStyle().Padding(1, 2),
	}
}

// ThemeFor returns the catalog theme with the given id, or the default theme.
func ThemeFor(id string) catalog.Theme {
	if theme, ok := catalog.ThemeByID(id); ok {
		return theme
	}
	return catalog.Themes()[0]
}
