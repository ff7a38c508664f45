package day

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/vitalflow/internal/catalog"
	"github.com/julianstephens/vitalflow/internal/session"
)

var (
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Width(12)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model shows goal progress and streaks for one day.
type Model struct {
	viewport viewport.Model
	bar      progress.Model
	header   lipgloss.Style
	done     lipgloss.Style
	Progress *session.DayProgress
	Streaks  session.Streaks
	width    int
	height   int
}

func New(theme catalog.Theme, width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		bar:      progress.New(progress.WithGradient(theme.Primary, theme.Secondary), progress.WithWidth(30)),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Primary)).Bold(true),
		done:     lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Secondary)),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Progress == nil {
		return "No progress loaded."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetData(p session.DayProgress, s session.Streaks) {
	m.Progress = &p
	m.Streaks = s
	m.Render()
}

func (m *Model) Render() {
	m.viewport.SetContent(m.Content())
}

// Content is the rendered day summary without viewport clipping.
func (m Model) Content() string {
	if m.Progress == nil {
		return ""
	}
	p := m.Progress

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %d/%d goals\n\n", m.header.Render(p.Date), p.Completed, len(p.Categories))
	for _, cp := range p.Categories {
		name, unit := string(cp.Category), ""
		if def, ok := catalog.Habit(cp.Category); ok {
			name, unit = def.Name, def.Unit
		}
		ratio := 0.0
		if cp.Goal > 0 {
			ratio = min(cp.Best/float64(cp.Goal), 1)
		}
		status := statusStyle.Render(fmt.Sprintf("%g/%d %s", cp.Best, cp.Goal, unit))
		if cp.Complete {
			status = m.done.Render("✓ " + fmt.Sprintf("%g/%d %s", cp.Best, cp.Goal, unit))
		}
		fmt.Fprintf(&b, "%s %s %s\n", nameStyle.Render(name), m.bar.ViewAs(ratio), status)
	}

	fmt.Fprintf(&b, "\n%s %d days\n", m.header.Render("Streak"), m.Streaks.Overall)
	for _, cp := range p.Categories {
		if run := m.Streaks.ByCategory[cp.Category]; run > 0 {
			fmt.Fprintf(&b, "  %s %d days\n", nameStyle.Render(string(cp.Category)), run)
		}
	}
	if p.AllGoalsMet {
		b.WriteString("\n" + m.done.Render("All goals met today!") + "\n")
	}
	return b.String()
}
