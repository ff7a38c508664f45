package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDay:
		content = m.dayModel.View()
	case StateHistory:
		content = m.history.View()
	case StateBadges:
		content = m.viewBadges()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.styles.Doc.Render(content),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, m.styles.ActiveTab.Render(title))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewBadges() string {
	state := m.sess.PointsAndBadges()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("%d points", state.TotalPoints)))
	fmt.Fprintf(&b, "  %s\n\n", m.styles.Muted.Render(fmt.Sprintf("%d/%d badges", state.AchievedCount(), len(state.Badges))))

	for _, v := range m.sess.Badges() {
		name := string(v.ID)
		if v.Known {
			name = v.Definition.Name
		}
		if v.Achieved {
			fmt.Fprintf(&b, "%s %s\n", m.styles.Achieved.Render("★ "+name), m.styles.Muted.Render(v.DateAchieved))
		} else {
			fmt.Fprintf(&b, "%s\n", m.styles.Locked.Render("☆ "+name))
		}
		if v.Known {
			fmt.Fprintf(&b, "    %s\n", m.styles.Muted.Render(v.Definition.Description))
		}
	}
	return b.String()
}
