package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// Tabs and help take three lines, the doc padding four.
		m.dayModel.SetSize(msg.Width-4, msg.Height-7)
		m.history.SetSize(msg.Width-4, msg.Height-7)
		return m, nil

	case tea.KeyMsg:
		if m.state == StateHistory && m.history.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			return m, nil
		}

		switch m.state {
		case StateDay:
			switch {
			case key.Matches(msg, m.keys.PrevDay):
				m.shiftDate(-1)
				return m, nil
			case key.Matches(msg, m.keys.NextDay):
				m.shiftDate(1)
				return m, nil
			case key.Matches(msg, m.keys.Today):
				m.date = m.sess.Today()
				m.refresh()
				return m, nil
			}
		case StateHistory:
			if key.Matches(msg, m.keys.Category) {
				m.category = nextCategory(m.category)
				m.refresh()
				return m, nil
			}
		}
	}

	switch m.state {
	case StateDay:
		m.dayModel, cmd = m.dayModel.Update(msg)
	case StateHistory:
		m.history, cmd = m.history.Update(msg)
	}
	return m, cmd
}

func (m *Model) shiftDate(days int) {
	next, err := utils.AddDays(m.date, days)
	if err != nil {
		return
	}
	m.date = next
	m.refresh()
}

func nextCategory(c models.HabitCategory) models.HabitCategory {
	all := models.AllCategories()
	for i, cat := range all {
		if cat == c {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}
