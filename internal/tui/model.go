// Package tui is the read-only dashboard: today's goals, per-category
// history and badges. Logging happens through the CLI form.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/session"
	"github.com/julianstephens/vitalflow/internal/tui/components/day"
	"github.com/julianstephens/vitalflow/internal/tui/components/history"
)

type SessionState int

const (
	StateDay SessionState = iota
	StateHistory
	StateBadges
)

var tabTitles = []string{"Day", "History", "Badges"}

type Model struct {
	sess     *session.Session
	styles   Styles
	state    SessionState
	keys     KeyMap
	help     help.Model
	dayModel day.Model
	history  history.Model
	date     string
	category models.HabitCategory
	quitting bool
	width    int
	height   int
}

func NewModel(sess *session.Session) Model {
	theme := ThemeFor(sess.Profile().Profile().Theme)
	m := Model{
		sess:     sess,
		styles:   NewStyles(theme),
		state:    StateDay,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		dayModel: day.New(theme, 0, 0),
		history:  history.New(0, 0),
		date:     sess.Today(),
		category: models.CategorySleep,
	}
	m.refresh()
	return m
}

// refresh reloads the component data for the selected date and category.
func (m *Model) refresh() {
	m.dayModel.SetData(m.sess.DayProgress(m.date), m.sess.Streaks(m.date))
	m.history.SetEntries(m.category, m.sess.EntriesForCategory(m.category))
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateDay:
		keys = append(keys, m.keys.PrevDay, m.keys.NextDay)
	case StateHistory:
		keys = append(keys, m.keys.Category)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateDay:
		actions = []key.Binding{m.keys.PrevDay, m.keys.NextDay, m.keys.Today}
	case StateHistory:
		actions = []key.Binding{m.keys.Category}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Date() string {
	return m.date
}

func (m Model) State() SessionState {
	return m.state
}

func (m Model) Category() models.HabitCategory {
	return m.category
}
