package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/vitalflow/internal/catalog"
	"github.com/julianstephens/vitalflow/internal/models"
)

type Item struct {
	Entry models.HabitLogEntry
}

func (i Item) Title() string {
	unit := ""
	if def, ok := catalog.Habit(i.Entry.HabitCategory); ok {
		unit = def.Unit
	}
	return fmt.Sprintf("%s  %g %s", i.Entry.Date, i.Entry.Value, unit)
}

func (i Item) Description() string {
	d := i.Entry.Details
	if d == nil {
		return i.Entry.ID
	}
	var parts []string
	if d.SleepQuality != "" {
		parts = append(parts, "quality: "+string(d.SleepQuality))
	}
	if d.ExerciseType != "" {
		parts = append(parts, "type: "+d.ExerciseType)
	}
	if d.MeditationMood != "" {
		parts = append(parts, "mood: "+string(d.MeditationMood))
	}
	return i.Entry.ID + " | " + strings.Join(parts, ", ")
}

func (i Item) FilterValue() string { return i.Entry.Date }

type Model struct {
	list     list.Model
	category models.HabitCategory
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowHelp(false) // We handle help globally in the main model
	return Model{list: l}
}

// SetEntries shows the entries of one category, newest first.
func (m *Model) SetEntries(c models.HabitCategory, entries []models.HabitLogEntry) {
	m.category = c
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[len(entries)-1-i] = Item{Entry: e}
	}
	m.list.Title = string(c)
	m.list.SetItems(items)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return fmt.Sprintf("\n  No %s entries yet.\n  Log one with 'vitalflow log'.", strings.ToLower(string(m.category)))
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
