package tui

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned when the user interrupts a wait.
var ErrCancelled = errors.New("cancelled")

type resultMsg struct {
	text string
	err  error
}

// WaitModel shows a spinner while a background call runs, then quits.
type WaitModel struct {
	spinner spinner.Model
	title   string
	run     func(context.Context) (string, error)
	ctx     context.Context
	cancel  context.CancelFunc
	styles  Styles
	text    string
	err     error
	done    bool
}

func NewWaitModel(ctx context.Context, styles Styles, title string, run func(context.Context) (string, error)) WaitModel {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Title
	return WaitModel{
		spinner: s,
		title:   title,
		run:     run,
		ctx:     ctx,
		cancel:  cancel,
		styles:  styles,
	}
}

func (m WaitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		text, err := m.run(m.ctx)
		return resultMsg{text: text, err: err}
	})
}

func (m WaitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.text, m.err, m.done = msg.text, msg.err, true
		m.cancel()
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.err, m.done = ErrCancelled, true
			m.cancel()
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m WaitModel) View() string {
	if m.done {
		if m.err != nil && !errors.Is(m.err, ErrCancelled) {
			return m.styles.Danger.Render("✗ "+m.title) + "\n"
		}
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

// Result returns the text and error of a finished wait.
func (m WaitModel) Result() (string, error) {
	return m.text, m.err
}

// RunWithSpinner runs fn while drawing a spinner on out.
func RunWithSpinner(ctx context.Context, out io.Writer, styles Styles, title string, fn func(context.Context) (string, error)) (string, error) {
	p := tea.NewProgram(NewWaitModel(ctx, styles, title, fn), tea.WithOutput(out), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(WaitModel).Result()
}
