package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/vitalflow/internal/coach"
	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/logger"
	"github.com/julianstephens/vitalflow/internal/tui"
)

type CoachTipCmd struct{}

func (c *CoachTipCmd) Run(ctx *Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	recent := sess.Recent(constants.CoachRecentEntries)
	_, _, err = runCoach(ctx, "tip", "Asking your coach for a tip...", func(rc context.Context, co *coach.Coach) (string, error) {
		return co.Tip(rc, recent)
	})
	return err
}

type CoachWeeklyCmd struct{}

func (c *CoachWeeklyCmd) Run(ctx *Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	entries, today := sess.Entries(), sess.Today()
	_, _, err = runCoach(ctx, "weekly", "Analysing your week...", func(rc context.Context, co *coach.Coach) (string, error) {
		return co.WeeklyAnalysis(rc, entries, today)
	})
	return err
}

type CoachPlanCmd struct{}

func (c *CoachPlanCmd) Run(ctx *Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	store := sess.Profile()
	p, goals := store.Profile(), store.Goals()
	recent := sess.Recent(constants.CoachRecentEntries)
	_, _, err = runCoach(ctx, "plan", "Building your plan...", func(rc context.Context, co *coach.Coach) (string, error) {
		return co.Plan(rc, p, goals, recent)
	})
	return err
}

type CoachAskCmd struct {
	Question []string `arg:"" help:"Question for the coach."`
	History  string   `help:"JSON file with the conversation so far. Answered turns are appended to it." type:"path"`
}

func (c *CoachAskCmd) Run(ctx *Context) error {
	question := strings.TrimSpace(strings.Join(c.Question, " "))
	if question == "" {
		return coach.ErrEmptyQuestion
	}
	history, err := loadChatHistory(c.History)
	if err != nil {
		return err
	}

	answer, answered, err := runCoach(ctx, "ask", "Thinking...", func(rc context.Context, co *coach.Coach) (string, error) {
		return co.Ask(rc, question, history)
	})
	if err != nil || !answered || c.History == "" {
		return err
	}
	history = append(history,
		coach.Message{Role: coach.RoleUser, Text: question},
		coach.Message{Role: coach.RoleModel, Text: answer},
	)
	return saveChatHistory(c.History, history)
}

// runCoach runs one coach request, behind a spinner when interactive. A
// failed request prints the fallback text instead of failing the command;
// answered reports whether the text came from the model.
func runCoach(ctx *Context, kind, title string, ask func(context.Context, *coach.Coach) (string, error)) (text string, answered bool, err error) {
	bg := context.Background()
	co, err := ctx.Coach(bg)
	if err != nil {
		return "", false, err
	}
	run := func(rc context.Context) (string, error) {
		return ask(rc, co)
	}

	if ctx.Interactive && co.Available() {
		theme := constants.DefaultTheme
		if ctx.sess != nil {
			theme = ctx.sess.Profile().Profile().Theme
		}
		text, err = tui.RunWithSpinner(bg, ctx.Out, tui.NewStyles(tui.ThemeFor(theme)), title, run)
	} else {
		text, err = run(bg)
	}

	switch {
	case errors.Is(err, tui.ErrCancelled):
		ctx.println("Cancelled.")
		return "", false, nil
	case errors.Is(err, coach.ErrEmptyQuestion):
		return "", false, err
	case err != nil:
		logger.Warn("Coach request failed", "kind", kind, "error", err)
		ctx.println(coach.FallbackText(kind, err))
		return "", false, nil
	}
	ctx.println(text)
	return text, true, nil
}

func loadChatHistory(path string) ([]coach.Message, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}
	var history []coach.Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("invalid chat history %s: %w", path, err)
	}
	return history, nil
}

func saveChatHistory(path string, history []coach.Message) error {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create chat history directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write chat history: %w", err)
	}
	return nil
}
