// Package coach builds wellness prompts from the ledger and sends them to a
// hosted text model. The coach never touches session state: callers pass
// copies of the entries they want discussed.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/logger"
	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/utils"
)

var (
	// ErrUnavailable is returned when no text generator is configured.
	ErrUnavailable = errors.New("AI coach is unavailable: no Gemini API key configured")
	// ErrNoData is returned by WeeklyAnalysis for an empty ledger.
	ErrNoData = errors.New("no habits logged yet")
	// ErrNotEnoughData is returned by WeeklyAnalysis when nothing was logged in the past week.
	ErrNotEnoughData = errors.New("no habits logged in the past week")
	// ErrEmptyQuestion is returned by Ask for a blank question.
	ErrEmptyQuestion = errors.New("question cannot be empty")
	// ErrPremiumRequired is returned by Plan for free profiles.
	ErrPremiumRequired = errors.New("custom plans require a premium subscription")
	// ErrGeneration wraps failures of the text generator.
	ErrGeneration = errors.New("AI coach request failed")
)

// Role tags a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a chat history.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Request is a single prompt with its system instruction and prior turns.
type Request struct {
	SystemInstruction string
	History           []Message
	Prompt            string
}

// TextGenerator sends a request to a hosted language model.
type TextGenerator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Coach wraps a TextGenerator with the VitalFlow prompts.
type Coach struct {
	gen     TextGenerator
	timeout time.Duration
}

// New returns a coach. A nil generator makes every request fail with
// ErrUnavailable. A zero timeout uses DefaultCoachTimeout.
func New(gen TextGenerator, timeout time.Duration) *Coach {
	if timeout <= 0 {
		timeout = constants.DefaultCoachTimeout
	}
	return &Coach{gen: gen, timeout: timeout}
}

func (c *Coach) Available() bool {
	return c != nil && c.gen != nil
}

// Tip asks for a short daily tip based on the most recent entries.
func (c *Coach) Tip(ctx context.Context, recent []models.HabitLogEntry) (string, error) {
	return c.generate(ctx, "tip", Request{
		SystemInstruction: tipInstruction,
		Prompt:            TipPrompt(recent),
	})
}

// WeeklyAnalysis asks for an improvement plan over the entries dated within
// the last seven days, today included.
func (c *Coach) WeeklyAnalysis(ctx context.Context, all []models.HabitLogEntry, today string) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}
	if len(all) == 0 {
		return "", ErrNoData
	}
	week, err := WeekWindow(all, today)
	if err != nil {
		return "", err
	}
	if len(week) == 0 {
		return "", ErrNotEnoughData
	}
	return c.generate(ctx, "weekly", Request{
		SystemInstruction: weeklyInstruction,
		Prompt:            WeeklyPrompt(week),
	})
}

// Ask answers a wellness question, continuing an optional chat history.
func (c *Coach) Ask(ctx context.Context, question string, history []Message) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}
	return c.generate(ctx, "ask", Request{
		SystemInstruction: chatInstruction,
		History:           history,
		Prompt:            question,
	})
}

// Plan builds a personalised plan from recent entries and the user's goals.
// Only premium profiles may request one.
func (c *Coach) Plan(ctx context.Context, p models.UserProfile, goals map[models.HabitCategory]int, recent []models.HabitLogEntry) (string, error) {
	if p.SubscriptionStatus != models.SubscriptionPremium {
		return "", ErrPremiumRequired
	}
	return c.generate(ctx, "plan", Request{
		SystemInstruction: planInstruction,
		Prompt:            PlanPrompt(p.Name, goals, recent),
	})
}

func (c *Coach) generate(ctx context.Context, kind string, req Request) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.gen.Generate(ctx, req)
	if err != nil {
		logger.Error("Coach request failed", "kind", kind, "error", err)
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}
	logger.Debug("Coach request finished", "kind", kind, "duration", time.Since(start))
	return text, nil
}

// WeekWindow returns the entries dated on or after today-6, in ledger order.
func WeekWindow(entries []models.HabitLogEntry, today string) ([]models.HabitLogEntry, error) {
	from, err := utils.AddDays(today, -(constants.CoachWeeklyDays - 1))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", today, err)
	}
	week := []models.HabitLogEntry{}
	for _, e := range entries {
		if e.Date >= from {
			week = append(week, e)
		}
	}
	return week, nil
}

// FallbackText is the message a surface shows instead of model output when a
// request fails.
func FallbackText(kind string, err error) string {
	switch {
	case errors.Is(err, ErrUnavailable):
		return "The AI coach needs a Gemini API key. Set GEMINI_API_KEY or run `vitalflow keyring set gemini-api-key`."
	case errors.Is(err, ErrNoData):
		return "Log a few habits first and the coach will analyse your week."
	case errors.Is(err, ErrNotEnoughData):
		return "Nothing was logged in the past week, so there is nothing to analyse yet."
	case errors.Is(err, ErrPremiumRequired):
		return "Custom AI plans are a premium feature. Run `vitalflow profile upgrade` to unlock them."
	}
	switch kind {
	case "tip":
		return "Couldn't fetch a tip right now. Stay hydrated and take a short walk today!"
	case "weekly":
		return "Couldn't analyse your week right now. Please try again later."
	case "plan":
		return "Couldn't build a plan right now. Please try again later."
	default:
		return "Sorry, I couldn't answer that right now. Please try again later."
	}
}
