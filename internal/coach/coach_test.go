package coach

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/vitalflow/internal/models"
)

type fakeGenerator struct {
	reply    string
	err      error
	requests []Request
	wait     bool
}

func (f *fakeGenerator) Generate(ctx context.Context, req Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func sampleEntries() []models.HabitLogEntry {
	return []models.HabitLogEntry{
		{ID: "log-1", Date: "2024-01-01", HabitCategory: models.CategorySleep, Value: 7.5, Details: models.SleepDetails(models.SleepGood)},
		{ID: "log-2", Date: "2024-01-02", HabitCategory: models.CategoryWater, Value: 8},
		{ID: "log-3", Date: "2024-01-05", HabitCategory: models.CategoryExercise, Value: 30, Details: models.ExerciseDetails("Running")},
		{ID: "log-4", Date: "2024-01-06", HabitCategory: models.CategoryMeditation, Value: 10, Details: models.MeditationDetails(models.MoodCalm)},
		{ID: "log-5", Date: "2024-01-07", HabitCategory: models.CategoryWater, Value: 6},
		{ID: "log-6", Date: "2024-01-08", HabitCategory: models.CategoryWater, Value: 9},
	}
}

func TestFormatRecent(t *testing.T) {
	got := FormatRecent(sampleEntries())
	if strings.Contains(got, "2024-01-01") {
		t.Error("only the last five entries should be included")
	}
	for _, want := range []string{
		"Recent user activity:\n",
		"- Logged 30 minutes of Exercise on 2024-01-05. Exercise type: Running.\n",
		"- Logged 10 minutes of Meditation on 2024-01-06. Meditation mood: Calm.\n",
		"- Logged 9 glasses of Water on 2024-01-08.\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatRecent() missing %q in:\n%s", want, got)
		}
	}

	if got := FormatRecent(nil); got != "Recent user activity:\nNo recent activity logged.\n" {
		t.Errorf("FormatRecent(nil) = %q", got)
	}
}

func TestTip(t *testing.T) {
	gen := &fakeGenerator{reply: "  Drink a glass of water first thing.  "}
	c := New(gen, time.Second)

	got, err := c.Tip(context.Background(), sampleEntries())
	if err != nil {
		t.Fatalf("Tip() error: %v", err)
	}
	if got != "Drink a glass of water first thing." {
		t.Errorf("Tip() = %q, want trimmed reply", got)
	}
	req := gen.requests[0]
	if !strings.HasPrefix(req.SystemInstruction, "You are VitalFlow") {
		t.Errorf("system instruction = %q", req.SystemInstruction)
	}
	if !strings.Contains(req.Prompt, "wellness tip") || !strings.Contains(req.Prompt, "Recent user activity") {
		t.Errorf("prompt = %q", req.Prompt)
	}
}

func TestUnavailable(t *testing.T) {
	c := New(nil, 0)
	if c.Available() {
		t.Error("coach without a generator reports available")
	}
	if _, err := c.Tip(context.Background(), nil); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Tip() error = %v, want ErrUnavailable", err)
	}
	if _, err := c.WeeklyAnalysis(context.Background(), nil, "2024-01-08"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("WeeklyAnalysis() error = %v, want ErrUnavailable", err)
	}
	if _, err := c.Ask(context.Background(), "How much water?", nil); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ask() error = %v, want ErrUnavailable", err)
	}
}

func TestWeeklyAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.HabitLogEntry
		today   string
		wantErr error
		wantDates []string
	}{
		{name: "empty ledger", entries: nil, today: "2024-01-08", wantErr: ErrNoData},
		{name: "nothing this week", entries: sampleEntries(), today: "2024-03-01", wantErr: ErrNotEnoughData},
		{name: "window starts six days back", entries: sampleEntries(), today: "2024-01-08", wantDates: []string{"2024-01-02", "2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{reply: "Plan"}
			got, err := New(gen, time.Second).WeeklyAnalysis(context.Background(), tt.entries, tt.today)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if len(gen.requests) != 0 {
					t.Error("generator called despite missing data")
				}
				return
			}
			if err != nil || got != "Plan" {
				t.Fatalf("WeeklyAnalysis() = %q, %v", got, err)
			}
			prompt := gen.requests[0].Prompt
			if strings.Contains(prompt, "2024-01-01") {
				t.Error("entry older than the window included")
			}
			for _, date := range tt.wantDates {
				if !strings.Contains(prompt, "- "+date+":") {
					t.Errorf("prompt missing %s:\n%s", date, prompt)
				}
			}
		})
	}
}

func TestAsk(t *testing.T) {
	gen := &fakeGenerator{reply: "About 8 glasses."}
	c := New(gen, time.Second)

	if _, err := c.Ask(context.Background(), "   ", nil); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("blank question error = %v", err)
	}

	history := []Message{{Role: RoleUser, Text: "Hi"}, {Role: RoleModel, Text: "Hello!"}}
	got, err := c.Ask(context.Background(), "How much water should I drink?", history)
	if err != nil || got != "About 8 glasses." {
		t.Fatalf("Ask() = %q, %v", got, err)
	}
	req := gen.requests[0]
	if len(req.History) != 2 || req.Prompt != "How much water should I drink?" {
		t.Errorf("request = %+v", req)
	}
}

func TestPlanRequiresPremium(t *testing.T) {
	gen := &fakeGenerator{reply: "Day 1: ..."}
	c := New(gen, time.Second)
	goals := map[models.HabitCategory]int{models.CategorySleep: 8, models.CategoryWater: 8, models.CategoryExercise: 30, models.CategoryMeditation: 10}

	free := models.UserProfile{Name: "Ana", SubscriptionStatus: models.SubscriptionFree}
	if _, err := c.Plan(context.Background(), free, goals, nil); !errors.Is(err, ErrPremiumRequired) {
		t.Errorf("Plan() for free profile error = %v", err)
	}

	premium := models.UserProfile{Name: "Ana", SubscriptionStatus: models.SubscriptionPremium}
	if _, err := c.Plan(context.Background(), premium, goals, sampleEntries()); err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if !strings.Contains(gen.requests[0].Prompt, "- Sleep: 8 hours") {
		t.Errorf("plan prompt missing goals:\n%s", gen.requests[0].Prompt)
	}
}

func TestGenerationErrors(t *testing.T) {
	t.Run("generator error", func(t *testing.T) {
		cause := errors.New("quota exceeded")
		_, err := New(&fakeGenerator{err: cause}, time.Second).Tip(context.Background(), nil)
		if !errors.Is(err, ErrGeneration) || !errors.Is(err, cause) {
			t.Errorf("error = %v, want ErrGeneration wrapping cause", err)
		}
	})
	t.Run("empty reply", func(t *testing.T) {
		_, err := New(&fakeGenerator{reply: "  "}, time.Second).Tip(context.Background(), nil)
		if !errors.Is(err, ErrGeneration) {
			t.Errorf("error = %v, want ErrGeneration", err)
		}
	})
	t.Run("timeout", func(t *testing.T) {
		_, err := New(&fakeGenerator{wait: true}, 10*time.Millisecond).Tip(context.Background(), nil)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("error = %v, want deadline exceeded", err)
		}
	})
}

func TestFallbackText(t *testing.T) {
	if got := FallbackText("tip", ErrUnavailable); !strings.Contains(got, "GEMINI_API_KEY") {
		t.Errorf("unavailable fallback = %q", got)
	}
	if got := FallbackText("weekly", ErrNoData); !strings.Contains(got, "Log a few habits") {
		t.Errorf("no-data fallback = %q", got)
	}
	if FallbackText("tip", ErrGeneration) == FallbackText("ask", ErrGeneration) {
		t.Error("fallbacks should differ per request kind")
	}
}
