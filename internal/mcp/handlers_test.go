package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/session"
	"github.com/julianstephens/vitalflow/internal/storage"
	"github.com/julianstephens/vitalflow/internal/utils"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sess, err := session.Open(storage.NewMemoryStore(), session.Options{Clock: utils.NewFixedClock("2024-01-10")})
	if err != nil {
		t.Fatal(err)
	}
	return New(sess)
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned a protocol error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestLogHabitTool(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.handleLogHabit, map[string]any{
		"category":      "sleep",
		"value":         7.5,
		"date":          "2024-01-09",
		"sleep_quality": "Good",
	})
	if isErr {
		t.Fatalf("log_habit failed: %s", text)
	}
	var out logResult
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatalf("invalid JSON %q: %v", text, err)
	}
	if out.Entry.ID != "log-1" || out.Entry.Date != "2024-01-09" || out.Entry.HabitCategory != models.CategorySleep {
		t.Errorf("entry = %+v", out.Entry)
	}
	if out.PointsAwarded != 10 || out.TotalPoints != 10 {
		t.Errorf("points = %d/%d", out.PointsAwarded, out.TotalPoints)
	}
	if len(out.NewBadges) != 1 || out.NewBadges[0] != models.BadgeFirstLog {
		t.Errorf("new badges = %v", out.NewBadges)
	}
}

func TestLogHabitToolDefaultsToToday(t *testing.T) {
	s := newTestServer(t)
	text, isErr := call(t, s.handleLogHabit, map[string]any{"category": "Water", "value": 2.0})
	if isErr {
		t.Fatalf("log_habit failed: %s", text)
	}
	if !strings.Contains(text, `"date":"2024-01-10"`) {
		t.Errorf("entry not dated today: %s", text)
	}
}

func TestLogHabitToolRejects(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "missing value", args: map[string]any{"category": "Water"}, want: "'value'"},
		{name: "bad date", args: map[string]any{"category": "Water", "value": 1.0, "date": "01/02/2024"}, want: "YYYY-MM-DD"},
		{name: "unknown category", args: map[string]any{"category": "Reading", "value": 1.0}, want: "invalid habit category"},
		{name: "missing sleep quality", args: map[string]any{"category": "Sleep", "value": 7.0}, want: "sleepQuality"},
		{name: "non-positive value", args: map[string]any{"category": "Water", "value": 0.0}, want: "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			text, isErr := call(t, s.handleLogHabit, tt.args)
			if !isErr {
				t.Fatalf("expected a tool error, got %s", text)
			}
			if !strings.Contains(text, tt.want) {
				t.Errorf("error %q does not mention %q", text, tt.want)
			}
			if got := s.sess.PointsAndBadges().TotalPoints; got != 0 {
				t.Errorf("rejected call changed points to %d", got)
			}
		})
	}
}

func TestQueryTools(t *testing.T) {
	s := newTestServer(t)
	for _, args := range []map[string]any{
		{"category": "Water", "value": 8.0, "date": "2024-01-10"},
		{"category": "Exercise", "value": 30.0, "date": "2024-01-10", "exercise_type": "Yoga"},
		{"category": "Water", "value": 4.0, "date": "2024-01-09"},
	} {
		if text, isErr := call(t, s.handleLogHabit, args); isErr {
			t.Fatalf("setup log failed: %s", text)
		}
	}

	t.Run("entries_on_date", func(t *testing.T) {
		text, _ := call(t, s.handleEntriesOnDate, map[string]any{})
		var entries []models.HabitLogEntry
		if err := json.Unmarshal([]byte(text), &entries); err != nil {
			t.Fatal(err)
		}
		if len(entries) != 2 {
			t.Errorf("entries today = %d, want 2", len(entries))
		}
	})

	t.Run("entries_for_category", func(t *testing.T) {
		text, _ := call(t, s.handleEntriesForCategory, map[string]any{"category": "water"})
		var entries []models.HabitLogEntry
		if err := json.Unmarshal([]byte(text), &entries); err != nil {
			t.Fatal(err)
		}
		if len(entries) != 2 || entries[0].Date != "2024-01-10" {
			t.Errorf("water entries = %+v", entries)
		}
	})

	t.Run("points_and_badges", func(t *testing.T) {
		text, _ := call(t, s.handlePointsAndBadges, nil)
		var state models.PointsAndBadges
		if err := json.Unmarshal([]byte(text), &state); err != nil {
			t.Fatal(err)
		}
		if state.TotalPoints != 30 || len(state.Badges) != 9 {
			t.Errorf("state = %+v", state)
		}
	})

	t.Run("day_progress", func(t *testing.T) {
		text, _ := call(t, s.handleDayProgress, map[string]any{"date": "2024-01-10"})
		var out struct {
			Progress session.DayProgress `json:"progress"`
			Streaks  session.Streaks     `json:"streaks"`
		}
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			t.Fatal(err)
		}
		if out.Progress.Completed != 2 || out.Progress.Percent != 50 {
			t.Errorf("progress = %+v", out.Progress)
		}
		if out.Streaks.Overall != 2 || out.Streaks.ByCategory[models.CategoryWater] != 2 {
			t.Errorf("streaks = %+v", out.Streaks)
		}
	})
}

func TestToolsRegistered(t *testing.T) {
	s := newTestServer(t)
	msg := s.MCPRawServer().HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"log_habit", "entries_on_date", "entries_for_category", "points_and_badges", "day_progress"} {
		if !strings.Contains(string(data), `"`+name+`"`) {
			t.Errorf("tool %s not listed", name)
		}
	}
}
