package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/julianstephens/vitalflow/internal/logger"
	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/utils"
	"github.com/julianstephens/vitalflow/internal/validation"
)

type logResult struct {
	Entry         models.HabitLogEntry `json:"entry"`
	PointsAwarded int                  `json:"pointsAwarded"`
	TotalPoints   int                  `json:"totalPoints"`
	NewBadges     []models.BadgeID     `json:"newBadges"`
	Warning       string               `json:"warning,omitempty"`
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("log_habit",
		mcp.WithDescription("Logs a habit entry and returns the points and badges it earned."),
		mcp.WithString("category", mcp.Required(), mcp.Description("One of Sleep, Water, Exercise, Meditation.")),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("Positive amount in the habit's unit (hours, glasses, minutes).")),
		mcp.WithString("date", mcp.Description("Calendar day as YYYY-MM-DD. Defaults to today.")),
		mcp.WithString("sleep_quality", mcp.Description("Required for Sleep: Poor, Fair, Good or Excellent.")),
		mcp.WithString("exercise_type", mcp.Description("Required for Exercise: the activity, e.g. Running.")),
		mcp.WithString("meditation_mood", mcp.Description("Required for Meditation: Stressed, Neutral, Calm or Focused.")),
	), s.handleLogHabit)

	s.mcpServer.AddTool(mcp.NewTool("entries_on_date",
		mcp.WithDescription("Lists the entries logged on one day, in logging order."),
		mcp.WithString("date", mcp.Description("Calendar day as YYYY-MM-DD. Defaults to today.")),
	), s.handleEntriesOnDate)

	s.mcpServer.AddTool(mcp.NewTool("entries_for_category",
		mcp.WithDescription("Lists every entry of one habit category, oldest first."),
		mcp.WithString("category", mcp.Required(), mcp.Description("One of Sleep, Water, Exercise, Meditation.")),
	), s.handleEntriesForCategory)

	s.mcpServer.AddTool(mcp.NewTool("points_and_badges",
		mcp.WithDescription("Returns the total points and the state of every badge."),
	), s.handlePointsAndBadges)

	s.mcpServer.AddTool(mcp.NewTool("day_progress",
		mcp.WithDescription("Returns goal completion and current streaks for one day."),
		mcp.WithString("date", mcp.Description("Calendar day as YYYY-MM-DD. Defaults to today.")),
	), s.handleDayProgress)
}

func (s *Server) handleLogHabit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments
	value, ok := args["value"].(float64)
	if !ok {
		return mcp.NewToolResultError("'value' parameter is required and must be a number."), nil
	}
	date, errResult := s.dateArg(args)
	if errResult != nil {
		return errResult, nil
	}

	draft, err := models.DraftInput{
		Date:           date,
		Category:       stringArg(args, "category"),
		Value:          value,
		SleepQuality:   stringArg(args, "sleep_quality"),
		ExerciseType:   stringArg(args, "exercise_type"),
		MeditationMood: stringArg(args, "meditation_mood"),
	}.Draft()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.sess.LogHabit(draft)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return mcp.NewToolResultError(verr.Error()), nil
		}
		if res.Entry.ID == "" {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to log habit: %v", err)), nil
		}
		// Logged in memory but not saved.
		logger.Warn("MCP log_habit saved partially", "error", err)
	}

	out := logResult{
		Entry:         res.Entry,
		PointsAwarded: res.PointsAwarded,
		TotalPoints:   res.State.TotalPoints,
		NewBadges:     res.NewBadges,
	}
	if out.NewBadges == nil {
		out.NewBadges = []models.BadgeID{}
	}
	if err != nil {
		out.Warning = err.Error()
	}
	return jsonResult(out)
}

func (s *Server) handleEntriesOnDate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, errResult := s.dateArg(request.Params.Arguments)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(s.sess.EntriesOnDate(date))
}

func (s *Server) handleEntriesForCategory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := models.ParseHabitCategory(stringArg(request.Params.Arguments, "category"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.sess.EntriesForCategory(category))
}

func (s *Server) handlePointsAndBadges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.sess.PointsAndBadges())
}

func (s *Server) handleDayProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, errResult := s.dateArg(request.Params.Arguments)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(struct {
		Progress any `json:"progress"`
		Streaks  any `json:"streaks"`
	}{s.sess.DayProgress(date), s.sess.Streaks(date)})
}

// dateArg returns the "date" argument, today when absent.
func (s *Server) dateArg(args map[string]any) (string, *mcp.CallToolResult) {
	date := stringArg(args, "date")
	if date == "" {
		return s.sess.Today(), nil
	}
	if !utils.IsValidDate(date) {
		return "", mcp.NewToolResultError(fmt.Sprintf("'date' must be YYYY-MM-DD, got %q.", date))
	}
	return date, nil
}

func stringArg(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return v
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
