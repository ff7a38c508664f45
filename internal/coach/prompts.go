package coach

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/vitalflow/internal/catalog"
	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/models"
)

const (
	tipInstruction    = "You are VitalFlow, a friendly AI habit coach. Your tone is supportive and encouraging. Keep responses concise."
	weeklyInstruction = "You are VitalFlow, a friendly AI habit coach. You are providing a weekly summary and improvement suggestions."
	chatInstruction   = "You are VitalFlow, a friendly AI habit coach. Answer wellness-related questions. If a question is outside of wellness, politely decline to answer. Keep answers concise and helpful."
	planInstruction   = "You are VitalFlow, a friendly AI habit coach. You write personalised, realistic weekly habit plans."
)

// FormatRecent renders the last CoachRecentEntries entries as the activity
// context shared by the tip and plan prompts.
func FormatRecent(entries []models.HabitLogEntry) string {
	var b strings.Builder
	b.WriteString("Recent user activity:\n")
	if len(entries) == 0 {
		b.WriteString("No recent activity logged.\n")
		return b.String()
	}
	if len(entries) > constants.CoachRecentEntries {
		entries = entries[len(entries)-constants.CoachRecentEntries:]
	}
	for _, e := range entries {
		name, unit := habitLabels(e.HabitCategory)
		fmt.Fprintf(&b, "- Logged %s %s of %s on %s.", formatValue(e.Value), unit, name, e.Date)
		if d := e.Details; d != nil {
			if d.SleepQuality != "" {
				fmt.Fprintf(&b, " Sleep quality: %s.", d.SleepQuality)
			}
			if d.ExerciseType != "" {
				fmt.Fprintf(&b, " Exercise type: %s.", d.ExerciseType)
			}
			if d.MeditationMood != "" {
				fmt.Fprintf(&b, " Meditation mood: %s.", d.MeditationMood)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func TipPrompt(recent []models.HabitLogEntry) string {
	return FormatRecent(recent) + "\nBased on this, provide a concise, actionable wellness tip for today (around 30-50 words). Be encouraging and friendly, like a wellness buddy."
}

func WeeklyPrompt(week []models.HabitLogEntry) string {
	var b strings.Builder
	b.WriteString("Analyze the user's habit patterns from the past week based on the following logs and provide a short (100-150 words) weekly improvement plan. Focus on one or two key areas for improvement. Be encouraging and specific.\n\nLogs:\n")
	for _, e := range week {
		name, unit := habitLabels(e.HabitCategory)
		fmt.Fprintf(&b, "- %s: %s - %s %s\n", e.Date, name, formatValue(e.Value), unit)
	}
	return b.String()
}

func PlanPrompt(name string, goals map[models.HabitCategory]int, recent []models.HabitLogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a personalised 7-day habit plan for %s.\n\nDaily goals:\n", name)
	for _, c := range models.AllCategories() {
		habitName, unit := habitLabels(c)
		fmt.Fprintf(&b, "- %s: %d %s\n", habitName, goals[c], unit)
	}
	b.WriteString("\n")
	b.WriteString(FormatRecent(recent))
	b.WriteString("\nKeep it under 200 words, one short line per day.")
	return b.String()
}

func habitLabels(c models.HabitCategory) (string, string) {
	if def, ok := catalog.Habit(c); ok {
		return def.Name, def.Unit
	}
	return string(c), "units"
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
