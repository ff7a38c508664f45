// Package catalog holds the fixed definitions the rest of the module keys
// off: habit categories with their default goals, the badge list, themes and
// supported languages. Display strings are translation keys; the English
// labels exist only for the terminal surfaces.
package catalog

import (
	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/models"
)

// HabitDefinition describes one trackable category
type HabitDefinition struct {
	Category models.HabitCategory
	NameKey  string
	UnitKey  string
	Goal     int
	Name     string
	Unit     string
}

// BadgeDefinition describes one one-time achievement
type BadgeDefinition struct {
	ID             models.BadgeID
	NameKey        string
	DescriptionKey string
	Name           string
	Description    string
}

// Theme is a named color palette
type Theme struct {
	ID         string
	Name       string
	Primary    string
	Secondary  string
	Accent     string
	Background string
	Text       string
	Card       string
}

// Language is a supported UI language
type Language struct {
	Code string
	Name string
}

var habits = []HabitDefinition{
	{Category: models.CategorySleep, NameKey: "habit.sleep.name", UnitKey: "habit.sleep.unit", Goal: 7, Name: "Sleep", Unit: "hours"},
	{Category: models.CategoryWater, NameKey: "habit.water.name", UnitKey: "habit.water.unit", Goal: 8, Name: "Water", Unit: "glasses"},
	{Category: models.CategoryExercise, NameKey: "habit.exercise.name", UnitKey: "habit.exercise.unit", Goal: 30, Name: "Exercise", Unit: "minutes"},
	{Category: models.CategoryMeditation, NameKey: "habit.meditation.name", UnitKey: "habit.meditation.unit", Goal: 10, Name: "Meditation", Unit: "minutes"},
}

var badges = []BadgeDefinition{
	badge(models.BadgeFirstLog, "First Step", "Log your first habit."),
	badge(models.Badge7DayStreak, "Week Warrior", "Log any habit 7 days in a row."),
	badge(models.BadgeWaterWeek, "Hydration Hero", "Log water 7 days in a row."),
	badge(models.BadgeSleepWeek, "Sleep Champion", "Log sleep 7 days in a row."),
	badge(models.BadgeExerciseWeek, "Fitness Fanatic", "Log exercise 7 days in a row."),
	badge(models.BadgeMeditationWeek, "Zen Master", "Log meditation 7 days in a row."),
	badge(models.BadgeAllHabitsDay, "Perfect Day", "Log every habit on the same day."),
	badge(models.Badge100Points, "Century", "Earn 100 points."),
	badge(models.Badge500Points, "High Achiever", "Earn 500 points."),
}

func badge(id models.BadgeID, name, description string) BadgeDefinition {
	return BadgeDefinition{
		ID:             id,
		NameKey:        "badge." + string(id) + ".name",
		DescriptionKey: "badge." + string(id) + ".description",
		Name:           name,
		Description:    description,
	}
}

var themes = []Theme{
	{ID: "vitalBlue", Name: "Vital Blue", Primary: "#3b82f6", Secondary: "#10b981", Accent: "#8b5cf6", Background: "#f0f9ff", Text: "#0f172a", Card: "#ffffff"},
	{ID: "sereneGreen", Name: "Serene Green", Primary: "#22c55e", Secondary: "#6366f1", Accent: "#ec4899", Background: "#f0fdf4", Text: "#1e293b", Card: "#ffffff"},
	{ID: "calmLavender", Name: "Calm Lavender", Primary: "#a855f7", Secondary: "#06b6d4", Accent: "#f59e0b", Background: "#f5f3ff", Text: "#1c1917", Card: "#ffffff"},
}

var languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "bg", Name: "Български"},
}

// Habits returns the habit definitions in display order.
func Habits() []HabitDefinition {
	return append([]HabitDefinition(nil), habits...)
}

// Habit looks up the definition for a category.
func Habit(c models.HabitCategory) (HabitDefinition, bool) {
	for _, h := range habits {
		if h.Category == c {
			return h, true
		}
	}
	return HabitDefinition{}, false
}

// DefaultGoal returns the catalog goal for a category, or 0 if unknown.
func DefaultGoal(c models.HabitCategory) int {
	h, _ := Habit(c)
	return h.Goal
}

// DefaultGoals returns a fresh map of every category's catalog goal.
func DefaultGoals() map[models.HabitCategory]int {
	goals := make(map[models.HabitCategory]int, len(habits))
	for _, h := range habits {
		goals[h.Category] = h.Goal
	}
	return goals
}

// Badges returns the badge definitions in catalog order.
func Badges() []BadgeDefinition {
	return append([]BadgeDefinition(nil), badges...)
}

// Badge looks up a badge definition by id.
func Badge(id models.BadgeID) (BadgeDefinition, bool) {
	for _, b := range badges {
		if b.ID == id {
			return b, true
		}
	}
	return BadgeDefinition{}, false
}

// InitialBadges returns one unachieved badge per catalog entry.
func InitialBadges() []models.Badge {
	out := make([]models.Badge, 0, len(badges))
	for _, b := range badges {
		out = append(out, models.Badge{ID: b.ID})
	}
	return out
}

// InitialPointsAndBadges is the state of a user who has logged nothing.
func InitialPointsAndBadges() models.PointsAndBadges {
	return models.PointsAndBadges{Badges: InitialBadges()}
}

// WeekBadge maps a category to its seven-day streak badge.
func WeekBadge(c models.HabitCategory) (models.BadgeID, bool) {
	switch c {
	case models.CategoryWater:
		return models.BadgeWaterWeek, true
	case models.CategorySleep:
		return models.BadgeSleepWeek, true
	case models.CategoryExercise:
		return models.BadgeExerciseWeek, true
	case models.CategoryMeditation:
		return models.BadgeMeditationWeek, true
	default:
		return "", false
	}
}

// Themes returns the available color themes.
func Themes() []Theme {
	return append([]Theme(nil), themes...)
}

// ThemeByID looks up a theme, falling back to the default theme.
func ThemeByID(id string) (Theme, bool) {
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return themes[0], false
}

func IsTheme(id string) bool {
	_, ok := ThemeByID(id)
	return ok
}

// Languages returns the supported UI languages.
func Languages() []Language {
	return append([]Language(nil), languages...)
}

func IsLanguage(code string) bool {
	for _, l := range languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// DefaultProfile is the profile of a fresh install.
func DefaultProfile() models.UserProfile {
	return models.UserProfile{
		Name:               constants.DefaultProfileName,
		Goals:              DefaultGoals(),
		Theme:              constants.DefaultTheme,
		Language:           constants.DefaultLanguage,
		SubscriptionStatus: models.SubscriptionStatus(constants.DefaultSubscriptionStatus),
	}
}
