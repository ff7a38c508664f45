package session

import (
	"github.com/julianstephens/vitalflow/internal/achievement"
	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/utils"
)

// CategoryProgress is one category's standing on a day.
type CategoryProgress struct {
	Category models.HabitCategory `json:"category"`
	Goal     int                  `json:"goal"`
	// Best is the largest single value logged that day.
	Best     float64 `json:"best"`
	Entries  int     `json:"entries"`
	Complete bool    `json:"complete"`
}

// DayProgress summarizes goal completion for one date.
type DayProgress struct {
	Date       string             `json:"date"`
	Categories []CategoryProgress `json:"categories"`
	Completed  int                `json:"completed"`
	// Percent is the share of goal categories completed, 0 to 100.
	Percent     float64 `json:"percent"`
	AllGoalsMet bool    `json:"allGoalsMet"`
}

// DayProgress reports which goals were met on date. A category is complete
// when any single entry that day reaches its effective goal.
func (s *Session) DayProgress(date string) DayProgress {
	return ComputeDayProgress(date, s.EntriesOnDate(date), s.profile.Goals())
}

// ComputeDayProgress is DayProgress over explicit entries and goals.
// Categories without a positive goal are not counted.
func ComputeDayProgress(date string, entries []models.HabitLogEntry, goals map[models.HabitCategory]int) DayProgress {
	p := DayProgress{Date: date}
	tracked := 0
	for _, c := range models.AllCategories() {
		goal := goals[c]
		cp := CategoryProgress{Category: c, Goal: goal}
		for _, e := range entries {
			if e.HabitCategory != c {
				continue
			}
			cp.Entries++
			if e.Value > cp.Best {
				cp.Best = e.Value
			}
		}
		if goal > 0 {
			tracked++
			cp.Complete = cp.Best >= float64(goal)
			if cp.Complete {
				p.Completed++
			}
		}
		p.Categories = append(p.Categories, cp)
	}
	if tracked > 0 {
		p.Percent = float64(p.Completed) / float64(tracked) * 100
		p.AllGoalsMet = p.Completed == tracked
	}
	return p
}

// Streaks holds the current run lengths in days.
type Streaks struct {
	Overall    int                          `json:"overall"`
	ByCategory map[models.HabitCategory]int `json:"byCategory"`
}

// Streaks returns the runs still alive on date: a run ending on date, or on
// the day before when nothing has been logged yet on date.
func (s *Session) Streaks(date string) Streaks {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Streaks{
		Overall:    liveStreak(s.ledger.DatesLogged(), date),
		ByCategory: make(map[models.HabitCategory]int, len(models.AllCategories())),
	}
	for _, c := range models.AllCategories() {
		out.ByCategory[c] = liveStreak(s.ledger.DatesLogged(c), date)
	}
	return out
}

func liveStreak(dates map[string]struct{}, date string) int {
	if run := achievement.CurrentStreak(dates, date); run > 0 {
		return run
	}
	prev, err := utils.PreviousDay(date)
	if err != nil {
		return 0
	}
	return achievement.CurrentStreak(dates, prev)
}
