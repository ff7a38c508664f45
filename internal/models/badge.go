package models

import "sort"

// BadgeID identifies a badge definition in the catalog
type BadgeID string

const (
	BadgeFirstLog       BadgeID = "firstLog"
	Badge7DayStreak     BadgeID = "7DayStreak"
	BadgeWaterWeek      BadgeID = "waterWeek"
	BadgeSleepWeek      BadgeID = "sleepWeek"
	BadgeExerciseWeek   BadgeID = "exerciseWeek"
	BadgeMeditationWeek BadgeID = "meditationWeek"
	BadgeAllHabitsDay   BadgeID = "allHabitsDay"
	Badge100Points      BadgeID = "100Points"
	Badge500Points      BadgeID = "500Points"
)

// Badge is the persisted state of one achievement. Achieved never reverts.
type Badge struct {
	ID           BadgeID `json:"id"`
	Achieved     bool    `json:"achieved"`
	DateAchieved string  `json:"dateAchieved,omitempty"` // YYYY-MM-DD format
}

// PointsAndBadges is the aggregate owned by the session
type PointsAndBadges struct {
	TotalPoints int     `json:"totalPoints"`
	Badges      []Badge `json:"badges"`
	// BonusDays holds the dates that already received the all-habits bonus.
	BonusDays []string `json:"bonusDays,omitempty"`
}

// Badge returns the badge with the given id.
func (p PointsAndBadges) Badge(id BadgeID) (Badge, bool) {
	for _, b := range p.Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}

// IsAchieved reports whether the badge exists and has been achieved.
func (p PointsAndBadges) IsAchieved(id BadgeID) bool {
	b, ok := p.Badge(id)
	return ok && b.Achieved
}

// AchievedCount returns how many badges have been achieved.
func (p PointsAndBadges) AchievedCount() int {
	count := 0
	for _, b := range p.Badges {
		if b.Achieved {
			count++
		}
	}
	return count
}

// HasBonus reports whether the all-habits bonus was already granted for date.
func (p PointsAndBadges) HasBonus(date string) bool {
	i := sort.SearchStrings(p.BonusDays, date)
	return i < len(p.BonusDays) && p.BonusDays[i] == date
}

// WithBonus returns a copy of the bonus days including date, kept sorted.
func (p PointsAndBadges) WithBonus(date string) []string {
	days := make([]string, 0, len(p.BonusDays)+1)
	days = append(days, p.BonusDays...)
	if p.HasBonus(date) {
		return days
	}
	i := sort.SearchStrings(days, date)
	days = append(days, "")
	copy(days[i+1:], days[i:])
	days[i] = date
	return days
}

// Clone returns a deep copy.
func (p PointsAndBadges) Clone() PointsAndBadges {
	out := PointsAndBadges{TotalPoints: p.TotalPoints}
	out.Badges = append([]Badge(nil), p.Badges...)
	if len(p.BonusDays) > 0 {
		out.BonusDays = append([]string(nil), p.BonusDays...)
	}
	return out
}
