// Package achievement turns a ledger append into the next points and badges
// state. It never fails: entries are validated before they reach the ledger.
package achievement

import (
	"github.com/julianstephens/vitalflow/internal/catalog"
	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/ledger"
	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/utils"
)

// LedgerView is the read side of the ledger the engine needs.
type LedgerView interface {
	Len() int
	DatesLogged(categories ...models.HabitCategory) map[string]struct{}
	CategoriesOn(date string) map[models.HabitCategory]struct{}
}

// Engine evaluates points and badge predicates. The clock only stamps
// dateAchieved; predicates are evaluated relative to the new entry's date.
type Engine struct {
	clock utils.Clock
}

func NewEngine(clock utils.Clock) *Engine {
	return &Engine{clock: clock}
}

// OnEntryAdded computes the state after newEntry was appended to l. The
// ledger must already contain newEntry. prior is not modified.
func (e *Engine) OnEntryAdded(l LedgerView, newEntry models.HabitLogEntry, prior models.PointsAndBadges) models.PointsAndBadges {
	next := prior.Clone()
	next.TotalPoints += constants.PointsPerLog

	allToday := coversAllCategories(l.CategoriesOn(newEntry.Date))
	if allToday && !next.HasBonus(newEntry.Date) {
		next.TotalPoints += constants.BonusPointsAllHabitsDay
		next.BonusDays = next.WithBonus(newEntry.Date)
	}

	today := e.clock.Today()
	for i, b := range next.Badges {
		if b.Achieved {
			continue
		}
		if e.qualifies(b.ID, l, newEntry, next.TotalPoints, allToday) {
			next.Badges[i].Achieved = true
			next.Badges[i].DateAchieved = today
		}
	}
	return next
}

func (e *Engine) qualifies(id models.BadgeID, l LedgerView, newEntry models.HabitLogEntry, total int, allToday bool) bool {
	switch id {
	case models.BadgeFirstLog:
		return l.Len() > 0
	case models.Badge100Points:
		return total >= constants.PointsBadgeLow
	case models.Badge500Points:
		return total >= constants.PointsBadgeHigh
	case models.BadgeAllHabitsDay:
		return allToday
	case models.Badge7DayStreak:
		return HasStreak(l.DatesLogged(), newEntry.Date, constants.StreakTargetDays)
	}
	for _, c := range models.AllCategories() {
		if week, _ := catalog.WeekBadge(c); week == id {
			return HasStreak(l.DatesLogged(c), newEntry.Date, constants.StreakTargetDays)
		}
	}
	// Unknown ids carried over from older snapshots never qualify.
	return false
}

func coversAllCategories(logged map[models.HabitCategory]struct{}) bool {
	for _, c := range models.AllCategories() {
		if _, ok := logged[c]; !ok {
			return false
		}
	}
	return true
}

// HasStreak reports whether dates contain a run of at least target
// consecutive days ending on end.
func HasStreak(dates map[string]struct{}, end string, target int) bool {
	if len(dates) < target {
		return false
	}
	return CurrentStreak(dates, end) >= target
}

// CurrentStreak counts consecutive logged days walking back from end,
// stopping at the first gap. It is 0 when end itself was not logged.
func CurrentStreak(dates map[string]struct{}, end string) int {
	run := 0
	day := end
	for {
		if _, ok := dates[day]; !ok {
			return run
		}
		run++
		prev, err := utils.PreviousDay(day)
		if err != nil {
			return run
		}
		day = prev
	}
}

// Replay recomputes points and badges from scratch by folding OnEntryAdded
// over the entries in order.
func (e *Engine) Replay(entries []models.HabitLogEntry) models.PointsAndBadges {
	state := catalog.InitialPointsAndBadges()
	l := ledger.New(nil, nil)
	for _, entry := range entries {
		stored := l.AddEntry(entry)
		state = e.OnEntryAdded(l, stored, state)
	}
	return state
}

// NewlyAchieved lists the badges achieved in next but not in prior.
func NewlyAchieved(prior, next models.PointsAndBadges) []models.BadgeID {
	var out []models.BadgeID
	for _, b := range next.Badges {
		if b.Achieved && !prior.IsAchieved(b.ID) {
			out = append(out, b.ID)
		}
	}
	return out
}
