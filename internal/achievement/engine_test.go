package achievement

import (
	"testing"

	"github.com/julianstephens/vitalflow/internal/catalog"
	"github.com/julianstephens/vitalflow/internal/ledger"
	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/utils"
)

// harness appends entries and runs the engine the way the session does.
type harness struct {
	engine *Engine
	ledger *ledger.Ledger
	state  models.PointsAndBadges
}

func newHarness(today string) *harness {
	return &harness{
		engine: NewEngine(utils.NewFixedClock(today)),
		ledger: ledger.New(nil, nil),
		state:  catalog.InitialPointsAndBadges(),
	}
}

func (h *harness) log(date string, c models.HabitCategory, value float64) models.PointsAndBadges {
	stored := h.ledger.AddEntry(models.HabitLogEntry{Date: date, HabitCategory: c, Value: value})
	h.state = h.engine.OnEntryAdded(h.ledger, stored, h.state)
	return h.state
}

func achieved(p models.PointsAndBadges) map[models.BadgeID]bool {
	out := make(map[models.BadgeID]bool)
	for _, b := range p.Badges {
		if b.Achieved {
			out[b.ID] = true
		}
	}
	return out
}

func TestEndToEndScenario(t *testing.T) {
	h := newHarness("2024-03-01")

	state := h.log("2024-03-01", models.CategorySleep, 8)
	if state.TotalPoints != 10 {
		t.Errorf("after first log TotalPoints = %d, want 10", state.TotalPoints)
	}
	got := achieved(state)
	if !got[models.BadgeFirstLog] || len(got) != 1 {
		t.Errorf("after first log achieved = %v, want only firstLog", got)
	}

	h.log("2024-03-01", models.CategoryWater, 8)
	h.log("2024-03-01", models.CategoryExercise, 30)
	state = h.log("2024-03-01", models.CategoryMeditation, 10)
	if state.TotalPoints != 90 {
		t.Errorf("after all categories TotalPoints = %d, want 90", state.TotalPoints)
	}
	if !state.IsAchieved(models.BadgeAllHabitsDay) {
		t.Error("allHabitsDay not achieved after covering every category")
	}
	if state.IsAchieved(models.Badge100Points) {
		t.Error("100Points achieved at 90 points")
	}

	state = h.log("2024-03-01", models.CategoryWater, 2)
	if state.TotalPoints != 100 {
		t.Errorf("after fifth log TotalPoints = %d, want 100", state.TotalPoints)
	}
	if !state.IsAchieved(models.Badge100Points) {
		t.Error("100Points not achieved at 100 points")
	}
}

func TestBonusAwardedOncePerDate(t *testing.T) {
	h := newHarness("2024-03-01")
	for round := 0; round < 2; round++ {
		for _, c := range models.AllCategories() {
			h.log("2024-03-01", c, 1)
		}
	}
	if h.state.TotalPoints != 8*10+50 {
		t.Errorf("TotalPoints = %d, want %d", h.state.TotalPoints, 8*10+50)
	}
	if len(h.state.BonusDays) != 1 || h.state.BonusDays[0] != "2024-03-01" {
		t.Errorf("BonusDays = %v, want [2024-03-01]", h.state.BonusDays)
	}

	for _, c := range models.AllCategories() {
		h.log("2024-03-02", c, 1)
	}
	if h.state.TotalPoints != 12*10+100 {
		t.Errorf("TotalPoints = %d, want a second bonus for a new date", h.state.TotalPoints)
	}
}

func TestPointsAndBadgesAreMonotonic(t *testing.T) {
	h := newHarness("2024-02-01")
	categories := models.AllCategories()
	prev := h.state

	for i := 0; i < 60; i++ {
		date, _ := utils.AddDays("2024-01-01", i%9)
		next := h.log(date, categories[i%len(categories)], 1)

		if next.TotalPoints < prev.TotalPoints {
			t.Fatalf("step %d: points dropped from %d to %d", i, prev.TotalPoints, next.TotalPoints)
		}
		for _, b := range prev.Badges {
			if b.Achieved && !next.IsAchieved(b.ID) {
				t.Fatalf("step %d: badge %s reverted", i, b.ID)
			}
			if b.Achieved {
				after, _ := next.Badge(b.ID)
				if after.DateAchieved != b.DateAchieved {
					t.Fatalf("step %d: dateAchieved for %s changed", i, b.ID)
				}
			}
		}
		prev = next
	}
}

func TestWaterWeekStreak(t *testing.T) {
	h := newHarness("2024-01-07")
	for day := 1; day <= 7; day++ {
		date, _ := utils.AddDays("2024-01-01", day-1)
		h.log(date, models.CategoryWater, 1)
		if day < 7 && h.state.IsAchieved(models.BadgeWaterWeek) {
			t.Fatalf("waterWeek achieved after only %d days", day)
		}
	}
	if !h.state.IsAchieved(models.BadgeWaterWeek) {
		t.Error("waterWeek not achieved after 7 consecutive days")
	}
	if !h.state.IsAchieved(models.Badge7DayStreak) {
		t.Error("7DayStreak not achieved after 7 consecutive days")
	}
	if h.state.IsAchieved(models.BadgeSleepWeek) {
		t.Error("sleepWeek achieved from water entries")
	}
	b, _ := h.state.Badge(models.BadgeWaterWeek)
	if b.DateAchieved != "2024-01-07" {
		t.Errorf("DateAchieved = %q, want the clock's date", b.DateAchieved)
	}
}

func TestWaterWeekGapBreaksStreak(t *testing.T) {
	h := newHarness("2024-01-08")
	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08"} {
		h.log(date, models.CategoryWater, 1)
	}
	if h.state.IsAchieved(models.BadgeWaterWeek) {
		t.Error("waterWeek achieved across a gap")
	}
}

func TestBackfillCompletesPastStreak(t *testing.T) {
	h := newHarness("2024-02-01")
	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05", "2024-01-06", "2024-01-07"} {
		h.log(date, models.CategorySleep, 7)
	}
	if h.state.IsAchieved(models.BadgeSleepWeek) {
		t.Fatal("sleepWeek achieved before the gap was filled")
	}

	// The walk starts at the new entry's date, so filling the gap on its own
	// only sees 01-04 back to 01-01.
	h.log("2024-01-04", models.CategorySleep, 7)
	if h.state.IsAchieved(models.BadgeSleepWeek) {
		t.Fatal("sleepWeek achieved from a walk that starts mid-run")
	}

	h.log("2024-01-07", models.CategorySleep, 7)
	if !h.state.IsAchieved(models.BadgeSleepWeek) {
		t.Error("sleepWeek not achieved once a log on the run's last day is added")
	}
	b, _ := h.state.Badge(models.BadgeSleepWeek)
	if b.DateAchieved != "2024-02-01" {
		t.Errorf("DateAchieved = %q, want 2024-02-01", b.DateAchieved)
	}
}

func TestStreakRequiresDistinctDates(t *testing.T) {
	h := newHarness("2024-01-01")
	for i := 0; i < 10; i++ {
		h.log("2024-01-01", models.CategoryMeditation, 10)
	}
	if h.state.IsAchieved(models.BadgeMeditationWeek) {
		t.Error("meditationWeek achieved from one date")
	}
}

func TestCurrentStreak(t *testing.T) {
	dates := map[string]struct{}{
		"2024-02-27": {},
		"2024-02-28": {},
		"2024-02-29": {},
		"2024-03-01": {},
		"2024-03-03": {},
	}
	tests := []struct {
		end  string
		want int
	}{
		{"2024-03-01", 4},
		{"2024-03-03", 1},
		{"2024-03-02", 0},
		{"2024-02-27", 1},
	}
	for _, tt := range tests {
		t.Run(tt.end, func(t *testing.T) {
			if got := CurrentStreak(dates, tt.end); got != tt.want {
				t.Errorf("CurrentStreak(%s) = %d, want %d", tt.end, got, tt.want)
			}
		})
	}
}

func TestUnknownBadgeNeverQualifies(t *testing.T) {
	h := newHarness("2024-01-01")
	h.state.Badges = append(h.state.Badges, models.Badge{ID: "retiredBadge"})
	h.log("2024-01-01", models.CategoryWater, 1)
	if h.state.IsAchieved("retiredBadge") {
		t.Error("unknown badge was achieved")
	}
}

func TestOnEntryAddedDoesNotMutatePrior(t *testing.T) {
	h := newHarness("2024-01-01")
	prior := h.state.Clone()
	h.log("2024-01-01", models.CategoryWater, 1)

	if prior.TotalPoints != 0 || prior.IsAchieved(models.BadgeFirstLog) {
		t.Errorf("prior was mutated: %+v", prior)
	}
}

func TestReplayMatchesIncremental(t *testing.T) {
	h := newHarness("2024-03-05")
	for day := 0; day < 5; day++ {
		date, _ := utils.AddDays("2024-03-01", day)
		for _, c := range models.AllCategories() {
			h.log(date, c, 1)
		}
	}

	replayed := h.engine.Replay(h.ledger.Entries())
	if replayed.TotalPoints != h.state.TotalPoints {
		t.Errorf("Replay TotalPoints = %d, incremental = %d", replayed.TotalPoints, h.state.TotalPoints)
	}
	if replayed.AchievedCount() != h.state.AchievedCount() {
		t.Errorf("Replay achieved %d badges, incremental %d", replayed.AchievedCount(), h.state.AchievedCount())
	}
	if len(replayed.BonusDays) != 5 {
		t.Errorf("Replay BonusDays = %v, want 5 dates", replayed.BonusDays)
	}
}

func TestNewlyAchieved(t *testing.T) {
	h := newHarness("2024-01-01")
	prior := h.state
	next := h.log("2024-01-01", models.CategoryWater, 1)

	got := NewlyAchieved(prior, next)
	if len(got) != 1 || got[0] != models.BadgeFirstLog {
		t.Errorf("NewlyAchieved() = %v, want [firstLog]", got)
	}
	if again := NewlyAchieved(next, next); len(again) != 0 {
		t.Errorf("NewlyAchieved(next, next) = %v, want none", again)
	}
}
