package ledger

import (
	"testing"

	"github.com/google/uuid"

	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/models"
)

func entry(date string, c models.HabitCategory, value float64) models.HabitLogEntry {
	return models.HabitLogEntry{Date: date, HabitCategory: c, Value: value}
}

func TestAddEntryAssignsDistinctIDs(t *testing.T) {
	l := New(nil, nil)
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		stored := l.AddEntry(entry("2024-01-01", models.CategoryWater, 1))
		if stored.ID == "" {
			t.Fatalf("entry %d has empty id", i)
		}
		if seen[stored.ID] {
			t.Fatalf("duplicate id %q after %d adds", stored.ID, i)
		}
		seen[stored.ID] = true
	}

	if l.Len() != 1000 {
		t.Errorf("Len() = %d, want 1000", l.Len())
	}
}

func TestAddEntryIgnoresDraftID(t *testing.T) {
	l := New(nil, nil)
	draft := entry("2024-01-01", models.CategorySleep, 7)
	draft.ID = "chosen-by-caller"

	stored := l.AddEntry(draft)
	if stored.ID == "chosen-by-caller" {
		t.Error("AddEntry kept the caller's id")
	}
}

func TestSequenceSeededPastLoadedEntries(t *testing.T) {
	loaded := []models.HabitLogEntry{
		{ID: "log-3", Date: "2024-01-01", HabitCategory: models.CategoryWater, Value: 1},
		{ID: "abc123xyz", Date: "2024-01-01", HabitCategory: models.CategorySleep, Value: 7},
		{ID: "log-7", Date: "2024-01-02", HabitCategory: models.CategoryWater, Value: 1},
	}
	l := New(loaded, nil)

	stored := l.AddEntry(entry("2024-01-03", models.CategoryWater, 1))
	if stored.ID != "log-8" {
		t.Errorf("AddEntry() id = %q, want log-8", stored.ID)
	}
}

type scriptedGenerator struct {
	ids []string
}

func (g *scriptedGenerator) NextID() string {
	id := g.ids[0]
	g.ids = g.ids[1:]
	return id
}

func TestAddEntryRedrawsOnCollision(t *testing.T) {
	loaded := []models.HabitLogEntry{
		{ID: "taken", Date: "2024-01-01", HabitCategory: models.CategoryWater, Value: 1},
	}
	l := New(loaded, &scriptedGenerator{ids: []string{"taken", "", "fresh"}})

	stored := l.AddEntry(entry("2024-01-02", models.CategoryWater, 1))
	if stored.ID != "fresh" {
		t.Errorf("AddEntry() id = %q, want fresh", stored.ID)
	}
}

func TestUUIDScheme(t *testing.T) {
	gen, err := NewGenerator(constants.IDSchemeUUID, nil)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	l := New(nil, gen)
	stored := l.AddEntry(entry("2024-01-01", models.CategoryWater, 1))
	if _, err := uuid.Parse(stored.ID); err != nil {
		t.Errorf("id %q is not a uuid: %v", stored.ID, err)
	}

	if _, err := NewGenerator("snowflake", nil); err == nil {
		t.Error("NewGenerator accepted an unknown scheme")
	}
}

func TestQueriesKeepInsertionOrder(t *testing.T) {
	l := New(nil, nil)
	a := l.AddEntry(entry("2024-01-02", models.CategoryWater, 2))
	b := l.AddEntry(entry("2024-01-01", models.CategoryWater, 3))
	c := l.AddEntry(entry("2024-01-02", models.CategorySleep, 7))
	d := l.AddEntry(entry("2024-01-02", models.CategoryWater, 1))

	onDate := l.EntriesOnDate("2024-01-02")
	wantOnDate := []string{a.ID, c.ID, d.ID}
	if len(onDate) != len(wantOnDate) {
		t.Fatalf("EntriesOnDate() returned %d entries, want %d", len(onDate), len(wantOnDate))
	}
	for i, id := range wantOnDate {
		if onDate[i].ID != id {
			t.Errorf("EntriesOnDate()[%d] = %s, want %s", i, onDate[i].ID, id)
		}
	}

	water := l.EntriesForCategory(models.CategoryWater)
	wantWater := []string{a.ID, b.ID, d.ID}
	if len(water) != len(wantWater) {
		t.Fatalf("EntriesForCategory() returned %d entries, want %d", len(water), len(wantWater))
	}
	for i, id := range wantWater {
		if water[i].ID != id {
			t.Errorf("EntriesForCategory()[%d] = %s, want %s", i, water[i].ID, id)
		}
	}

	if got := l.EntriesOnDate("2030-01-01"); got == nil || len(got) != 0 {
		t.Errorf("EntriesOnDate(no match) = %v, want empty slice", got)
	}
}

func TestRecentAndBetween(t *testing.T) {
	l := New(nil, nil)
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"} {
		l.AddEntry(entry(d, models.CategoryWater, 1))
	}

	recent := l.Recent(2)
	if len(recent) != 2 || recent[0].Date != "2024-01-03" || recent[1].Date != "2024-01-04" {
		t.Errorf("Recent(2) = %+v", recent)
	}
	if got := l.Recent(10); len(got) != 4 {
		t.Errorf("Recent(10) returned %d entries, want 4", len(got))
	}
	if got := l.Recent(0); len(got) != 0 {
		t.Errorf("Recent(0) returned %d entries, want 0", len(got))
	}

	between := l.Between("2024-01-02", "2024-01-03")
	if len(between) != 2 {
		t.Errorf("Between() returned %d entries, want 2", len(between))
	}
}

func TestDatesLoggedAndCategoriesOn(t *testing.T) {
	l := New(nil, nil)
	l.AddEntry(entry("2024-01-01", models.CategoryWater, 1))
	l.AddEntry(entry("2024-01-01", models.CategoryWater, 1))
	l.AddEntry(entry("2024-01-02", models.CategorySleep, 7))
	l.AddEntry(entry("2024-01-03", models.CategoryExercise, 30))

	all := SortedDates(l.DatesLogged())
	if len(all) != 3 || all[0] != "2024-01-01" || all[2] != "2024-01-03" {
		t.Errorf("DatesLogged() = %v", all)
	}

	water := l.DatesLogged(models.CategoryWater)
	if len(water) != 1 {
		t.Errorf("DatesLogged(Water) = %v, want one date", water)
	}

	subset := l.DatesLogged(models.CategoryWater, models.CategorySleep)
	if len(subset) != 2 {
		t.Errorf("DatesLogged(Water, Sleep) = %v, want two dates", subset)
	}

	cats := l.CategoriesOn("2024-01-01")
	if _, ok := cats[models.CategoryWater]; !ok || len(cats) != 1 {
		t.Errorf("CategoriesOn() = %v, want only Water", cats)
	}
}

func TestReturnedEntriesAreCopies(t *testing.T) {
	l := New(nil, nil)
	l.AddEntry(models.HabitLogEntry{
		Date:          "2024-01-01",
		HabitCategory: models.CategorySleep,
		Value:         7,
		Details:       models.SleepDetails(models.SleepGood),
	})

	got := l.Entries()
	got[0].Value = 99
	got[0].Details.SleepQuality = models.SleepPoor

	again := l.Entries()
	if again[0].Value != 7 || again[0].Details.SleepQuality != models.SleepGood {
		t.Errorf("ledger entry was mutated through a query result: %+v", again[0])
	}
}
