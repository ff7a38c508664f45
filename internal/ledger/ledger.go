// Package ledger is the append-only collection of habit log entries.
//
// A Ledger is not safe for concurrent use; the session serializes access.
package ledger

import (
	"sort"

	"github.com/julianstephens/vitalflow/internal/models"
)

// Ledger keeps entries in insertion order and guarantees id uniqueness for
// every entry it assigns.
type Ledger struct {
	entries []models.HabitLogEntry
	ids     map[string]struct{}
	gen     IDGenerator
}

// New builds a ledger over previously stored entries. A nil generator
// defaults to a sequence seeded past the stored ids.
func New(entries []models.HabitLogEntry, gen IDGenerator) *Ledger {
	l := &Ledger{
		entries: make([]models.HabitLogEntry, 0, len(entries)),
		ids:     make(map[string]struct{}, len(entries)),
		gen:     gen,
	}
	for _, e := range entries {
		l.entries = append(l.entries, e.Clone())
		l.ids[e.ID] = struct{}{}
	}
	if l.gen == nil {
		l.gen = NewSequenceGenerator(entries)
	}
	return l
}

// AddEntry assigns a fresh id to the draft, appends it and returns the stored
// entry. Any id on the draft is ignored.
func (l *Ledger) AddEntry(draft models.HabitLogEntry) models.HabitLogEntry {
	entry := draft.Clone()
	entry.ID = l.freshID()
	l.entries = append(l.entries, entry)
	l.ids[entry.ID] = struct{}{}
	return entry.Clone()
}

func (l *Ledger) freshID() string {
	for {
		id := l.gen.NextID()
		if _, taken := l.ids[id]; !taken && id != "" {
			return id
		}
	}
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of every entry in insertion order.
func (l *Ledger) Entries() []models.HabitLogEntry {
	return l.filter(func(models.HabitLogEntry) bool { return true })
}

// EntriesOnDate returns the entries for one day in insertion order.
func (l *Ledger) EntriesOnDate(date string) []models.HabitLogEntry {
	return l.filter(func(e models.HabitLogEntry) bool { return e.Date == date })
}

// EntriesForCategory returns the entries for one category in insertion order.
func (l *Ledger) EntriesForCategory(category models.HabitCategory) []models.HabitLogEntry {
	return l.filter(func(e models.HabitLogEntry) bool { return e.HabitCategory == category })
}

// Between returns entries whose date falls in [from, to], in insertion order.
func (l *Ledger) Between(from, to string) []models.HabitLogEntry {
	return l.filter(func(e models.HabitLogEntry) bool { return e.Date >= from && e.Date <= to })
}

// Recent returns the last n entries added, oldest first.
func (l *Ledger) Recent(n int) []models.HabitLogEntry {
	if n <= 0 {
		return []models.HabitLogEntry{}
	}
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]models.HabitLogEntry, 0, len(l.entries)-start)
	for _, e := range l.entries[start:] {
		out = append(out, e.Clone())
	}
	return out
}

// DatesLogged returns the distinct dates with at least one entry in any of
// the given categories. With no categories, every entry counts.
func (l *Ledger) DatesLogged(categories ...models.HabitCategory) map[string]struct{} {
	wanted := make(map[models.HabitCategory]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}
	dates := make(map[string]struct{})
	for _, e := range l.entries {
		if len(wanted) == 0 || wanted[e.HabitCategory] {
			dates[e.Date] = struct{}{}
		}
	}
	return dates
}

// CategoriesOn returns the set of categories logged on a date.
func (l *Ledger) CategoriesOn(date string) map[models.HabitCategory]struct{} {
	cats := make(map[models.HabitCategory]struct{})
	for _, e := range l.entries {
		if e.Date == date {
			cats[e.HabitCategory] = struct{}{}
		}
	}
	return cats
}

// SortedDates returns the keys of a date set in ascending order.
func SortedDates(dates map[string]struct{}) []string {
	out := make([]string, 0, len(dates))
	for d := range dates {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (l *Ledger) filter(keep func(models.HabitLogEntry) bool) []models.HabitLogEntry {
	out := []models.HabitLogEntry{}
	for _, e := range l.entries {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}
