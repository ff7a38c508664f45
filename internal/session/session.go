// Package session is the facade the outer surfaces talk to. It owns the
// ledger, the points and badges state and the profile, and persists each
// snapshot after every change.
package session

import (
	"fmt"
	"sync"

	"github.com/julianstephens/vitalflow/internal/achievement"
	"github.com/julianstephens/vitalflow/internal/catalog"
	"github.com/julianstephens/vitalflow/internal/coach"
	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/ledger"
	"github.com/julianstephens/vitalflow/internal/logger"
	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/profile"
	"github.com/julianstephens/vitalflow/internal/storage"
	"github.com/julianstephens/vitalflow/internal/utils"
	"github.com/julianstephens/vitalflow/internal/validation"
)

// Options configure a session. Zero values use the defaults.
type Options struct {
	Clock    utils.Clock
	IDScheme string
}

// Session serializes every mutation behind one mutex. Queries return copies.
type Session struct {
	mu       sync.Mutex
	provider storage.Provider
	clock    utils.Clock
	engine   *achievement.Engine
	ledger   *ledger.Ledger
	points   models.PointsAndBadges
	profile  *profile.Store
}

// LogResult describes the effect of one LogHabit call.
type LogResult struct {
	Entry         models.HabitLogEntry
	PointsAwarded int
	NewBadges     []models.BadgeID
	State         models.PointsAndBadges
}

// Open loads the three snapshots from an initialized provider. Snapshots that
// are missing or unreadable fall back to their defaults; Open only fails on
// invalid options.
func Open(provider storage.Provider, opts Options) (*Session, error) {
	clock := opts.Clock
	if clock == nil {
		sys, err := utils.NewSystemClock(constants.DefaultTimezone)
		if err != nil {
			return nil, err
		}
		clock = sys
	}
	scheme := opts.IDScheme
	if scheme == "" {
		scheme = constants.DefaultIDScheme
	}

	entries := loadLedger(provider)
	gen, err := ledger.NewGenerator(scheme, entries)
	if err != nil {
		return nil, err
	}

	s := &Session{
		provider: provider,
		clock:    clock,
		engine:   achievement.NewEngine(clock),
		ledger:   ledger.New(entries, gen),
		points:   loadPoints(provider),
		profile:  profile.Load(provider),
	}
	logger.Debug("Session opened", "store", provider.GetConfigPath(), "entries", s.ledger.Len(), "points", s.points.TotalPoints)
	return s, nil
}

// LogHabit validates the draft, appends it, updates points and badges and
// persists the ledger then the points snapshot. A validation error leaves
// everything unchanged. A save error is returned after the in-memory state
// was updated; the result is still valid.
func (s *Session) LogHabit(draft models.HabitLogEntry) (LogResult, error) {
	clean, err := validation.ValidateEntry(draft)
	if err != nil {
		return LogResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.ledger.AddEntry(clean)
	prior := s.points
	next := s.engine.OnEntryAdded(s.ledger, stored, prior)
	s.points = next

	result := LogResult{
		Entry:         stored,
		PointsAwarded: next.TotalPoints - prior.TotalPoints,
		NewBadges:     achievement.NewlyAchieved(prior, next),
		State:         next.Clone(),
	}
	logger.Info("Habit logged", "id", stored.ID, "category", stored.HabitCategory, "date", stored.Date, "points", result.PointsAwarded)
	for _, id := range result.NewBadges {
		logger.Info("Badge achieved", "badge", id)
	}

	if err := s.persist(); err != nil {
		return result, err
	}
	return result, nil
}

// persist saves the ledger first so a failed points save never leaves points
// ahead of the stored entries. Callers hold s.mu.
func (s *Session) persist() error {
	data, err := encode(s.ledger.Entries())
	if err != nil {
		return err
	}
	if err := s.provider.Save(constants.KeyLedger, data); err != nil {
		logger.Error("Failed to save ledger", "error", err)
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	data, err = encode(s.points)
	if err != nil {
		return err
	}
	if err := s.provider.Save(constants.KeyPointsAndBadges, data); err != nil {
		logger.Error("Failed to save points and badges", "error", err)
		return fmt.Errorf("failed to save points and badges: %w", err)
	}
	return nil
}

func (s *Session) EntriesOnDate(date string) []models.HabitLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.EntriesOnDate(date)
}

func (s *Session) EntriesForCategory(c models.HabitCategory) []models.HabitLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.EntriesForCategory(c)
}

func (s *Session) Entries() []models.HabitLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Entries()
}

// Recent returns the last n entries, oldest first.
func (s *Session) Recent(n int) []models.HabitLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Recent(n)
}

func (s *Session) PointsAndBadges() models.PointsAndBadges {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points.Clone()
}

// Profile returns the profile store. It persists on its own.
func (s *Session) Profile() *profile.Store {
	return s.profile
}

func (s *Session) Today() string {
	return s.clock.Today()
}

// CoachContext renders the last n entries as the plain-text activity summary
// sent to the coach.
func (s *Session) CoachContext(n int) string {
	return coach.FormatRecent(s.Recent(n))
}

// BadgeView pairs a badge's state with its catalog definition.
type BadgeView struct {
	models.Badge
	Definition catalog.BadgeDefinition
	Known      bool
}

// Badges returns every badge in snapshot order with its definition.
func (s *Session) Badges() []BadgeView {
	state := s.PointsAndBadges()
	views := make([]BadgeView, 0, len(state.Badges))
	for _, b := range state.Badges {
		def, ok := catalog.Badge(b.ID)
		views = append(views, BadgeView{Badge: b, Definition: def, Known: ok})
	}
	return views
}

// Close closes the provider.
func (s *Session) Close() error {
	return s.provider.Close()
}
