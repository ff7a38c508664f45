package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/julianstephens/vitalflow/internal/catalog"
	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/logger"
	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/storage"
)

// ErrInvalidProfile is wrapped by every rejected profile change.
var ErrInvalidProfile = errors.New("invalid profile change")

// Store owns the user profile and persists it under the userProfile key after
// every change. A nil provider keeps the profile in memory only.
type Store struct {
	mu       sync.Mutex
	provider storage.Provider
	profile  models.UserProfile
}

// New wraps an already decoded profile.
func New(provider storage.Provider, p models.UserProfile) *Store {
	return &Store{provider: provider, profile: p.Clone()}
}

// Load reads the profile snapshot. A missing or unreadable snapshot yields
// the default profile; only the reason is logged.
func Load(provider storage.Provider) *Store {
	data, err := provider.Load(constants.KeyUserProfile)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to load profile, using defaults", "error", err)
		}
		return New(provider, catalog.DefaultProfile())
	}
	p, err := Decode(data)
	if err != nil {
		logger.Warn("Profile snapshot is malformed, using defaults", "error", err)
		return New(provider, catalog.DefaultProfile())
	}
	return New(provider, p)
}

type snapshot struct {
	Name               *string            `json:"name"`
	Goals              map[string]float64 `json:"goals"`
	Theme              *string            `json:"theme"`
	Language           *string            `json:"language"`
	SubscriptionStatus *string            `json:"subscriptionStatus"`
}

// Decode parses a userProfile snapshot over the defaults. Missing or invalid
// fields keep their default; stored goals merge over the default goals.
func Decode(data []byte) (models.UserProfile, error) {
	var raw snapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to parse profile: %w", err)
	}

	p := catalog.DefaultProfile()
	if raw.Name != nil && strings.TrimSpace(*raw.Name) != "" {
		p.Name = *raw.Name
	}
	for key, value := range raw.Goals {
		c := models.HabitCategory(key)
		goal := int(math.Round(value))
		if !c.IsValid() || goal <= 0 {
			logger.Warn("Ignoring invalid goal in profile", "category", key, "goal", value)
			continue
		}
		p.Goals[c] = goal
	}
	if raw.Theme != nil {
		if catalog.IsTheme(*raw.Theme) {
			p.Theme = *raw.Theme
		} else {
			logger.Warn("Unknown theme in profile, using default", "theme", *raw.Theme)
		}
	}
	if raw.Language != nil {
		if catalog.IsLanguage(*raw.Language) {
			p.Language = *raw.Language
		} else {
			logger.Warn("Unsupported language in profile, using default", "language", *raw.Language)
		}
	}
	if raw.SubscriptionStatus != nil && models.SubscriptionStatus(*raw.SubscriptionStatus).IsValid() {
		p.SubscriptionStatus = models.SubscriptionStatus(*raw.SubscriptionStatus)
	}
	return p, nil
}

// Profile returns a copy of the current profile.
func (s *Store) Profile() models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// Update merges the set fields of patch. Theme and language must exist in
// the catalog. The in-memory profile changes even when persisting fails; the
// save error is returned.
func (s *Store) Update(patch models.ProfilePatch) (models.UserProfile, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return s.Profile(), fmt.Errorf("%w: name cannot be empty", ErrInvalidProfile)
	}
	if patch.Theme != nil && !catalog.IsTheme(*patch.Theme) {
		return s.Profile(), fmt.Errorf("%w: unknown theme %q", ErrInvalidProfile, *patch.Theme)
	}
	if patch.Language != nil && !catalog.IsLanguage(*patch.Language) {
		return s.Profile(), fmt.Errorf("%w: unsupported language %q", ErrInvalidProfile, *patch.Language)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.profile.Apply(patch)
	if err != nil {
		return s.profile.Clone(), fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	s.profile = next
	return next.Clone(), s.persist()
}

// SetGoal replaces the goal override for one category.
func (s *Store) SetGoal(c models.HabitCategory, goal int) (models.UserProfile, error) {
	return s.Update(models.ProfilePatch{Goals: map[models.HabitCategory]int{c: goal}})
}

// Upgrade flips the local subscription flag to premium.
func (s *Store) Upgrade() (models.UserProfile, error) {
	status := models.SubscriptionPremium
	return s.Update(models.ProfilePatch{SubscriptionStatus: &status})
}

// Downgrade flips the local subscription flag back to free.
func (s *Store) Downgrade() (models.UserProfile, error) {
	status := models.SubscriptionFree
	return s.Update(models.ProfilePatch{SubscriptionStatus: &status})
}

func (s *Store) IsPremium() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.SubscriptionStatus == models.SubscriptionPremium
}

// EffectiveGoal returns the user's override or the catalog default.
func (s *Store) EffectiveGoal(c models.HabitCategory) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return effectiveGoal(s.profile, c)
}

// Goals returns the effective goal of every category.
func (s *Store) Goals() map[models.HabitCategory]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := make(map[models.HabitCategory]int, len(models.AllCategories()))
	for _, c := range models.AllCategories() {
		goals[c] = effectiveGoal(s.profile, c)
	}
	return goals
}

func effectiveGoal(p models.UserProfile, c models.HabitCategory) int {
	if g, ok := p.Goals[c]; ok && g > 0 {
		return g
	}
	return catalog.DefaultGoal(c)
}

func (s *Store) persist() error {
	if s.provider == nil {
		return nil
	}
	data, err := json.Marshal(s.profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := s.provider.Save(constants.KeyUserProfile, data); err != nil {
		logger.Error("Failed to save profile", "error", err)
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
