package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/vitalflow/internal/catalog"
	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/logger"
	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/storage"
	"github.com/julianstephens/vitalflow/internal/utils"
)

// loadLedger reads the ledger snapshot. Missing or malformed snapshots give
// an empty ledger.
func loadLedger(p storage.Provider) []models.HabitLogEntry {
	data, err := p.Load(constants.KeyLedger)
	if err != nil {
		logLoadFailure(constants.KeyLedger, err)
		return []models.HabitLogEntry{}
	}
	entries, err := DecodeLedger(data)
	if err != nil {
		logger.Warn("Ledger snapshot is malformed, starting empty", "error", err)
		return []models.HabitLogEntry{}
	}
	return entries
}

// loadPoints reads the pointsAndBadges snapshot. Missing or malformed
// snapshots give zero points and the initial badges.
func loadPoints(p storage.Provider) models.PointsAndBadges {
	data, err := p.Load(constants.KeyPointsAndBadges)
	if err != nil {
		logLoadFailure(constants.KeyPointsAndBadges, err)
		return catalog.InitialPointsAndBadges()
	}
	state, err := DecodePoints(data)
	if err != nil {
		logger.Warn("Points snapshot is malformed, starting from zero", "error", err)
		return catalog.InitialPointsAndBadges()
	}
	return state
}

func logLoadFailure(key string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		logger.Debug("No snapshot stored", "key", key)
		return
	}
	logger.Warn("Failed to load snapshot, using defaults", "key", key, "error", err)
}

// DecodeLedger parses a ledger snapshot (a JSON array of entries).
func DecodeLedger(data []byte) ([]models.HabitLogEntry, error) {
	var entries []models.HabitLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse ledger: %w", err)
	}
	if entries == nil {
		entries = []models.HabitLogEntry{}
	}
	return entries, nil
}

// DecodePoints parses a pointsAndBadges snapshot and normalizes it:
// catalog badges missing from the snapshot are appended unachieved, legacy
// allHabitsBonus-<date> badges become bonus days, and bonus days are sorted.
// Existing badge state is never changed.
func DecodePoints(data []byte) (models.PointsAndBadges, error) {
	var state models.PointsAndBadges
	if err := json.Unmarshal(data, &state); err != nil {
		return models.PointsAndBadges{}, fmt.Errorf("failed to parse points and badges: %w", err)
	}
	if state.TotalPoints < 0 {
		state.TotalPoints = 0
	}

	bonus := make(map[string]struct{}, len(state.BonusDays))
	for _, d := range state.BonusDays {
		bonus[d] = struct{}{}
	}

	seen := make(map[models.BadgeID]bool, len(state.Badges))
	badges := make([]models.Badge, 0, len(state.Badges))
	for _, b := range state.Badges {
		if date, ok := strings.CutPrefix(string(b.ID), constants.LegacyBonusBadgePrefix); ok {
			if b.Achieved && utils.IsValidDate(date) {
				bonus[date] = struct{}{}
			}
			continue
		}
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		badges = append(badges, b)
	}
	for _, b := range catalog.InitialBadges() {
		if !seen[b.ID] {
			badges = append(badges, b)
		}
	}
	state.Badges = badges

	state.BonusDays = nil
	if len(bonus) > 0 {
		state.BonusDays = make([]string, 0, len(bonus))
		for d := range bonus {
			state.BonusDays = append(state.BonusDays, d)
		}
		sort.Strings(state.BonusDays)
	}
	return state, nil
}

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}
