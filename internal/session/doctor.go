package session

import (
	"github.com/julianstephens/vitalflow/internal/catalog"
	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/validation"
)

// DoctorReport lists inconsistencies between the stored snapshots and the
// ledger they should derive from.
type DoctorReport struct {
	Entries        int
	DuplicateIDs   []string
	InvalidEntries []string
	StoredPoints   int
	ReplayedPoints int
	// MissingBadges are earned according to the ledger but not marked achieved.
	MissingBadges []models.BadgeID
	UnknownBadges []models.BadgeID
}

// Healthy reports whether no problem was found. Stored points above the
// replayed total are tolerated; see SurplusPoints.
func (r DoctorReport) Healthy() bool {
	return len(r.DuplicateIDs) == 0 &&
		len(r.InvalidEntries) == 0 &&
		len(r.MissingBadges) == 0 &&
		r.StoredPoints >= r.ReplayedPoints
}

// SurplusPoints is how far the stored total exceeds the ledger replay.
// Snapshots imported from the web app often carry repeated all-habits
// bonuses that a replay does not reproduce.
func (r DoctorReport) SurplusPoints() int {
	if r.StoredPoints > r.ReplayedPoints {
		return r.StoredPoints - r.ReplayedPoints
	}
	return 0
}

// Doctor replays the ledger through the engine and compares the result with
// the stored points and badges.
func (s *Session) Doctor() DoctorReport {
	entries := s.Entries()
	stored := s.PointsAndBadges()
	replayed := s.engine.Replay(entries)

	report := DoctorReport{
		Entries:        len(entries),
		StoredPoints:   stored.TotalPoints,
		ReplayedPoints: replayed.TotalPoints,
	}

	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		seen[e.ID]++
		if seen[e.ID] == 2 {
			report.DuplicateIDs = append(report.DuplicateIDs, e.ID)
		}
		if _, err := validation.ValidateEntry(e); err != nil {
			report.InvalidEntries = append(report.InvalidEntries, e.ID)
		}
	}

	for _, b := range replayed.Badges {
		if b.Achieved && !stored.IsAchieved(b.ID) {
			report.MissingBadges = append(report.MissingBadges, b.ID)
		}
	}
	for _, b := range stored.Badges {
		if _, ok := catalog.Badge(b.ID); !ok {
			report.UnknownBadges = append(report.UnknownBadges, b.ID)
		}
	}
	return report
}
