package constants

const (
	// PointsPerLog is awarded for every accepted log entry.
	PointsPerLog = 10

	// BonusPointsAllHabitsDay is awarded at most once per calendar date, the
	// first time every category has been logged on that date.
	BonusPointsAllHabitsDay = 50

	// StreakTargetDays is the run length required by the streak badges.
	StreakTargetDays = 7

	PointsBadgeLow  = 100
	PointsBadgeHigh = 500
)
