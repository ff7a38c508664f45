package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/vitalflow/internal/constants"
)

// Clock supplies "today" to the session and the achievement engine.
type Clock interface {
	Now() time.Time
	Today() string
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock returns a clock for the given IANA timezone name.
func NewSystemClock(timezone string) (*SystemClock, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &SystemClock{loc: loc}, nil
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *SystemClock) Today() string {
	return c.Now().Format(constants.DateFormat)
}

// FixedClock always reports the same instant. Used by tests and replay.
type FixedClock struct {
	At time.Time
}

// NewFixedClock returns a clock pinned to midnight UTC of the given date.
// It panics on a malformed date and is meant for tests.
func NewFixedClock(date string) *FixedClock {
	t, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return &FixedClock{At: t}
}

func (c *FixedClock) Now() time.Time {
	return c.At
}

func (c *FixedClock) Today() string {
	return c.At.Format(constants.DateFormat)
}

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC. Calendar arithmetic
// on log dates is done in UTC so that DST shifts never skip or repeat a day.
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(constants.DateFormat, dateStr)
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// IsValidDate reports whether the string is a real YYYY-MM-DD calendar date.
func IsValidDate(dateStr string) bool {
	_, err := ParseDate(dateStr)
	return err == nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(dateStr string, n int) (string, error) {
	t, err := ParseDate(dateStr)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// PreviousDay returns the calendar day before the given date.
func PreviousDay(dateStr string) (string, error) {
	return AddDays(dateStr, -1)
}

// DaysBetween returns to minus from in whole calendar days.
func DaysBetween(from, to string) (int, error) {
	f, err := ParseDate(from)
	if err != nil {
		return 0, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
