package models

import (
	"errors"
	"fmt"
)

// ErrDetailsMismatch is returned when an entry carries details that belong to another category.
var ErrDetailsMismatch = errors.New("details do not match habit category")

// HabitLogEntry is a single logged activity for one calendar day
type HabitLogEntry struct {
	ID            string        `json:"id"`
	Date          string        `json:"date"` // YYYY-MM-DD format
	HabitCategory HabitCategory `json:"habitCategory"`
	Value         float64       `json:"value"`
	Details       *Details      `json:"details,omitempty"`
}

// Details is the per-category payload of an entry. Exactly one field is
// meaningful for a given category; Water carries none.
type Details struct {
	SleepQuality   SleepQuality   `json:"sleepQuality,omitempty"`
	ExerciseType   string         `json:"exerciseType,omitempty"`
	MeditationMood MeditationMood `json:"meditationMood,omitempty"`
}

func SleepDetails(q SleepQuality) *Details {
	return &Details{SleepQuality: q}
}

func ExerciseDetails(activity string) *Details {
	return &Details{ExerciseType: activity}
}

func MeditationDetails(m MeditationMood) *Details {
	return &Details{MeditationMood: m}
}

// IsEmpty reports whether no detail field is set.
func (d *Details) IsEmpty() bool {
	return d == nil || (d.SleepQuality == "" && d.ExerciseType == "" && d.MeditationMood == "")
}

// CheckFor rejects detail fields that do not belong to the category.
// A nil or empty Details is always consistent.
func (d *Details) CheckFor(c HabitCategory) error {
	if d.IsEmpty() {
		return nil
	}
	if d.SleepQuality != "" && c != CategorySleep {
		return fmt.Errorf("%w: sleepQuality on %s", ErrDetailsMismatch, c)
	}
	if d.ExerciseType != "" && c != CategoryExercise {
		return fmt.Errorf("%w: exerciseType on %s", ErrDetailsMismatch, c)
	}
	if d.MeditationMood != "" && c != CategoryMeditation {
		return fmt.Errorf("%w: meditationMood on %s", ErrDetailsMismatch, c)
	}
	return nil
}

// NewEntry builds an entry draft without an id. The ledger assigns ids.
func NewEntry(date string, category HabitCategory, value float64, details *Details) (HabitLogEntry, error) {
	if !category.IsValid() {
		return HabitLogEntry{}, fmt.Errorf("invalid habit category: %q", category)
	}
	if err := details.CheckFor(category); err != nil {
		return HabitLogEntry{}, err
	}
	if details.IsEmpty() {
		details = nil
	}
	return HabitLogEntry{
		Date:          date,
		HabitCategory: category,
		Value:         value,
		Details:       details,
	}, nil
}

// Clone returns a deep copy so callers cannot mutate ledger-owned details.
func (e HabitLogEntry) Clone() HabitLogEntry {
	if e.Details != nil {
		d := *e.Details
		e.Details = &d
	}
	return e
}

// DraftInput is a log request from a text surface (CLI flags, MCP tool
// arguments). Detail fields that do not apply to the category must be empty.
type DraftInput struct {
	Date           string
	Category       string
	Value          float64
	SleepQuality   string
	ExerciseType   string
	MeditationMood string
}

// Draft parses the input into an entry draft. It only checks that the
// strings name known values; the full rules are applied when logging.
func (in DraftInput) Draft() (HabitLogEntry, error) {
	category, err := ParseHabitCategory(in.Category)
	if err != nil {
		return HabitLogEntry{}, err
	}

	d := &Details{ExerciseType: in.ExerciseType}
	if in.SleepQuality != "" {
		if d.SleepQuality, err = ParseSleepQuality(in.SleepQuality); err != nil {
			return HabitLogEntry{}, err
		}
	}
	if in.MeditationMood != "" {
		if d.MeditationMood, err = ParseMeditationMood(in.MeditationMood); err != nil {
			return HabitLogEntry{}, err
		}
	}
	return NewEntry(in.Date, category, in.Value, d)
}
