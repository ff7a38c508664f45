package models

import (
	"fmt"
	"strings"
)

// HabitCategory is one of the fixed trackable categories
type HabitCategory string

const (
	CategorySleep      HabitCategory = "Sleep"
	CategoryWater      HabitCategory = "Water"
	CategoryExercise   HabitCategory = "Exercise"
	CategoryMeditation HabitCategory = "Meditation"
)

// AllCategories returns every category in catalog order.
func AllCategories() []HabitCategory {
	return []HabitCategory{CategorySleep, CategoryWater, CategoryExercise, CategoryMeditation}
}

func (c HabitCategory) IsValid() bool {
	switch c {
	case CategorySleep, CategoryWater, CategoryExercise, CategoryMeditation:
		return true
	default:
		return false
	}
}

// ParseHabitCategory accepts any casing of a category name.
func ParseHabitCategory(input string) (HabitCategory, error) {
	s := strings.TrimSpace(input)
	for _, c := range AllCategories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid habit category: %q", input)
}

// SleepQuality describes how well the user slept
type SleepQuality string

const (
	SleepPoor      SleepQuality = "Poor"
	SleepFair      SleepQuality = "Fair"
	SleepGood      SleepQuality = "Good"
	SleepExcellent SleepQuality = "Excellent"
)

func (q SleepQuality) IsValid() bool {
	switch q {
	case SleepPoor, SleepFair, SleepGood, SleepExcellent:
		return true
	default:
		return false
	}
}

// SleepQualities returns the ratings from worst to best.
func SleepQualities() []SleepQuality {
	return []SleepQuality{SleepPoor, SleepFair, SleepGood, SleepExcellent}
}

func ParseSleepQuality(input string) (SleepQuality, error) {
	s := strings.TrimSpace(input)
	for _, q := range SleepQualities() {
		if strings.EqualFold(string(q), s) {
			return q, nil
		}
	}
	return "", fmt.Errorf("invalid sleep quality: %q", input)
}

// MeditationMood is the mood reported after a meditation session
type MeditationMood string

const (
	MoodStressed MeditationMood = "Stressed"
	MoodNeutral  MeditationMood = "Neutral"
	MoodCalm     MeditationMood = "Calm"
	MoodFocused  MeditationMood = "Focused"
)

func (m MeditationMood) IsValid() bool {
	switch m {
	case MoodStressed, MoodNeutral, MoodCalm, MoodFocused:
		return true
	default:
		return false
	}
}

func MeditationMoods() []MeditationMood {
	return []MeditationMood{MoodStressed, MoodNeutral, MoodCalm, MoodFocused}
}

func ParseMeditationMood(input string) (MeditationMood, error) {
	s := strings.TrimSpace(input)
	for _, m := range MeditationMoods() {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid meditation mood: %q", input)
}
