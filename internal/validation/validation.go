package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/utils"
)

// ErrInvalidEntry is wrapped by every entry validation failure.
var ErrInvalidEntry = errors.New("invalid habit log entry")

var (
	validate *validator.Validate
	once     sync.Once
)

// InitValidator registers the custom tags. Safe to call more than once.
func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
			return utils.IsValidDate(fl.Field().String())
		})
		validate.RegisterValidation("habit_category", func(fl validator.FieldLevel) bool {
			return models.HabitCategory(fl.Field().String()).IsValid()
		})
		validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			v := fl.Field().Float()
			return !math.IsNaN(v) && !math.IsInf(v, 0)
		})
	})
}

// Problem is one rejected field. MessageKey is the i18n key a presentation
// layer can show instead of Message.
type Problem struct {
	Field      string
	Message    string
	MessageKey string
}

// Error lists every problem found in an entry.
type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + ": " + p.Message
	}
	return fmt.Sprintf("%s: %s", ErrInvalidEntry, strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error {
	return ErrInvalidEntry
}

// FormatReport returns one problem per line.
func (e *Error) FormatReport() string {
	var b strings.Builder
	b.WriteString("Entry rejected:\n")
	for _, p := range e.Problems {
		fmt.Fprintf(&b, "- %s: %s\n", p.Field, p.Message)
	}
	return b.String()
}

type entryFields struct {
	Date     string  `validate:"required,calendar_date"`
	Category string  `validate:"required,habit_category"`
	Value    float64 `validate:"finite,gt=0"`
}

var fieldProblems = map[string]Problem{
	"Date.required":           {Field: "date", Message: "date is required", MessageKey: "habit.error.date"},
	"Date.calendar_date":      {Field: "date", Message: "date must be a calendar day in YYYY-MM-DD form", MessageKey: "habit.error.date"},
	"Category.required":       {Field: "habitCategory", Message: "habit category is required", MessageKey: "habit.error.selectCategory"},
	"Category.habit_category": {Field: "habitCategory", Message: "unknown habit category", MessageKey: "habit.error.selectCategory"},
	"Value.finite":            {Field: "value", Message: "value must be a finite number", MessageKey: "habit.error.invalidValue"},
	"Value.gt":                {Field: "value", Message: "value must be greater than zero", MessageKey: "habit.error.invalidValue"},
}

// ValidateEntry checks a draft before it reaches the ledger and returns the
// normalized draft: exercise type is trimmed and empty details are dropped.
// Every category except Water requires its detail field.
func ValidateEntry(draft models.HabitLogEntry) (models.HabitLogEntry, error) {
	InitValidator()

	var problems []Problem
	err := validate.Struct(entryFields{
		Date:     draft.Date,
		Category: string(draft.HabitCategory),
		Value:    draft.Value,
	})
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return draft, fmt.Errorf("validation unexpected error: %w", err)
		}
		for _, fe := range verrs {
			p, ok := fieldProblems[fe.Field()+"."+fe.Tag()]
			if !ok {
				p = Problem{Field: fe.Field(), Message: fe.Error()}
			}
			problems = append(problems, p)
		}
	}

	normalized := draft.Clone()
	if normalized.Details != nil {
		normalized.Details.ExerciseType = strings.TrimSpace(normalized.Details.ExerciseType)
	}
	if draft.HabitCategory.IsValid() {
		problems = append(problems, detailProblems(normalized)...)
	}
	if len(problems) > 0 {
		return draft, &Error{Problems: problems}
	}
	if normalized.Details.IsEmpty() {
		normalized.Details = nil
	}
	return normalized, nil
}

func detailProblems(e models.HabitLogEntry) []Problem {
	if err := e.Details.CheckFor(e.HabitCategory); err != nil {
		return []Problem{{Field: "details", Message: err.Error(), MessageKey: "habit.error.details"}}
	}

	var d models.Details
	if e.Details != nil {
		d = *e.Details
	}
	switch e.HabitCategory {
	case models.CategorySleep:
		if !d.SleepQuality.IsValid() {
			return []Problem{{Field: "details.sleepQuality", Message: "sleep quality must be one of Poor, Fair, Good, Excellent", MessageKey: "habit.error.sleepQuality"}}
		}
	case models.CategoryExercise:
		if d.ExerciseType == "" {
			return []Problem{{Field: "details.exerciseType", Message: "exercise type is required", MessageKey: "habit.error.exerciseType"}}
		}
	case models.CategoryMeditation:
		if !d.MeditationMood.IsValid() {
			return []Problem{{Field: "details.meditationMood", Message: "meditation mood must be one of Stressed, Neutral, Calm, Focused", MessageKey: "habit.error.meditationMood"}}
		}
	}
	return nil
}

// IsInvalidEntry reports whether err is a validation failure.
func IsInvalidEntry(err error) bool {
	return errors.Is(err, ErrInvalidEntry)
}
