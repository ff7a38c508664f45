package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/vitalflow/internal/catalog"
	apperrors "github.com/julianstephens/vitalflow/internal/errors"
	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/session"
	"github.com/julianstephens/vitalflow/internal/utils"
	"github.com/julianstephens/vitalflow/internal/validation"
)

type LogCmd struct {
	Category    string  `arg:"" optional:"" help:"Habit category: Sleep, Water, Exercise or Meditation."`
	Value       float64 `arg:"" optional:"" help:"Amount in the habit's unit (hours, glasses or minutes)."`
	Date        string  `short:"d" help:"Date to log (YYYY-MM-DD, today or yesterday)." default:"today"`
	Quality     string  `short:"q" help:"Sleep quality: Poor, Fair, Good or Excellent."`
	Type        string  `short:"t" name:"type" help:"Exercise type, e.g. Running."`
	Mood        string  `short:"m" help:"Meditation mood: Stressed, Neutral, Calm or Focused."`
	Interactive bool    `short:"i" help:"Fill in the entry with a form."`
}

func (c *LogCmd) Run(ctx *Context) error {
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	in := models.DraftInput{
		Date:           date,
		Category:       c.Category,
		Value:          c.Value,
		SleepQuality:   c.Quality,
		ExerciseType:   c.Type,
		MeditationMood: c.Mood,
	}

	if c.Interactive || c.Category == "" {
		if !ctx.Interactive {
			return apperrors.WithHint(errors.New("habit category and value are required"), "run `vitalflow log Sleep 8 --quality Good` or use --interactive in a terminal")
		}
		if err := runLogForm(&in); err != nil {
			return err
		}
	}

	draft, err := in.Draft()
	if err != nil {
		return err
	}
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	result, err := sess.LogHabit(draft)
	if err != nil && validation.IsInvalidEntry(err) {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return apperrors.WithHint(err, strings.TrimSpace(verr.FormatReport()))
		}
		return err
	}
	printLogResult(ctx, result)
	if err != nil {
		return fmt.Errorf("entry was recorded for this run but could not be saved: %w", err)
	}
	return nil
}

func printLogResult(ctx *Context, result session.LogResult) {
	e := result.Entry
	ctx.printf("✓ Logged %s of %s on %s (%s)\n", formatAmount(e), e.HabitCategory, e.Date, e.ID)
	ctx.printf("  +%d points (total %d)\n", result.PointsAwarded, result.State.TotalPoints)
	for _, id := range result.NewBadges {
		name := string(id)
		if def, ok := catalog.Badge(id); ok {
			name = def.Name
		}
		ctx.printf("  🏅 Badge unlocked: %s\n", name)
	}
}

// formatAmount renders a value with its unit, e.g. "7.5 hours".
func formatAmount(e models.HabitLogEntry) string {
	value := strconv.FormatFloat(e.Value, 'f', -1, 64)
	if def, ok := catalog.Habit(e.HabitCategory); ok {
		return value + " " + def.Unit
	}
	return value
}

// formatDetails renders the single detail an entry carries, or "".
func formatDetails(e models.HabitLogEntry) string {
	if e.Details == nil {
		return ""
	}
	switch {
	case e.Details.SleepQuality != "":
		return "quality: " + string(e.Details.SleepQuality)
	case e.Details.ExerciseType != "":
		return "type: " + e.Details.ExerciseType
	case e.Details.MeditationMood != "":
		return "mood: " + string(e.Details.MeditationMood)
	}
	return ""
}

func runLogForm(in *models.DraftInput) error {
	categories := make([]huh.Option[string], 0, len(catalog.Habits()))
	for _, h := range catalog.Habits() {
		categories = append(categories, huh.NewOption(fmt.Sprintf("%s (%s)", h.Name, h.Unit), string(h.Category)))
	}
	qualities := make([]string, 0, len(models.SleepQualities()))
	for _, q := range models.SleepQualities() {
		qualities = append(qualities, string(q))
	}
	moods := make([]string, 0, len(models.MeditationMoods()))
	for _, m := range models.MeditationMoods() {
		moods = append(moods, string(m))
	}

	value := ""
	if in.Value > 0 {
		value = strconv.FormatFloat(in.Value, 'f', -1, 64)
	}
	if in.Category == "" {
		in.Category = string(models.CategorySleep)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Habit").
				Options(categories...).
				Value(&in.Category),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&in.Date).
				Validate(func(s string) error {
					if !utils.IsValidDate(s) {
						return errors.New("use YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Value").
				Value(&value).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || v <= 0 {
						return errors.New("enter a number greater than zero")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Sleep quality").
				Options(huh.NewOptions(qualities...)...).
				Value(&in.SleepQuality),
		).WithHideFunc(func() bool { return in.Category != string(models.CategorySleep) }),
		huh.NewGroup(
			huh.NewInput().
				Title("Exercise type").
				Placeholder("Running").
				Value(&in.ExerciseType).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("exercise type is required")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return in.Category != string(models.CategoryExercise) }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Mood").
				Options(huh.NewOptions(moods...)...).
				Value(&in.MeditationMood),
		).WithHideFunc(func() bool { return in.Category != string(models.CategoryMeditation) }),
	)
	if err := form.Run(); err != nil {
		return err
	}

	in.Value, _ = strconv.ParseFloat(strings.TrimSpace(value), 64)
	clearForeignDetails(in)
	return nil
}

// clearForeignDetails drops detail answers left over from switching category
// in the form.
func clearForeignDetails(in *models.DraftInput) {
	category := models.HabitCategory(in.Category)
	if category != models.CategorySleep {
		in.SleepQuality = ""
	}
	if category != models.CategoryExercise {
		in.ExerciseType = ""
	}
	if category != models.CategoryMeditation {
		in.MeditationMood = ""
	}
}
