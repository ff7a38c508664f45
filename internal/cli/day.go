package cli

import (
	"fmt"

	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/session"
)

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, today or yesterday)." default:"today"`
	JSON bool   `name:"json" help:"Print entries and progress as JSON."`
}

func (c *DayCmd) Run(ctx *Context) error {
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	entries := sess.EntriesOnDate(date)
	progress := sess.DayProgress(date)
	if c.JSON {
		return ctx.printJSON(struct {
			Entries  []models.HabitLogEntry `json:"entries"`
			Progress session.DayProgress    `json:"progress"`
		}{entries, progress})
	}

	ctx.printf("Log for %s:\n\n", date)
	if len(entries) == 0 {
		ctx.println("  Nothing logged")
	}
	for _, e := range entries {
		ctx.println("  " + formatEntryLine(e))
	}
	ctx.println()
	printProgress(ctx, progress)
	return nil
}

func formatEntryLine(e models.HabitLogEntry) string {
	line := fmt.Sprintf("%-10s  %-11s %s", e.ID, e.HabitCategory, formatAmount(e))
	if details := formatDetails(e); details != "" {
		line += "  (" + details + ")"
	}
	return line
}

func printProgress(ctx *Context, p session.DayProgress) {
	ctx.printf("Goals: %d/%d (%.0f%%)\n", p.Completed, len(p.Categories), p.Percent)
	for _, cp := range p.Categories {
		mark := "☐"
		if cp.Complete {
			mark = "✓"
		}
		ctx.printf("  %s %-11s best %g / goal %d\n", mark, cp.Category, cp.Best, cp.Goal)
	}
	if p.AllGoalsMet {
		ctx.println("All goals met today!")
	}
}
