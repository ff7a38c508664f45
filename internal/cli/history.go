package cli

import (
	"github.com/julianstephens/vitalflow/internal/models"
)

type HistoryCmd struct {
	Category string `arg:"" optional:"" help:"Only show this habit category."`
	Limit    int    `short:"n" help:"Show at most this many entries, newest first. 0 shows all." default:"20"`
	JSON     bool   `name:"json" help:"Print entries as JSON."`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	var entries []models.HabitLogEntry
	if c.Category == "" {
		entries = sess.Entries()
	} else {
		category, err := models.ParseHabitCategory(c.Category)
		if err != nil {
			return err
		}
		entries = sess.EntriesForCategory(category)
	}

	// Ledger order is insertion order; show the newest first.
	newest := make([]models.HabitLogEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if c.Limit > 0 && len(newest) == c.Limit {
			break
		}
		newest = append(newest, entries[i])
	}

	if c.JSON {
		return ctx.printJSON(newest)
	}
	if len(newest) == 0 {
		ctx.println("No entries found.")
		return nil
	}
	for _, e := range newest {
		ctx.printf("%s  %s\n", e.Date, formatEntryLine(e))
	}
	if len(newest) < len(entries) {
		ctx.printf("\n%d of %d entries shown. Use --limit 0 to show all.\n", len(newest), len(entries))
	}
	return nil
}
