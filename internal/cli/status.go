package cli

import (
	"github.com/julianstephens/vitalflow/internal/models"
)

type StatusCmd struct {
	Date string `arg:"" optional:"" help:"Date to report on (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *StatusCmd) Run(ctx *Context) error {
	date, err := ctx.resolveDate(c.Date)
	if err != nil {
		return err
	}
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	state := sess.PointsAndBadges()
	achieved := 0
	for _, b := range state.Badges {
		if b.Achieved {
			achieved++
		}
	}
	p := sess.Profile().Profile()

	ctx.printf("%s (%s)\n", p.Name, p.SubscriptionStatus)
	ctx.printf("Points: %d\n", state.TotalPoints)
	ctx.printf("Badges: %d/%d\n", achieved, len(state.Badges))
	ctx.printf("Entries: %d\n\n", len(sess.Entries()))

	printProgress(ctx, sess.DayProgress(date))

	streaks := sess.Streaks(date)
	ctx.printf("\nStreak: %d day(s)\n", streaks.Overall)
	for _, category := range models.AllCategories() {
		ctx.printf("  %-11s %d day(s)\n", category, streaks.ByCategory[category])
	}
	return nil
}
