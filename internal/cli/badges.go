package cli

type BadgesCmd struct {
	All bool `short:"a" help:"Include badges not yet achieved."`
}

func (c *BadgesCmd) Run(ctx *Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}

	views := sess.Badges()
	achieved := 0
	for _, v := range views {
		if v.Achieved {
			achieved++
		}
	}
	ctx.printf("%d points, %d/%d badges\n\n", sess.PointsAndBadges().TotalPoints, achieved, len(views))

	for _, v := range views {
		if !v.Achieved && !c.All {
			continue
		}
		name, description := string(v.ID), ""
		if v.Known {
			name, description = v.Definition.Name, v.Definition.Description
		}
		switch {
		case v.Achieved && v.DateAchieved != "":
			ctx.printf("🏅 %s (%s)\n", name, v.DateAchieved)
		case v.Achieved:
			ctx.printf("🏅 %s\n", name)
		default:
			ctx.printf("🔒 %s\n", name)
		}
		if description != "" {
			ctx.printf("   %s\n", description)
		}
	}
	if achieved == 0 && !c.All {
		ctx.println("No badges yet. Use --all to see what there is to earn.")
	}
	return nil
}
