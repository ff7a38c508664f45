package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/vitalflow/internal/catalog"
	"github.com/julianstephens/vitalflow/internal/models"
	"github.com/julianstephens/vitalflow/internal/profile"
)

type ProfileShowCmd struct {
	JSON bool `name:"json" help:"Print the profile as JSON."`
}

func (c *ProfileShowCmd) Run(ctx *Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	store := sess.Profile()
	p := store.Profile()
	if c.JSON {
		return ctx.printJSON(p)
	}

	ctx.printf("Name:         %s\n", p.Name)
	ctx.printf("Theme:        %s\n", p.Theme)
	ctx.printf("Language:     %s\n", p.Language)
	ctx.printf("Subscription: %s\n", p.SubscriptionStatus)
	ctx.println("Goals:")
	goals := store.Goals()
	for _, h := range catalog.Habits() {
		suffix := ""
		if _, ok := p.Goals[h.Category]; !ok {
			suffix = " (default)"
		}
		ctx.printf("  %-11s %d %s%s\n", h.Category, goals[h.Category], h.Unit, suffix)
	}
	return nil
}

type ProfileSetCmd struct {
	Name     *string `help:"Display name."`
	Theme    *string `help:"Color theme id, e.g. vitalBlue."`
	Language *string `help:"UI language code, e.g. en."`
}

func (c *ProfileSetCmd) Run(ctx *Context) error {
	patch := models.ProfilePatch{Name: c.Name, Theme: c.Theme, Language: c.Language}
	if patch.IsEmpty() {
		return errors.New("nothing to change: pass --name, --theme or --language")
	}
	return updateProfile(ctx, func(s *profile.Store) (models.UserProfile, error) {
		return s.Update(patch)
	}, "✓ Profile updated")
}

type ProfileGoalCmd struct {
	Category string `arg:"" help:"Habit category."`
	Goal     int    `arg:"" help:"Daily goal in the habit's unit."`
}

func (c *ProfileGoalCmd) Run(ctx *Context) error {
	category, err := models.ParseHabitCategory(c.Category)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("✓ %s goal set to %d", category, c.Goal)
	return updateProfile(ctx, func(s *profile.Store) (models.UserProfile, error) {
		return s.SetGoal(category, c.Goal)
	}, msg)
}

type ProfileUpgradeCmd struct{}

func (c *ProfileUpgradeCmd) Run(ctx *Context) error {
	return updateProfile(ctx, (*profile.Store).Upgrade, "✓ Premium unlocked. Custom AI plans are now available.")
}

type ProfileDowngradeCmd struct{}

func (c *ProfileDowngradeCmd) Run(ctx *Context) error {
	return updateProfile(ctx, (*profile.Store).Downgrade, "✓ Subscription set to free")
}

func updateProfile(ctx *Context, change func(*profile.Store) (models.UserProfile, error), done string) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	if _, err := change(sess.Profile()); err != nil {
		if errors.Is(err, profile.ErrInvalidProfile) {
			return err
		}
		return fmt.Errorf("profile changed but could not be saved: %w", err)
	}
	ctx.println(done)
	return nil
}
