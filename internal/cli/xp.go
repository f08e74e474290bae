package cli

import (
	"fmt"

	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/gamify"
)

type XPCmd struct {
	Add  XPAddCmd  `cmd:"" help:"Record an XP award."`
	Show XPShowCmd `cmd:"" help:"Show level, XP, and badges." default:"1"`
}

type XPAddCmd struct {
	Amount      int    `arg:"" help:"XP amount, must be positive."`
	Source      string `help:"XP source." enum:"workout,habit,challenge,login" default:"workout"`
	Description string `help:"What earned it." default:""`
}

func (c *XPAddCmd) Run(ctx *Context) error {
	svc, err := ctx.GamifyService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if !svc.AddXP(c.Amount, constants.XPSource(c.Source), c.Description) {
		return fmt.Errorf("could not add %d XP", c.Amount)
	}

	state := svc.State()
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("+%d XP", c.Amount)))
	fmt.Printf("  level %d, %d XP total\n", state.CurrentLevel, state.TotalXP)
	return nil
}

type XPShowCmd struct{}

func (c *XPShowCmd) Run(ctx *Context) error {
	svc, err := ctx.GamifyService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if !svc.Refresh() {
		return fmt.Errorf("failed to load gamification state")
	}

	state := svc.State()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("Level %d", state.CurrentLevel)))
	fmt.Printf("  total XP      %d\n", state.TotalXP)
	if next := gamify.XPForNextLevel(state.TotalXP); next >= 0 {
		fmt.Printf("  next level    %s\n", SubtleStyle.Render(fmt.Sprintf("%d XP away", next)))
	} else {
		fmt.Printf("  next level    %s\n", SubtleStyle.Render("max level reached"))
	}
	fmt.Printf("  login streak  %d\n", state.DailyLoginStreak)

	badges := svc.Badges()
	if len(badges) > 0 {
		fmt.Println(TitleStyle.Render("Badges"))
		for _, b := range badges {
			fmt.Printf("  %s  %s\n", b.BadgeType, SubtleStyle.Render(b.AwardedAt.Format("2006-01-02")))
		}
	}
	return nil
}
