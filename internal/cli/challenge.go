package cli

import (
	"fmt"
	"time"

	"github.com/vigorfit/vigor/internal/models"
)

type ChallengeCmd struct {
	Add      ChallengeAddCmd      `cmd:"" help:"Create a new challenge."`
	Start    ChallengeStartCmd    `cmd:"" help:"Start a challenge."`
	Progress ChallengeProgressCmd `cmd:"" help:"Add progress to an active challenge."`
	List     ChallengeListCmd     `cmd:"" help:"List challenges." default:"1"`
}

type ChallengeAddCmd struct {
	Name   string `arg:"" help:"Challenge name."`
	Target int    `arg:"" help:"Target count to reach."`
	Reward int    `help:"XP paid on completion." default:"100"`
}

func (c *ChallengeAddCmd) Run(ctx *Context) error {
	svc, g, err := ctx.ChallengeService()
	if err != nil {
		return err
	}
	defer svc.Close()
	defer g.Close()

	ch, ok := svc.Create(c.Name, c.Target, c.Reward)
	if !ok {
		return fmt.Errorf("failed to create challenge %q", c.Name)
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Created challenge %q (target %d, reward %d XP)", ch.Name, ch.Target, ch.RewardXP)))
	fmt.Println(SubtleStyle.Render("id: " + ch.ID))
	return nil
}

type ChallengeStartCmd struct {
	ID   string `arg:"" help:"Challenge id."`
	Days int    `help:"Length of the challenge window in days." default:"7"`
}

func (c *ChallengeStartCmd) Run(ctx *Context) error {
	svc, g, err := ctx.ChallengeService()
	if err != nil {
		return err
	}
	defer svc.Close()
	defer g.Close()

	if !svc.Start(c.ID, time.Duration(c.Days)*24*time.Hour) {
		return fmt.Errorf("could not start challenge %s", c.ID)
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Challenge started, %d days on the clock", c.Days)))
	return nil
}

type ChallengeProgressCmd struct {
	ID     string `arg:"" help:"Challenge id."`
	Amount int    `arg:"" help:"Progress to add."`
}

func (c *ChallengeProgressCmd) Run(ctx *Context) error {
	svc, g, err := ctx.ChallengeService()
	if err != nil {
		return err
	}
	defer svc.Close()
	defer g.Close()

	if !svc.AddProgress(c.ID, c.Amount) {
		return fmt.Errorf("could not add progress to challenge %s", c.ID)
	}

	for _, ch := range svc.Challenges() {
		if ch.ID == c.ID {
			fmt.Println(formatChallenge(ch))
			break
		}
	}
	return nil
}

type ChallengeListCmd struct{}

func (c *ChallengeListCmd) Run(ctx *Context) error {
	svc, g, err := ctx.ChallengeService()
	if err != nil {
		return err
	}
	defer svc.Close()
	defer g.Close()

	svc.Refresh()
	list := svc.Challenges()
	if len(list) == 0 {
		fmt.Println("No challenges yet. Add one with 'vigor challenge add'.")
		return nil
	}

	fmt.Println(TitleStyle.Render("Challenges"))
	for _, ch := range list {
		fmt.Printf("  %s\n", formatChallenge(ch))
		fmt.Printf("    %s\n", SubtleStyle.Render("id: "+ch.ID))
	}
	return nil
}

func formatChallenge(ch models.Challenge) string {
	state := "inactive"
	switch {
	case ch.IsCompleted:
		state = SuccessStyle.Render("completed ✓")
	case ch.IsActive:
		state = "active"
	}
	return fmt.Sprintf("%-24s %d/%d  %s", ch.Name, ch.Current, ch.Target, state)
}
