package cli

import (
	"fmt"

	"github.com/vigorfit/vigor/internal/models"
)

type ProgressCmd struct {
	Add  ProgressAddCmd  `cmd:"" help:"Add to a daily counter."`
	Show ProgressShowCmd `cmd:"" help:"Show a day's progress." default:"1"`
}

type ProgressAddCmd struct {
	Metric string `arg:"" enum:"steps,water,active" help:"Counter to add to (steps, water, active)."`
	Amount int    `arg:"" help:"Amount to add. Water is in milliliters, active in minutes."`
	Date   string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ProgressAddCmd) Run(ctx *Context) error {
	svc, err := ctx.ProgressService()
	if err != nil {
		return err
	}
	defer svc.Close()

	day := c.Date
	if day == "" {
		day = ctx.Today()
	}
	if !svc.Load(day) {
		return fmt.Errorf("failed to load progress for %s", day)
	}

	var ok bool
	switch c.Metric {
	case "steps":
		ok = svc.AddSteps(c.Amount)
	case "water":
		ok = svc.AddWater(c.Amount)
	case "active":
		ok = svc.AddActiveMinutes(c.Amount)
	}
	if !ok {
		return fmt.Errorf("could not add %d to %s", c.Amount, c.Metric)
	}

	// Close flushes the debounced write before the process exits, so the
	// snapshot printed here is what the server will see.
	p := svc.Snapshot()
	fmt.Println(TitleStyle.Render(day))
	printDay(p)
	fmt.Println(SubtleStyle.Render("mascot: " + string(svc.Emotion())))
	return nil
}

type ProgressShowCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ProgressShowCmd) Run(ctx *Context) error {
	svc, err := ctx.ProgressService()
	if err != nil {
		return err
	}
	defer svc.Close()

	day := c.Date
	if day == "" {
		day = ctx.Today()
	}
	if !svc.Load(day) {
		return fmt.Errorf("failed to load progress for %s", day)
	}

	p := svc.Snapshot()
	fmt.Println(TitleStyle.Render(day))
	printDay(p)
	fmt.Println(SubtleStyle.Render("mascot: " + string(svc.Emotion())))
	return nil
}

func printDay(p models.DailyProgress) {
	fmt.Printf("  steps   %s\n", formatCounter(p.Steps, p.StepsGoal, ""))
	fmt.Printf("  water   %s\n", formatCounter(p.WaterML, p.WaterGoalML, "ml"))
	fmt.Printf("  active  %s\n", formatCounter(p.ActiveMinutes, p.ActiveMinutesGoal, "min"))
}

func formatCounter(value, goal int, unit string) string {
	s := fmt.Sprintf("%d", value)
	if unit != "" {
		s += unit
	}
	if goal > 0 {
		s += fmt.Sprintf(" / %d%s", goal, unit)
		if value >= goal {
			return SuccessStyle.Render(s + " ✓")
		}
	}
	return s
}
