package cli

import (
	"fmt"

	"github.com/vigorfit/vigor/internal/habits"
	"github.com/vigorfit/vigor/internal/models"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Toggle HabitToggleCmd `cmd:"" help:"Toggle a habit's completion for a day."`
	List   HabitListCmd   `cmd:"" help:"List habits with streaks." default:"1"`
}

type HabitAddCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	svc, g, err := ctx.HabitService()
	if err != nil {
		return err
	}
	defer svc.Close()
	defer g.Close()

	for _, h := range currentHabits(svc) {
		if h.Name == c.Name {
			return fmt.Errorf("habit %q already exists", c.Name)
		}
	}

	h, ok := svc.Create(c.Name)
	if !ok {
		return fmt.Errorf("failed to create habit %q", c.Name)
	}
	fmt.Println(SuccessStyle.Render("Added habit: " + h.Name))
	return nil
}

type HabitToggleCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitToggleCmd) Run(ctx *Context) error {
	svc, g, err := ctx.HabitService()
	if err != nil {
		return err
	}
	defer svc.Close()
	defer g.Close()

	habit, err := findHabit(currentHabits(svc), c.Name)
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = ctx.Today()
	}
	if !svc.Toggle(habit.ID, day) {
		return fmt.Errorf("failed to toggle %q for %s", c.Name, day)
	}

	days, err := svc.CompletedDays(habit.ID)
	if err == nil && days[day] {
		fmt.Println(SuccessStyle.Render(fmt.Sprintf("Completed %q for %s", c.Name, day)))
	} else {
		fmt.Printf("Unmarked %q for %s\n", c.Name, day)
	}
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	svc, g, err := ctx.HabitService()
	if err != nil {
		return err
	}
	defer svc.Close()
	defer g.Close()

	habits := currentHabits(svc)
	if len(habits) == 0 {
		fmt.Println("No habits yet. Add one with 'vigor habit add'.")
		return nil
	}

	fmt.Println(TitleStyle.Render("Habits"))
	for _, h := range habits {
		streak := fmt.Sprintf("streak %d (best %d, total %d)",
			h.StreakCurrent, h.StreakBest, h.TotalCompletions)
		fmt.Printf("  %-24s %s\n", h.Name, SubtleStyle.Render(streak))
	}
	return nil
}

func currentHabits(svc *habits.Service) []models.Habit {
	svc.Refresh()
	return svc.Habits()
}

func findHabit(list []models.Habit, name string) (models.Habit, error) {
	for _, h := range list {
		if h.Name == name {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("no habit named %q", name)
}
