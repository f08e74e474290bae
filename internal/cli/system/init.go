package system

import (
	"fmt"
	"os"

	"github.com/vigorfit/vigor/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the local mirror before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Mirror.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Mirror.Close(); err != nil {
				return fmt.Errorf("failed to close existing mirror: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing mirror: %w", err)
			}
			fmt.Printf("Deleted existing mirror at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing mirror: %w", err)
		}
	}

	if err := ctx.Mirror.Init(); err != nil {
		return fmt.Errorf("failed to initialize local mirror: %w", err)
	}
	fmt.Printf("Initialized local mirror at: %s\n", ctx.Mirror.GetConfigPath())

	if ctx.Remote != nil {
		if err := ctx.Remote.Init(); err != nil {
			return fmt.Errorf("failed to initialize remote store: %w", err)
		}
		fmt.Println("Remote store initialized and migrated.")
	} else {
		fmt.Println("No remote credentials stored yet, run 'vigor login' to connect.")
	}

	return nil
}
