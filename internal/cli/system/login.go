package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/vigorfit/vigor/internal/cli"
	"github.com/vigorfit/vigor/internal/gamify"
	"github.com/vigorfit/vigor/internal/keyring"
	"github.com/vigorfit/vigor/internal/remote/postgres"
)

type LoginCmd struct {
	UserID     string `help:"User id to log in as. Prompted for when omitted."`
	Connection string `help:"PostgreSQL connection string. Prompted for when omitted."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	userID := c.UserID
	connStr := c.Connection

	if userID == "" || connStr == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("User id").
					Value(&userID).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errors.New("user id is required")
						}
						return nil
					}),
				huh.NewInput().
					Title("PostgreSQL connection string").
					Description("Credentials stay in the OS keyring, never on disk.").
					Value(&connStr).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errors.New("connection string is required")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	if !strings.HasPrefix(connStr, "postgres://") &&
		!strings.HasPrefix(connStr, "postgresql://") &&
		!strings.Contains(connStr, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}
	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			fmt.Println("⚠ Connection string contains an embedded password.")
			fmt.Println("  It will live only in the encrypted OS keyring, but .pgpass or")
			fmt.Println("  environment variables keep passwords out of connection strings entirely.")
		} else {
			return fmt.Errorf("invalid connection string: %w", err)
		}
	}

	// The mirror must exist before the login streak write below.
	if err := ctx.Mirror.Init(); err != nil {
		return fmt.Errorf("failed to initialize local mirror: %w", err)
	}

	if err := keyring.SetConnectionString(connStr); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	if err := keyring.SetUserID(userID); err != nil {
		return fmt.Errorf("failed to store user id in keyring: %w", err)
	}
	ctx.Session.Resolve(userID)

	// Verify the stored credentials actually reach the server.
	store := postgres.New(connStr)
	if err := store.Load(); err != nil {
		return fmt.Errorf("stored credentials but could not connect: %w", err)
	}
	defer store.Close()

	// The daily login streak advances once per calendar day.
	g := gamify.NewService(userID, store, ctx.Mirror, ctx.Notify)
	defer g.Close()
	if g.RecordLogin(ctx.Today()) {
		state := g.State()
		fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Logged in as %s", userID)))
		fmt.Printf("  login streak: %d\n", state.DailyLoginStreak)
	} else {
		fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Logged in as %s", userID)))
	}

	return nil
}
