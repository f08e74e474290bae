package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/vigorfit/vigor/internal/cli"
	"github.com/vigorfit/vigor/internal/cli/system"
	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/identity"
	"github.com/vigorfit/vigor/internal/keyring"
	"github.com/vigorfit/vigor/internal/logger"
	"github.com/vigorfit/vigor/internal/mirror"
	"github.com/vigorfit/vigor/internal/notifier"
	"github.com/vigorfit/vigor/internal/remote/postgres"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Local mirror database path." type:"string" default:"~/.config/vigor/vigor.db" env:"VIGOR_CONFIG"`
	Debug   bool   `help:"Enable debug logging." env:"VIGOR_DEBUG"`

	Init      system.InitCmd   `cmd:"" help:"Initialize local and remote storage."`
	Login     system.LoginCmd  `cmd:"" help:"Store credentials and resolve identity."`
	Doctor    system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Watch     system.WatchCmd  `cmd:"" help:"Follow remote changes and keep the mirror current."`
	Progress  cli.ProgressCmd  `cmd:"" help:"Track daily steps, water, and active minutes."`
	Habit     cli.HabitCmd     `cmd:"" help:"Manage habits and completion streaks."`
	Friend    cli.FriendCmd    `cmd:"" help:"Manage friends and friend requests."`
	Challenge cli.ChallengeCmd `cmd:"" help:"Manage challenges."`
	XP        cli.XPCmd        `cmd:"" help:"Show or award XP."`
}

func main() {
	// A local .env is a convenience for development setups; absence is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Fitness habit companion with an offline-first local mirror"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	mirrorPath := expandHome(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(mirrorPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Mirror:   mirror.NewStore(mirrorPath),
		Session:  identity.NewSession(),
		Notifier: notifier.New(),
	}

	// Credentials live in the OS keyring; a missing entry just means the
	// user has not logged in yet.
	if connStr, err := keyring.GetConnectionString(); err == nil {
		appCtx.Remote = postgres.New(connStr)
		appCtx.ConnStr = connStr
	} else if !errors.Is(err, keyring.ErrNotFound) {
		logger.Warn("Failed to read credentials from keyring", "error", err)
	}
	if err := appCtx.Session.ResolveFromKeyring(); err != nil {
		logger.Debug("Identity not resolved", "error", err)
	}

	// Init and login manage their own store lifecycles; doctor reports
	// connection problems itself instead of dying on them.
	selected := ""
	if ctx.Selected() != nil {
		selected = ctx.Selected().Name
	}
	if selected != "init" && selected != "login" && selected != "doctor" {
		if err := appCtx.Mirror.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if appCtx.Remote != nil {
			if err := appCtx.Remote.Load(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
