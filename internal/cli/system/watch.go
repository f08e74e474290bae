package system

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vigorfit/vigor/internal/cli"
	"github.com/vigorfit/vigor/internal/logger"
	"github.com/vigorfit/vigor/internal/realtime"
)

// WatchCmd runs the change-notification loop in the foreground, keeping the
// local mirror in step with changes made from other devices until
// interrupted.
type WatchCmd struct{}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	if ctx.ConnStr == "" {
		return errors.New("no remote credentials stored, run 'vigor login' first")
	}
	if !ctx.Session.IsResolved() {
		return errors.New("not logged in, run 'vigor login' first")
	}

	progressSvc, err := ctx.ProgressService()
	if err != nil {
		return err
	}
	defer progressSvc.Close()

	gamifySvc, err := ctx.GamifyService()
	if err != nil {
		return err
	}
	defer gamifySvc.Close()

	socialSvc, err := ctx.SocialService()
	if err != nil {
		return err
	}
	defer socialSvc.Close()

	habitSvc, habitGamify, err := ctx.HabitService()
	if err != nil {
		return err
	}
	defer habitSvc.Close()
	defer habitGamify.Close()

	challengeSvc, challengeGamify, err := ctx.ChallengeService()
	if err != nil {
		return err
	}
	defer challengeSvc.Close()
	defer challengeGamify.Close()

	source, err := realtime.Listen(ctx.ConnStr)
	if err != nil {
		return fmt.Errorf("failed to subscribe to change notifications: %w", err)
	}

	reconciler := realtime.New(ctx.Session, source)
	reconciler.Register("daily_progress", func() error {
		if !progressSvc.Refresh(ctx.Today()) {
			return errors.New("progress refresh failed")
		}
		return nil
	})
	reconciler.Register("gamification", refetch(gamifySvc.Refresh))
	reconciler.Register("xp_transactions", refetch(gamifySvc.Refresh))
	reconciler.Register("badges", refetch(gamifySvc.Refresh))
	reconciler.Register("friendships", refetch(socialSvc.Refresh))
	reconciler.Register("habits", refetch(habitSvc.Refresh))
	reconciler.Register("habit_logs", refetch(habitSvc.Refresh))
	reconciler.Register("challenges", refetch(challengeSvc.Refresh))

	if err := reconciler.Start(); err != nil {
		return fmt.Errorf("failed to start reconciler: %w", err)
	}
	logger.Info("Watching for remote changes")
	fmt.Println("Watching for remote changes. Press Ctrl+C to stop.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	fmt.Println("\nStopping...")
	reconciler.Stop()
	return nil
}

// refetch adapts a bool-returning service refresh to the reconciler's
// error-returning refetch signature.
func refetch(fn func() bool) realtime.RefetchFunc {
	return func() error {
		if !fn() {
			return errors.New("refresh failed")
		}
		return nil
	}
}
