package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/vigorfit/vigor/internal/cli"
	"github.com/vigorfit/vigor/internal/keyring"
	"github.com/vigorfit/vigor/internal/models"
	"github.com/vigorfit/vigor/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	remoteReachable := false

	// Check 1: OS keyring available
	if !keyring.IsAvailable() {
		fmt.Printf("❌ OS keyring: FAIL\n")
		fmt.Printf("   Error: keyring is not available on this system\n")
		hasError = true
	} else {
		fmt.Printf("✓ OS keyring: OK\n")
	}

	// Check 2: Credentials stored
	if _, err := keyring.GetConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Printf("⚠ Remote credentials: NOT SET (run 'vigor login')\n")
		} else {
			fmt.Printf("❌ Remote credentials: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	} else {
		fmt.Printf("✓ Remote credentials: OK\n")
	}

	// Check 3: Identity resolved
	if userID, ok := ctx.Session.CurrentUserID(); ok {
		fmt.Printf("✓ Identity: OK (%s)\n", userID)
	} else {
		fmt.Printf("⚠ Identity: NOT RESOLVED (run 'vigor login')\n")
	}

	// Check 4: Local mirror opens
	if err := ctx.Mirror.Load(); err != nil {
		fmt.Printf("❌ Local mirror: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Local mirror: OK (%s)\n", ctx.Mirror.GetConfigPath())
	}

	// Check 5: Remote reachable and schema current
	if ctx.Remote == nil {
		fmt.Printf("⊘ Remote store: SKIPPED (no credentials)\n")
	} else if err := ctx.Remote.Load(); err != nil {
		fmt.Printf("❌ Remote store: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Remote store: OK\n")
		remoteReachable = true
	}

	// Check 6: Local data passes pre-flight validation
	if userID, ok := ctx.Session.CurrentUserID(); ok && remoteReachable {
		if err := checkDataIntegrity(ctx, userID); err != nil {
			fmt.Printf("❌ Data validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED\n")
	}

	// Check 7: Clock sanity, streaks and debounced writes assume a sane clock
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	fmt.Println()
	if hasError {
		return errors.New("diagnostics found problems")
	}
	fmt.Println(cli.SuccessStyle.Render("All checks passed."))
	return nil
}

func checkDataIntegrity(ctx *cli.Context, userID string) error {
	validator := validation.New()

	habits, err := ctx.Remote.ListHabits(userID)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	var logs []models.HabitLog
	for _, h := range habits {
		habitLogs, err := ctx.Remote.ListHabitLogs(h.ID)
		if err != nil {
			return fmt.Errorf("failed to list habit logs: %w", err)
		}
		logs = append(logs, habitLogs...)
	}
	if result := validator.ValidateHabits(habits, logs); result.HasFailures() {
		return errors.New(result.FormatReport())
	}

	challenges, err := ctx.Remote.ListChallenges(userID)
	if err != nil {
		return fmt.Errorf("failed to list challenges: %w", err)
	}
	for _, c := range challenges {
		if result := validator.ValidateChallenge(c); result.HasFailures() {
			return errors.New(result.FormatReport())
		}
	}

	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock reads %s, which is implausible", now.Format(time.RFC3339))
	}
	return nil
}
