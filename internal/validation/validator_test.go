package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/vigorfit/vigor/internal/models"
)

func TestValidateHabits_CleanState(t *testing.T) {
	validator := New()

	habits := []models.Habit{
		{ID: "h-1", Name: "Morning Run"},
		{ID: "h-2", Name: "Drink Water"},
	}
	logs := []models.HabitLog{
		{ID: "l-1", HabitID: "h-1", Day: "2026-08-28"},
		{ID: "l-2", HabitID: "h-1", Day: "2026-08-29"},
		{ID: "l-3", HabitID: "h-2", Day: "2026-08-29"},
	}

	result := validator.ValidateHabits(habits, logs)
	if result.HasFailures() {
		t.Errorf("expected clean state, got: %s", result.FormatReport())
	}
}

func TestValidateHabits_DuplicateNames(t *testing.T) {
	validator := New()

	habits := []models.Habit{
		{ID: "h-1", Name: "Morning Run"},
		{ID: "h-2", Name: "morning run"}, // case-insensitive duplicate
	}

	result := validator.ValidateHabits(habits, nil)
	if !result.HasFailures() {
		t.Fatal("expected duplicate name failure")
	}
	if result.Failures[0].Type != FailureDuplicateHabitName {
		t.Errorf("expected %s, got %s", FailureDuplicateHabitName, result.Failures[0].Type)
	}
}

func TestValidateHabits_DuplicateLogDay(t *testing.T) {
	validator := New()

	logs := []models.HabitLog{
		{ID: "l-1", HabitID: "h-1", Day: "2026-08-29"},
		{ID: "l-2", HabitID: "h-1", Day: "2026-08-29"},
	}

	result := validator.ValidateHabits(nil, logs)
	if !result.HasFailures() {
		t.Fatal("expected duplicate log day failure")
	}
	if result.Failures[0].Type != FailureDuplicateLogDay {
		t.Errorf("expected %s, got %s", FailureDuplicateLogDay, result.Failures[0].Type)
	}
}

func TestValidateHabits_InvalidDate(t *testing.T) {
	validator := New()

	logs := []models.HabitLog{
		{ID: "l-1", HabitID: "h-1", Day: "29/08/2026"},
	}

	result := validator.ValidateHabits(nil, logs)
	if !result.HasFailures() {
		t.Fatal("expected invalid date failure")
	}
	if result.Failures[0].Type != FailureInvalidDate {
		t.Errorf("expected %s, got %s", FailureInvalidDate, result.Failures[0].Type)
	}
}

func TestValidateProgress_NegativeCounters(t *testing.T) {
	validator := New()

	p := models.DailyProgress{
		ID:    "p-1",
		Day:   "2026-08-29",
		Steps: -100,
	}

	result := validator.ValidateProgress(p)
	if !result.HasFailures() {
		t.Fatal("expected negative counter failure")
	}
	if result.Failures[0].Type != FailureNegativeCounter {
		t.Errorf("expected %s, got %s", FailureNegativeCounter, result.Failures[0].Type)
	}
}

func TestValidateProgress_Clean(t *testing.T) {
	validator := New()

	p := models.DailyProgress{
		ID:          "p-1",
		Day:         "2026-08-29",
		Steps:       5000,
		WaterML:     1500,
		StepsGoal:   10000,
		WaterGoalML: 2000,
	}

	if result := validator.ValidateProgress(p); result.HasFailures() {
		t.Errorf("expected clean row, got: %s", result.FormatReport())
	}
}

func TestValidateChallenge_InvalidTarget(t *testing.T) {
	validator := New()

	c := models.Challenge{ID: "c-1", Name: "Empty", Target: 0}

	result := validator.ValidateChallenge(c)
	if !result.HasFailures() {
		t.Fatal("expected invalid target failure")
	}
	if result.Failures[0].Type != FailureInvalidTarget {
		t.Errorf("expected %s, got %s", FailureInvalidTarget, result.Failures[0].Type)
	}
}

func TestValidateChallenge_CounterOverTarget(t *testing.T) {
	validator := New()

	c := models.Challenge{ID: "c-1", Name: "Steps", Target: 7, Current: 9}

	result := validator.ValidateChallenge(c)
	if !result.HasFailures() {
		t.Fatal("expected counter over target failure")
	}
	if result.Failures[0].Type != FailureCounterOverTarget {
		t.Errorf("expected %s, got %s", FailureCounterOverTarget, result.Failures[0].Type)
	}

	// A completed challenge holds at the target and is exempt.
	c.IsCompleted = true
	c.Current = 7
	if result := validator.ValidateChallenge(c); result.HasFailures() {
		t.Errorf("completed challenge at target must pass, got: %s", result.FormatReport())
	}
}

func TestValidateChallenge_InvertedWindow(t *testing.T) {
	validator := New()

	start := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)
	c := models.Challenge{ID: "c-1", Name: "Backwards", Target: 7, StartsAt: &start, EndsAt: &end}

	result := validator.ValidateChallenge(c)
	if !result.HasFailures() {
		t.Fatal("expected inverted window failure")
	}
	if result.Failures[0].Type != FailureInvertedWindow {
		t.Errorf("expected %s, got %s", FailureInvertedWindow, result.Failures[0].Type)
	}
}

func TestFormatReport(t *testing.T) {
	validator := New()

	habits := []models.Habit{
		{ID: "", Name: "Orphan"},
	}
	report := validator.ValidateHabits(habits, nil).FormatReport()
	if !strings.Contains(report, string(FailureMissingID)) {
		t.Errorf("report must name the failure type, got: %s", report)
	}
	if !strings.Contains(report, "Orphan") {
		t.Errorf("report must name the row, got: %s", report)
	}
}
