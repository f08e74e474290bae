package models

import "time"

// Habit holds cached streak counters derived from its log. The log is
// authoritative; the counters are recomputed on every toggle.
type Habit struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Name             string    `json:"name"`
	StreakCurrent    int       `json:"streak_current"`
	StreakBest       int       `json:"streak_best"`
	TotalCompletions int       `json:"total_completions"`
	CreatedAt        time.Time `json:"created_at"`
}

// HabitLog records one completed day of a habit. At most one row per
// (habit, day).
type HabitLog struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	Day         string    `json:"day"` // YYYY-MM-DD format
	CompletedAt time.Time `json:"completed_at"`
}
