package models

import "time"

// Challenge is a target-counter goal with a one-way completion latch:
// crossing Target flips IsCompleted exactly once and the completion reward
// fires exactly once, even if the same update is re-applied.
type Challenge struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Target      int        `json:"target"`
	Current     int        `json:"current"`
	IsActive    bool       `json:"is_active"`
	IsCompleted bool       `json:"is_completed"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	RewardXP    int        `json:"reward_xp"`
	CreatedAt   time.Time  `json:"created_at"`
}
