package models

import (
	"time"

	"github.com/vigorfit/vigor/internal/constants"
)

// GamificationState is the per-user singleton of XP totals and login streaks.
// CurrentLevel is always recomputed from TotalXP on write; the two fields
// cannot drift apart.
type GamificationState struct {
	UserID           string `json:"user_id"`
	TotalXP          int    `json:"total_xp"`
	CurrentLevel     int    `json:"current_level"`
	DailyLoginStreak int    `json:"daily_login_streak"`
	LastLoginDate    string `json:"last_login_date,omitempty"` // YYYY-MM-DD format
}

// XPTransaction is an immutable append-only audit entry. The sum of a user's
// transactions equals their TotalXP (eventually; the singleton is the cache).
type XPTransaction struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	Amount      int                `json:"amount"`
	Source      constants.XPSource `json:"source"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Badge records a one-time unlockable achievement. At most one row ever
// exists per (user, badge type); the remote store enforces this with a
// uniqueness constraint.
type Badge struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	BadgeType constants.BadgeType `json:"badge_type"`
	AwardedAt time.Time           `json:"awarded_at"`
}
