// Package remote implements the accessor for the shared remote store, the
// single source of truth across devices and sessions. All methods classify
// driver failures into the sync-layer error taxonomy before returning:
// uniqueness violations map to errors.ErrConflict, missing rows to
// errors.ErrNotFound, and anything transport-shaped to errors.ErrNetwork.
package remote

import (
	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/models"
)

// Store is the remote data store accessor consumed by the feature services.
type Store interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Daily progress
	GetDailyProgress(userID, day string) (models.DailyProgress, error)
	UpsertDailyProgress(p models.DailyProgress) error

	// Gamification
	GetGamification(userID string) (models.GamificationState, error)
	UpsertGamification(g models.GamificationState) error
	AppendXPTransaction(tx models.XPTransaction) error
	GetXPTransactions(userID string) ([]models.XPTransaction, error)

	// Badges
	GetBadges(userID string) ([]models.Badge, error)
	// InsertBadge performs a conditional insert; a duplicate (user, type)
	// returns ErrConflict.
	InsertBadge(b models.Badge) error

	// Friendships
	// InsertFriendRequest returns ErrConflict if a pending edge for the
	// same ordered (sender, receiver) pair already exists.
	InsertFriendRequest(f models.Friendship) error
	GetFriendship(id string) (models.Friendship, error)
	// UpdateFriendshipStatus transitions id from one status to another. The
	// write is conditional on the current status; ErrNotFound means another
	// session already moved the edge.
	UpdateFriendshipStatus(id string, from, to constants.FriendStatus, updatedAt string) error
	ListFriendships(userID string, status constants.FriendStatus) ([]models.Friendship, error)

	// Habits
	InsertHabit(h models.Habit) error
	GetHabit(id string) (models.Habit, error)
	ListHabits(userID string) ([]models.Habit, error)
	UpsertHabit(h models.Habit) error
	// InsertHabitLog returns ErrConflict if the (habit, day) row exists.
	InsertHabitLog(l models.HabitLog) error
	DeleteHabitLog(habitID, day string) error
	ListHabitLogs(habitID string) ([]models.HabitLog, error)

	// Challenges
	InsertChallenge(c models.Challenge) error
	GetChallenge(id string) (models.Challenge, error)
	ListChallenges(userID string) ([]models.Challenge, error)
	UpdateChallenge(c models.Challenge) error
}
