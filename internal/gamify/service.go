// Package gamify owns the per-user XP singleton, its append-only transaction
// log, badge awards, and the daily login streak. All read-modify-write
// cycles against the XP total run through one serial queue: the remote store
// has no atomic-increment primitive, so correctness rests on never having two
// concurrent read-compute-write sequences in flight for the same user.
package gamify

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/errors"
	"github.com/vigorfit/vigor/internal/logger"
	"github.com/vigorfit/vigor/internal/mirror"
	"github.com/vigorfit/vigor/internal/models"
	"github.com/vigorfit/vigor/internal/remote"
	"github.com/vigorfit/vigor/internal/syncq"
)

// Notify is the fire-and-forget toast collaborator.
type Notify func(text string)

type Service struct {
	userID string
	remote remote.Store
	cache  *mirror.Store
	queue  *syncq.SerialQueue
	token  *syncq.Token
	notify Notify

	mu      sync.RWMutex
	state   models.GamificationState
	badges  []models.Badge
	loading bool
}

func NewService(userID string, store remote.Store, cache *mirror.Store, notify Notify) *Service {
	if notify == nil {
		notify = func(string) {}
	}
	return &Service{
		userID: userID,
		remote: store,
		cache:  cache,
		queue:  syncq.NewSerialQueue(),
		token:  syncq.NewToken(),
		notify: notify,
	}
}

// Close tears the service down: queued XP work is discarded and any result
// still in flight is dropped rather than committed.
func (s *Service) Close() {
	s.token.Cancel()
	s.queue.Abort()
}

// State returns the cached gamification snapshot.
func (s *Service) State() models.GamificationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Badges returns the cached badge list.
func (s *Service) Badges() []models.Badge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Badge, len(s.badges))
	copy(out, s.badges)
	return out
}

// Loading reports whether a refresh is in flight.
func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Refresh fetches the authoritative state and badge list from the remote
// store and overwrites the local view. The singleton is created lazily on
// first read for a new user.
func (s *Service) Refresh() bool {
	s.setLoading(true)
	defer s.setLoading(false)

	state, err := s.remote.GetGamification(s.userID)
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFound) {
			state = s.freshState()
			if err := s.remote.UpsertGamification(state); err != nil {
				logger.Warn("Failed to create gamification row", "error", err)
				return false
			}
		} else {
			logger.Warn("Failed to fetch gamification state", "error", err)
			return false
		}
	}

	badges, err := s.remote.GetBadges(s.userID)
	if err != nil {
		logger.Warn("Failed to fetch badges", "error", err)
		return false
	}

	if !s.token.Alive() {
		return false
	}

	s.mu.Lock()
	s.state = state
	s.badges = badges
	s.mu.Unlock()

	if err := s.cache.UpsertGamification(state); err != nil {
		logger.Warn("Failed to mirror gamification state", "error", err)
	}
	if err := s.cache.ReplaceBadges(s.userID, badges); err != nil {
		logger.Warn("Failed to mirror badges", "error", err)
	}

	return true
}

// AddXP appends an XP transaction and advances the total through the serial
// queue, so near-simultaneous awards each land on a fresh read of the total.
// On success the local state is reconciled with the server's authoritative
// response. Returns false on validation or remote failure; never panics.
func (s *Service) AddXP(amount int, source constants.XPSource, description string) bool {
	if amount <= 0 {
		logger.Debug("Rejected non-positive XP amount", "amount", amount)
		return false
	}

	result := s.queue.Enqueue(func(ctx context.Context) error {
		state, err := s.remote.GetGamification(s.userID)
		if err != nil {
			if !stderrors.Is(err, errors.ErrNotFound) {
				return err
			}
			state = s.freshState()
		}

		tx := models.XPTransaction{
			ID:          uuid.New().String(),
			UserID:      s.userID,
			Amount:      amount,
			Source:      source,
			Description: description,
			CreatedAt:   time.Now(),
		}
		if err := s.remote.AppendXPTransaction(tx); err != nil {
			return err
		}

		prevLevel := state.CurrentLevel
		state.TotalXP += amount
		state.CurrentLevel = LevelFromXP(state.TotalXP)

		if err := s.remote.UpsertGamification(state); err != nil {
			return err
		}

		s.commit(state, tx)

		if state.CurrentLevel > prevLevel {
			s.notify(fmt.Sprintf("Level up! You reached level %d", state.CurrentLevel))
		}
		return nil
	})

	if err := <-result; err != nil {
		if !stderrors.Is(err, syncq.ErrAborted) {
			logger.Warn("Failed to add XP", "amount", amount, "source", source, "error", err)
			s.notify("Couldn't sync your XP right now")
		}
		return false
	}
	return true
}

// AwardBadge implements the two-phase duplicate guard. Phase one is a free
// check against the cached badge list; phase two is the remote uniqueness
// constraint, whose conflict is treated as "already awarded", i.e. success.
func (s *Service) AwardBadge(badgeType constants.BadgeType) bool {
	s.mu.RLock()
	for _, b := range s.badges {
		if b.BadgeType == badgeType {
			s.mu.RUnlock()
			return true
		}
	}
	s.mu.RUnlock()

	badge := models.Badge{
		ID:        uuid.New().String(),
		UserID:    s.userID,
		BadgeType: badgeType,
		AwardedAt: time.Now(),
	}

	err := s.remote.InsertBadge(badge)
	if err != nil && !stderrors.Is(err, errors.ErrConflict) {
		logger.Warn("Failed to award badge", "badge", badgeType, "error", err)
		s.notify("Couldn't sync your badge right now")
		return false
	}

	if !s.token.Alive() {
		return false
	}

	if err == nil {
		s.mu.Lock()
		s.badges = append(s.badges, badge)
		s.mu.Unlock()

		if cacheErr := s.cache.InsertBadge(badge); cacheErr != nil {
			logger.Warn("Failed to mirror badge", "error", cacheErr)
		}
		s.notify(fmt.Sprintf("Badge unlocked: %s", badgeType))
	}
	// ErrConflict: another device won the race; the reconciler's refetch
	// will bring the row in.
	return true
}

// RecordLogin advances the daily login streak: same day is a no-op,
// consecutive days increment, and a gap resets to 1. Runs on the serial
// queue because it shares the gamification row with AddXP.
func (s *Service) RecordLogin(day string) bool {
	var advanced bool
	result := s.queue.Enqueue(func(ctx context.Context) error {
		state, err := s.remote.GetGamification(s.userID)
		if err != nil {
			if !stderrors.Is(err, errors.ErrNotFound) {
				return err
			}
			state = s.freshState()
		}

		if state.LastLoginDate == day {
			return nil
		}
		advanced = true

		if isYesterday(state.LastLoginDate, day) {
			state.DailyLoginStreak++
		} else {
			state.DailyLoginStreak = 1
		}
		state.LastLoginDate = day

		if err := s.remote.UpsertGamification(state); err != nil {
			return err
		}

		s.commit(state, models.XPTransaction{})
		return nil
	})

	if err := <-result; err != nil {
		if !stderrors.Is(err, syncq.ErrAborted) {
			logger.Warn("Failed to record login", "day", day, "error", err)
		}
		return false
	}

	// Login XP rides on the same queue, behind the streak update. A repeat
	// login on the same day already earned its XP and gets nothing.
	if !advanced {
		return true
	}
	return s.AddXP(constants.XPPerLogin, constants.XPSourceLogin, "daily login")
}

func (s *Service) freshState() models.GamificationState {
	return models.GamificationState{
		UserID:       s.userID,
		CurrentLevel: LevelFromXP(0),
	}
}

// commit reconciles the local view with the server's authoritative response,
// unless the consumer tore down while the write was in flight.
func (s *Service) commit(state models.GamificationState, tx models.XPTransaction) {
	if !s.token.Alive() {
		return
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	if err := s.cache.UpsertGamification(state); err != nil {
		logger.Warn("Failed to mirror gamification state", "error", err)
	}
	if tx.ID != "" {
		if err := s.cache.AppendXPTransaction(tx); err != nil {
			logger.Warn("Failed to mirror xp transaction", "error", err)
		}
	}
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func isYesterday(prev, current string) bool {
	if prev == "" {
		return false
	}
	p, err := time.Parse(constants.DateFormat, prev)
	if err != nil {
		return false
	}
	c, err := time.Parse(constants.DateFormat, current)
	if err != nil {
		return false
	}
	return c.Sub(p) == 24*time.Hour
}
