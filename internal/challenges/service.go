// Package challenges manages target-counter challenges. Completion is a
// one-way latch: the counter clamps at the target, the completed flag never
// clears, and the reward pays out exactly once no matter how many updates
// arrive after the target is crossed.
package challenges

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/logger"
	"github.com/vigorfit/vigor/internal/mirror"
	"github.com/vigorfit/vigor/internal/models"
	"github.com/vigorfit/vigor/internal/remote"
	"github.com/vigorfit/vigor/internal/syncq"
)

// Reward is invoked once when a challenge completes.
type Reward func(amount int, source constants.XPSource, description string)

type Service struct {
	userID string
	remote remote.Store
	cache  *mirror.Store
	guard  *syncq.KeyedMutex
	token  *syncq.Token
	reward Reward
	notify func(text string)

	mu         sync.RWMutex
	challenges []models.Challenge
	loading    bool
}

func NewService(userID string, store remote.Store, cache *mirror.Store, reward Reward, notify func(text string)) *Service {
	if reward == nil {
		reward = func(int, constants.XPSource, string) {}
	}
	if notify == nil {
		notify = func(string) {}
	}
	return &Service{
		userID: userID,
		remote: store,
		cache:  cache,
		guard:  syncq.NewKeyedMutex(),
		token:  syncq.NewToken(),
		reward: reward,
		notify: notify,
	}
}

func (s *Service) Close() {
	s.token.Cancel()
}

// Challenges returns the cached challenge list.
func (s *Service) Challenges() []models.Challenge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.challenges
}

func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Create registers a new inactive challenge.
func (s *Service) Create(name string, target, rewardXP int) (models.Challenge, bool) {
	if name == "" || target <= 0 || rewardXP < 0 {
		return models.Challenge{}, false
	}

	c := models.Challenge{
		ID:        uuid.New().String(),
		UserID:    s.userID,
		Name:      name,
		Target:    target,
		RewardXP:  rewardXP,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.remote.InsertChallenge(c); err != nil {
		logger.Error("Failed to create challenge", "name", name, "error", err)
		return models.Challenge{}, false
	}

	s.Refresh()
	return c, true
}

// Start activates a challenge and stamps its window. Starting an already
// active or completed challenge is a no-op.
func (s *Service) Start(challengeID string, duration time.Duration) bool {
	release, ok := s.guard.TryAcquire(challengeID)
	if !ok {
		return false
	}
	defer release()

	c, err := s.remote.GetChallenge(challengeID)
	if err != nil {
		logger.Error("Failed to fetch challenge", "id", challengeID, "error", err)
		return false
	}
	if c.IsActive || c.IsCompleted {
		return false
	}

	now := time.Now().UTC()
	end := now.Add(duration)
	c.IsActive = true
	c.StartsAt = &now
	c.EndsAt = &end
	if err := s.remote.UpdateChallenge(c); err != nil {
		logger.Error("Failed to start challenge", "id", challengeID, "error", err)
		return false
	}
	return s.Refresh()
}

// AddProgress advances an active challenge's counter. The counter clamps at
// the target; the first update that reaches it completes the challenge,
// deactivates it, and pays the reward. Later or duplicate updates change
// nothing.
func (s *Service) AddProgress(challengeID string, delta int) bool {
	if delta <= 0 {
		return false
	}

	release, ok := s.guard.TryAcquire(challengeID)
	if !ok {
		logger.Debug("Challenge busy", "id", challengeID)
		return false
	}
	defer release()

	c, err := s.remote.GetChallenge(challengeID)
	if err != nil {
		logger.Error("Failed to fetch challenge", "id", challengeID, "error", err)
		return false
	}
	if !c.IsActive || c.IsCompleted {
		return false
	}

	c.Current += delta
	if c.Current >= c.Target {
		c.Current = c.Target
		c.IsCompleted = true
		c.IsActive = false
	}

	if err := s.remote.UpdateChallenge(c); err != nil {
		logger.Error("Failed to update challenge", "id", challengeID, "error", err)
		return false
	}

	if c.IsCompleted {
		s.reward(c.RewardXP, constants.XPSourceChallenge, c.Name)
		s.notify("Challenge complete: " + c.Name)
	}
	return s.Refresh()
}

// Refresh refetches the challenge list and rewrites the mirror.
func (s *Service) Refresh() bool {
	s.setLoading(true)
	defer s.setLoading(false)

	challenges, err := s.remote.ListChallenges(s.userID)
	if err != nil {
		logger.Warn("Failed to fetch challenges, falling back to mirror", "error", err)
		cached, cacheErr := s.cache.ListChallenges(s.userID)
		if cacheErr != nil {
			return false
		}
		challenges = cached
	} else if err := s.cache.ReplaceChallenges(s.userID, challenges); err != nil {
		logger.Warn("Failed to mirror challenges", "error", err)
	}

	if !s.token.Alive() {
		return false
	}

	s.mu.Lock()
	s.challenges = challenges
	s.mu.Unlock()
	return true
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
