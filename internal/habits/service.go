// Package habits manages daily habits and their completion log. The log is
// the source of truth; the streak counters cached on the habit row are
// recomputed from the full log after every toggle.
package habits

import (
	stderrors "errors"
	"sort"
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

// Reward is invoked after a habit day is marked complete. Toggling the day
// back off does not claw the reward back.
type Reward func(amount int, source constants.XPSource, description string)

type Service struct {
	userID string
	remote remote.Store
	cache  *mirror.Store
	guard  *syncq.KeyedMutex
	token  *syncq.Token
	reward Reward

	mu      sync.RWMutex
	habits  []models.Habit
	loading bool
}

func NewService(userID string, store remote.Store, cache *mirror.Store, reward Reward) *Service {
	if reward == nil {
		reward = func(int, constants.XPSource, string) {}
	}
	return &Service{
		userID: userID,
		remote: store,
		cache:  cache,
		guard:  syncq.NewKeyedMutex(),
		token:  syncq.NewToken(),
		reward: reward,
	}
}

func (s *Service) Close() {
	s.token.Cancel()
}

// Habits returns the cached habit list.
func (s *Service) Habits() []models.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.habits
}

func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Create adds a new habit with zeroed counters.
func (s *Service) Create(name string) (models.Habit, bool) {
	if name == "" {
		return models.Habit{}, false
	}

	h := models.Habit{
		ID:        uuid.New().String(),
		UserID:    s.userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.remote.InsertHabit(h); err != nil {
		logger.Error("Failed to create habit", "name", name, "error", err)
		return models.Habit{}, false
	}

	s.Refresh()
	return h, true
}

// Toggle flips the completion state of a habit for one day. Marking an
// uncompleted day inserts the log row and pays the completion reward;
// toggling a completed day removes the row. Either way the streak counters
// are recomputed from the remaining log. Concurrent toggles of the same
// habit collapse to one winner.
func (s *Service) Toggle(habitID, day string) bool {
	release, ok := s.guard.TryAcquire(habitID)
	if !ok {
		logger.Debug("Habit busy", "id", habitID)
		return false
	}
	defer release()

	habit, err := s.remote.GetHabit(habitID)
	if err != nil {
		logger.Error("Failed to fetch habit", "id", habitID, "error", err)
		return false
	}

	completed := false
	err = s.remote.InsertHabitLog(models.HabitLog{
		ID:          uuid.New().String(),
		HabitID:     habitID,
		Day:         day,
		CompletedAt: time.Now().UTC(),
	})
	switch {
	case err == nil:
		completed = true
	case stderrors.Is(err, errors.ErrConflict):
		// Already logged for this day, so this toggle means undo.
		if err := s.remote.DeleteHabitLog(habitID, day); err != nil {
			logger.Error("Failed to remove habit log", "id", habitID, "error", err)
			return false
		}
	default:
		logger.Error("Failed to log habit", "id", habitID, "error", err)
		return false
	}

	logs, err := s.remote.ListHabitLogs(habitID)
	if err != nil {
		logger.Error("Failed to list habit logs", "id", habitID, "error", err)
		return false
	}

	habit.StreakCurrent, habit.StreakBest = computeStreaks(logs)
	habit.TotalCompletions = len(logs)
	if err := s.remote.UpsertHabit(habit); err != nil {
		logger.Error("Failed to update habit counters", "id", habitID, "error", err)
		return false
	}

	if completed {
		s.reward(constants.XPPerHabitCompletion, constants.XPSourceHabit, habit.Name)
	}
	return s.Refresh()
}

// CompletedDays returns the set of logged days for a habit, for rendering
// the completion calendar.
func (s *Service) CompletedDays(habitID string) (map[string]bool, error) {
	logs, err := s.remote.ListHabitLogs(habitID)
	if err != nil {
		logger.Warn("Failed to list habit logs, falling back to mirror", "id", habitID, "error", err)
		logs, err = s.cache.ListHabitLogs(habitID)
		if err != nil {
			return nil, err
		}
	}

	days := make(map[string]bool, len(logs))
	for _, l := range logs {
		days[l.Day] = true
	}
	return days, nil
}

// Refresh refetches the habit list and rewrites the mirror.
func (s *Service) Refresh() bool {
	s.setLoading(true)
	defer s.setLoading(false)

	habits, err := s.remote.ListHabits(s.userID)
	if err != nil {
		logger.Warn("Failed to fetch habits, falling back to mirror", "error", err)
		cached, cacheErr := s.cache.ListHabits(s.userID)
		if cacheErr != nil {
			return false
		}
		habits = cached
	} else if err := s.cache.ReplaceHabits(s.userID, habits); err != nil {
		logger.Warn("Failed to mirror habits", "error", err)
	}

	if !s.token.Alive() {
		return false
	}

	s.mu.Lock()
	s.habits = habits
	s.mu.Unlock()
	return true
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// computeStreaks derives the streak counters from the completion log.
// The current streak is the consecutive run of days ending at the most
// recent logged day; the best streak is the longest run anywhere in the
// log. Days are calendar days, so a run breaks on any gap.
func computeStreaks(logs []models.HabitLog) (current, best int) {
	if len(logs) == 0 {
		return 0, 0
	}

	days := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		d, err := time.Parse(constants.DateFormat, l.Day)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0, 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	run := 1
	best = 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return run, best
}
