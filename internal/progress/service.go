// Package progress tracks the per-day activity counters. Local mutations
// apply optimistically and immediately; the remote write is debounced so a
// burst of taps (three waters in 400ms) costs one network round-trip
// carrying the final value.
package progress

import (
	stderrors "errors"
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

type Service struct {
	userID string
	remote remote.Store
	cache  *mirror.Store
	deb    *syncq.Debouncer
	token  *syncq.Token
	notify func(text string)

	mu      sync.RWMutex
	day     models.DailyProgress
	loaded  bool
	loading bool
}

// NewService creates a progress service. window is the debounce quiet
// period; pass constants.DebounceWindow outside tests.
func NewService(userID string, store remote.Store, cache *mirror.Store, window time.Duration, notify func(text string)) *Service {
	if notify == nil {
		notify = func(string) {}
	}
	s := &Service{
		userID: userID,
		remote: store,
		cache:  cache,
		token:  syncq.NewToken(),
		notify: notify,
	}
	s.deb = syncq.NewDebouncer(window, s.persist)
	return s
}

// persist is the debouncer's write func: one upsert of the whole day row.
func (s *Service) persist(payload any) error {
	p, ok := payload.(models.DailyProgress)
	if !ok {
		return nil
	}
	if err := s.remote.UpsertDailyProgress(p); err != nil {
		s.notify("Couldn't sync today's progress right now")
		return err
	}
	return nil
}

// Close flushes any pending write so no scheduled mutation is silently lost,
// then tears the consumer down.
func (s *Service) Close() error {
	err := s.deb.Close()
	s.token.Cancel()
	return err
}

// Snapshot returns the cached day row.
func (s *Service) Snapshot() models.DailyProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.day
}

// Loading reports whether a load or refresh is in flight.
func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Emotion computes the mascot tier for the cached day.
func (s *Service) Emotion() constants.Emotion {
	return Emotion(s.Snapshot())
}

// Load populates the day row, creating it lazily on first read of a day
// with no existing record. On a network failure it falls back to the mirror
// so the UI keeps something to show.
func (s *Service) Load(day string) bool {
	s.setLoading(true)
	defer s.setLoading(false)

	p, err := s.remote.GetDailyProgress(s.userID, day)
	switch {
	case err == nil:
	case stderrors.Is(err, errors.ErrNotFound):
		p = s.freshDay(day)
		if err := s.remote.UpsertDailyProgress(p); err != nil {
			logger.Warn("Failed to create progress row", "day", day, "error", err)
		}
	default:
		logger.Warn("Failed to fetch progress, falling back to mirror", "day", day, "error", err)
		cached, cacheErr := s.cache.GetDailyProgress(s.userID, day)
		if cacheErr != nil {
			p = s.freshDay(day)
		} else {
			p = cached
		}
	}

	if !s.token.Alive() {
		return false
	}

	s.mu.Lock()
	s.day = p
	s.loaded = true
	s.mu.Unlock()

	if err := s.cache.UpsertDailyProgress(p); err != nil {
		logger.Warn("Failed to mirror progress", "error", err)
	}

	return true
}

// AddSteps adds to the step counter.
func (s *Service) AddSteps(amount int) bool {
	return s.add(constants.MetricSteps, amount)
}

// AddWater adds milliliters to the water counter.
func (s *Service) AddWater(amount int) bool {
	return s.add(constants.MetricWater, amount)
}

// AddActiveMinutes adds to the active-minutes counter.
func (s *Service) AddActiveMinutes(amount int) bool {
	return s.add(constants.MetricActiveMinutes, amount)
}

// add applies the optimistic local mutation and schedules the debounced
// remote write. The local value is the UI's source of truth immediately;
// counters clamp at zero.
func (s *Service) add(metric constants.Metric, amount int) bool {
	if amount == 0 {
		return false
	}

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		logger.Debug("Progress mutation before load", "metric", metric)
		return false
	}

	switch metric {
	case constants.MetricSteps:
		s.day.Steps = clampZero(s.day.Steps + amount)
	case constants.MetricWater:
		s.day.WaterML = clampZero(s.day.WaterML + amount)
	case constants.MetricActiveMinutes:
		s.day.ActiveMinutes = clampZero(s.day.ActiveMinutes + amount)
	default:
		s.mu.Unlock()
		return false
	}
	snapshot := s.day
	s.mu.Unlock()

	if err := s.cache.UpsertDailyProgress(snapshot); err != nil {
		logger.Warn("Failed to mirror progress", "error", err)
	}

	s.deb.Schedule(snapshot)
	return true
}

// Flush forces any pending debounced write out immediately. Used on
// teardown and navigation.
func (s *Service) Flush() error {
	return s.deb.Flush()
}

// Refresh discards any pending local guess and overwrites the day with
// fresh remote truth.
func (s *Service) Refresh(day string) bool {
	s.deb.Cancel()
	return s.Load(day)
}

func (s *Service) freshDay(day string) models.DailyProgress {
	return models.DailyProgress{
		ID:                uuid.New().String(),
		UserID:            s.userID,
		Day:               day,
		StepsGoal:         constants.DefaultStepsGoal,
		WaterGoalML:       constants.DefaultWaterGoalML,
		ActiveMinutesGoal: constants.DefaultActiveMinutesGoal,
	}
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
