// Package remotetest provides an in-memory remote.Store implementation for
// service tests, with the same conflict semantics as the postgres accessor:
// duplicate badges, duplicate pending friend requests, and duplicate habit
// logs report ErrConflict; missing rows report ErrNotFound.
package remotetest

import (
	"sync"
	"time"

	apperr "github.com/vigorfit/vigor/internal/errors"

	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/models"
)

type Store struct {
	mu sync.Mutex

	Progress     map[string]models.DailyProgress    // user|day
	Gamification map[string]models.GamificationState // user
	Transactions []models.XPTransaction
	Badges       map[string]models.Badge      // user|type
	Friendships  map[string]models.Friendship // id
	Habits       map[string]models.Habit      // id
	HabitLogs    map[string]models.HabitLog   // habit|day
	Challenges   map[string]models.Challenge  // id

	// Latency is applied before every operation to widen race windows.
	Latency time.Duration
	// FailNext, when set, fails the next operation and clears itself.
	FailNext error

	calls map[string]int
}

func New() *Store {
	return &Store{
		Progress:     make(map[string]models.DailyProgress),
		Gamification: make(map[string]models.GamificationState),
		Badges:       make(map[string]models.Badge),
		Friendships:  make(map[string]models.Friendship),
		Habits:       make(map[string]models.Habit),
		HabitLogs:    make(map[string]models.HabitLog),
		Challenges:   make(map[string]models.Challenge),
		calls:        make(map[string]int),
	}
}

// Calls reports how many times the named store method ran, failures
// included. Tests use it to pin down write amplification.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *Store) Init() error  { return nil }
func (s *Store) Load() error  { return nil }
func (s *Store) Close() error { return nil }

// enter simulates the network round-trip and injected failure, then locks.
// The returned func unlocks.
func (s *Store) enter(op string) (func(), error) {
	if s.Latency > 0 {
		time.Sleep(s.Latency)
	}
	s.mu.Lock()
	s.calls[op]++
	if err := s.FailNext; err != nil {
		s.FailNext = nil
		s.mu.Unlock()
		return func() {}, err
	}
	return s.mu.Unlock, nil
}

func (s *Store) GetDailyProgress(userID, day string) (models.DailyProgress, error) {
	unlock, err := s.enter("GetDailyProgress")
	if err != nil {
		return models.DailyProgress{}, err
	}
	defer unlock()

	p, ok := s.Progress[userID+"|"+day]
	if !ok {
		return models.DailyProgress{}, apperr.ErrNotFound
	}
	return p, nil
}

func (s *Store) UpsertDailyProgress(p models.DailyProgress) error {
	unlock, err := s.enter("UpsertDailyProgress")
	if err != nil {
		return err
	}
	defer unlock()

	s.Progress[p.UserID+"|"+p.Day] = p
	return nil
}

func (s *Store) GetGamification(userID string) (models.GamificationState, error) {
	unlock, err := s.enter("GetGamification")
	if err != nil {
		return models.GamificationState{}, err
	}
	defer unlock()

	g, ok := s.Gamification[userID]
	if !ok {
		return models.GamificationState{}, apperr.ErrNotFound
	}
	return g, nil
}

func (s *Store) UpsertGamification(g models.GamificationState) error {
	unlock, err := s.enter("UpsertGamification")
	if err != nil {
		return err
	}
	defer unlock()

	s.Gamification[g.UserID] = g
	return nil
}

func (s *Store) AppendXPTransaction(tx models.XPTransaction) error {
	unlock, err := s.enter("AppendXPTransaction")
	if err != nil {
		return err
	}
	defer unlock()

	s.Transactions = append(s.Transactions, tx)
	return nil
}

func (s *Store) GetXPTransactions(userID string) ([]models.XPTransaction, error) {
	unlock, err := s.enter("GetXPTransactions")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []models.XPTransaction
	for _, tx := range s.Transactions {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) GetBadges(userID string) ([]models.Badge, error) {
	unlock, err := s.enter("GetBadges")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []models.Badge
	for _, b := range s.Badges {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) InsertBadge(b models.Badge) error {
	unlock, err := s.enter("InsertBadge")
	if err != nil {
		return err
	}
	defer unlock()

	key := b.UserID + "|" + string(b.BadgeType)
	if _, exists := s.Badges[key]; exists {
		return apperr.ErrConflict
	}
	s.Badges[key] = b
	return nil
}

func (s *Store) InsertFriendRequest(f models.Friendship) error {
	unlock, err := s.enter("InsertFriendRequest")
	if err != nil {
		return err
	}
	defer unlock()

	for _, existing := range s.Friendships {
		if existing.SenderID == f.SenderID && existing.ReceiverID == f.ReceiverID &&
			existing.Status == constants.FriendPending {
			return apperr.ErrConflict
		}
	}
	s.Friendships[f.ID] = f
	return nil
}

func (s *Store) GetFriendship(id string) (models.Friendship, error) {
	unlock, err := s.enter("GetFriendship")
	if err != nil {
		return models.Friendship{}, err
	}
	defer unlock()

	f, ok := s.Friendships[id]
	if !ok {
		return models.Friendship{}, apperr.ErrNotFound
	}
	return f, nil
}

func (s *Store) UpdateFriendshipStatus(id string, from, to constants.FriendStatus, updatedAt string) error {
	unlock, err := s.enter("UpdateFriendshipStatus")
	if err != nil {
		return err
	}
	defer unlock()

	f, ok := s.Friendships[id]
	if !ok || f.Status != from {
		return apperr.ErrNotFound
	}
	f.Status = to
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		f.UpdatedAt = t
	}
	s.Friendships[id] = f
	return nil
}

func (s *Store) ListFriendships(userID string, status constants.FriendStatus) ([]models.Friendship, error) {
	unlock, err := s.enter("ListFriendships")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []models.Friendship
	for _, f := range s.Friendships {
		if f.Involves(userID) && f.Status == status {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *Store) InsertHabit(h models.Habit) error {
	unlock, err := s.enter("InsertHabit")
	if err != nil {
		return err
	}
	defer unlock()

	s.Habits[h.ID] = h
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	unlock, err := s.enter("GetHabit")
	if err != nil {
		return models.Habit{}, err
	}
	defer unlock()

	h, ok := s.Habits[id]
	if !ok {
		return models.Habit{}, apperr.ErrNotFound
	}
	return h, nil
}

func (s *Store) ListHabits(userID string) ([]models.Habit, error) {
	unlock, err := s.enter("ListHabits")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []models.Habit
	for _, h := range s.Habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) UpsertHabit(h models.Habit) error {
	unlock, err := s.enter("UpsertHabit")
	if err != nil {
		return err
	}
	defer unlock()

	s.Habits[h.ID] = h
	return nil
}

func (s *Store) InsertHabitLog(l models.HabitLog) error {
	unlock, err := s.enter("InsertHabitLog")
	if err != nil {
		return err
	}
	defer unlock()

	key := l.HabitID + "|" + l.Day
	if _, exists := s.HabitLogs[key]; exists {
		return apperr.ErrConflict
	}
	s.HabitLogs[key] = l
	return nil
}

func (s *Store) DeleteHabitLog(habitID, day string) error {
	unlock, err := s.enter("DeleteHabitLog")
	if err != nil {
		return err
	}
	defer unlock()

	key := habitID + "|" + day
	if _, exists := s.HabitLogs[key]; !exists {
		return apperr.ErrNotFound
	}
	delete(s.HabitLogs, key)
	return nil
}

func (s *Store) ListHabitLogs(habitID string) ([]models.HabitLog, error) {
	unlock, err := s.enter("ListHabitLogs")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []models.HabitLog
	for _, l := range s.HabitLogs {
		if l.HabitID == habitID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Store) InsertChallenge(c models.Challenge) error {
	unlock, err := s.enter("InsertChallenge")
	if err != nil {
		return err
	}
	defer unlock()

	s.Challenges[c.ID] = c
	return nil
}

func (s *Store) GetChallenge(id string) (models.Challenge, error) {
	unlock, err := s.enter("GetChallenge")
	if err != nil {
		return models.Challenge{}, err
	}
	defer unlock()

	c, ok := s.Challenges[id]
	if !ok {
		return models.Challenge{}, apperr.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListChallenges(userID string) ([]models.Challenge, error) {
	unlock, err := s.enter("ListChallenges")
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out []models.Challenge
	for _, c := range s.Challenges {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) UpdateChallenge(c models.Challenge) error {
	unlock, err := s.enter("UpdateChallenge")
	if err != nil {
		return err
	}
	defer unlock()

	if _, ok := s.Challenges[c.ID]; !ok {
		return apperr.ErrNotFound
	}
	s.Challenges[c.ID] = c
	return nil
}
