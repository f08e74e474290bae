package postgres

import (
	"fmt"
	"time"

	apperr "github.com/vigorfit/vigor/internal/errors"

	"github.com/vigorfit/vigor/internal/models"
)

func (s *Store) InsertHabit(h models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (id, user_id, name, streak_current, streak_best, total_completions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID, h.UserID, h.Name, h.StreakCurrent, h.StreakBest, h.TotalCompletions,
		h.CreatedAt.Format(time.RFC3339))

	return classify(err)
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, name, streak_current, streak_best, total_completions, created_at
		FROM habits WHERE id = $1`, id)

	var h models.Habit
	var createdAt string

	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.StreakCurrent, &h.StreakBest,
		&h.TotalCompletions, &createdAt)
	if err != nil {
		return models.Habit{}, classify(err)
	}

	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return h, nil
}

func (s *Store) ListHabits(userID string) ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, streak_current, streak_best, total_completions, created_at
		FROM habits WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		var createdAt string

		err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.StreakCurrent, &h.StreakBest,
			&h.TotalCompletions, &createdAt)
		if err != nil {
			return nil, classify(err)
		}

		h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
		}

		habits = append(habits, h)
	}

	return habits, classify(rows.Err())
}

// UpsertHabit writes the recomputed streak counters back. The log is
// authoritative; this is the cache update.
func (s *Store) UpsertHabit(h models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (id, user_id, name, streak_current, streak_best, total_completions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			streak_current = excluded.streak_current,
			streak_best = excluded.streak_best,
			total_completions = excluded.total_completions`,
		h.ID, h.UserID, h.Name, h.StreakCurrent, h.StreakBest, h.TotalCompletions,
		h.CreatedAt.Format(time.RFC3339))

	return classify(err)
}

func (s *Store) InsertHabitLog(l models.HabitLog) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_logs (id, habit_id, day, completed_at)
		VALUES ($1, $2, $3, $4)`,
		l.ID, l.HabitID, l.Day, l.CompletedAt.Format(time.RFC3339))

	return classify(err)
}

func (s *Store) DeleteHabitLog(habitID, day string) error {
	result, err := s.db.Exec(`
		DELETE FROM habit_logs WHERE habit_id = $1 AND day = $2`, habitID, day)
	if err != nil {
		return classify(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if rows == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

func (s *Store) ListHabitLogs(habitID string) ([]models.HabitLog, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, day, completed_at
		FROM habit_logs WHERE habit_id = $1
		ORDER BY day`, habitID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var logs []models.HabitLog
	for rows.Next() {
		var l models.HabitLog
		var completedAt string

		err := rows.Scan(&l.ID, &l.HabitID, &l.Day, &completedAt)
		if err != nil {
			return nil, classify(err)
		}

		l.CompletedAt, err = time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completed_at for log %s: %w", l.ID, err)
		}

		logs = append(logs, l)
	}

	return logs, classify(rows.Err())
}
