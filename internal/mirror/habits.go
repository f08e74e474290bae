package mirror

import (
	"fmt"
	"time"

	"github.com/vigorfit/vigor/internal/models"
)

func (s *Store) ListHabits(userID string) ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, streak_current, streak_best, total_completions, created_at
		FROM habits WHERE user_id = ?
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		var createdAt string

		err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.StreakCurrent, &h.StreakBest,
			&h.TotalCompletions, &createdAt)
		if err != nil {
			return nil, err
		}

		h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
		}

		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (s *Store) UpsertHabit(h models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (id, user_id, name, streak_current, streak_best, total_completions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			streak_current = excluded.streak_current,
			streak_best = excluded.streak_best,
			total_completions = excluded.total_completions`,
		h.ID, h.UserID, h.Name, h.StreakCurrent, h.StreakBest, h.TotalCompletions,
		h.CreatedAt.Format(time.RFC3339))

	return err
}

func (s *Store) ListHabitLogs(habitID string) ([]models.HabitLog, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, day, completed_at
		FROM habit_logs WHERE habit_id = ?
		ORDER BY day`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.HabitLog
	for rows.Next() {
		var l models.HabitLog
		var completedAt string

		err := rows.Scan(&l.ID, &l.HabitID, &l.Day, &completedAt)
		if err != nil {
			return nil, err
		}

		l.CompletedAt, err = time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completed_at for log %s: %w", l.ID, err)
		}

		logs = append(logs, l)
	}

	return logs, rows.Err()
}

func (s *Store) InsertHabitLog(l models.HabitLog) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_logs (id, habit_id, day, completed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO NOTHING`,
		l.ID, l.HabitID, l.Day, l.CompletedAt.Format(time.RFC3339))

	return err
}

func (s *Store) DeleteHabitLog(habitID, day string) error {
	_, err := s.db.Exec(`
		DELETE FROM habit_logs WHERE habit_id = ? AND day = ?`, habitID, day)
	return err
}

// ReplaceHabits overwrites the cached habit list with fresh remote truth.
func (s *Store) ReplaceHabits(userID string, habits []models.Habit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM habits WHERE user_id = ?", userID); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, h := range habits {
		if _, err := tx.Exec(`
			INSERT INTO habits (id, user_id, name, streak_current, streak_best, total_completions, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			h.ID, h.UserID, h.Name, h.StreakCurrent, h.StreakBest, h.TotalCompletions,
			h.CreatedAt.Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
