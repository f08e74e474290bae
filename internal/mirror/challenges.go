package mirror

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vigorfit/vigor/internal/models"
)

func (s *Store) ListChallenges(userID string) ([]models.Challenge, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, target, current, is_active, is_completed,
		       starts_at, ends_at, reward_xp, created_at
		FROM challenges WHERE user_id = ?
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		var c models.Challenge
		var startsAt, endsAt sql.NullString
		var createdAt string

		err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Target, &c.Current, &c.IsActive,
			&c.IsCompleted, &startsAt, &endsAt, &c.RewardXP, &createdAt)
		if err != nil {
			return nil, err
		}

		c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for challenge %s: %w", c.ID, err)
		}
		if startsAt.Valid {
			t, err := time.Parse(time.RFC3339, startsAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse starts_at for challenge %s: %w", c.ID, err)
			}
			c.StartsAt = &t
		}
		if endsAt.Valid {
			t, err := time.Parse(time.RFC3339, endsAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse ends_at for challenge %s: %w", c.ID, err)
			}
			c.EndsAt = &t
		}

		challenges = append(challenges, c)
	}

	return challenges, rows.Err()
}

func (s *Store) UpsertChallenge(c models.Challenge) error {
	var startsAt, endsAt sql.NullString
	if c.StartsAt != nil {
		startsAt = sql.NullString{String: c.StartsAt.Format(time.RFC3339), Valid: true}
	}
	if c.EndsAt != nil {
		endsAt = sql.NullString{String: c.EndsAt.Format(time.RFC3339), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO challenges (id, user_id, name, target, current, is_active, is_completed,
			starts_at, ends_at, reward_xp, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current = excluded.current,
			is_active = excluded.is_active,
			is_completed = excluded.is_completed,
			starts_at = excluded.starts_at,
			ends_at = excluded.ends_at`,
		c.ID, c.UserID, c.Name, c.Target, c.Current, c.IsActive, c.IsCompleted,
		startsAt, endsAt, c.RewardXP, c.CreatedAt.Format(time.RFC3339))

	return err
}

// ReplaceChallenges overwrites the cached challenge list with fresh remote truth.
func (s *Store) ReplaceChallenges(userID string, challenges []models.Challenge) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM challenges WHERE user_id = ?", userID); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, c := range challenges {
		var startsAt, endsAt sql.NullString
		if c.StartsAt != nil {
			startsAt = sql.NullString{String: c.StartsAt.Format(time.RFC3339), Valid: true}
		}
		if c.EndsAt != nil {
			endsAt = sql.NullString{String: c.EndsAt.Format(time.RFC3339), Valid: true}
		}
		if _, err := tx.Exec(`
			INSERT INTO challenges (id, user_id, name, target, current, is_active, is_completed,
				starts_at, ends_at, reward_xp, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.UserID, c.Name, c.Target, c.Current, c.IsActive, c.IsCompleted,
			startsAt, endsAt, c.RewardXP, c.CreatedAt.Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
