package postgres

import (
	"database/sql"
	"fmt"
	"time"

	apperr "github.com/vigorfit/vigor/internal/errors"

	"github.com/vigorfit/vigor/internal/models"
)

func (s *Store) InsertChallenge(c models.Challenge) error {
	startsAt, endsAt := nullableTimes(c)

	_, err := s.db.Exec(`
		INSERT INTO challenges (id, user_id, name, target, current, is_active, is_completed,
			starts_at, ends_at, reward_xp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.UserID, c.Name, c.Target, c.Current, c.IsActive, c.IsCompleted,
		startsAt, endsAt, c.RewardXP, c.CreatedAt.Format(time.RFC3339))

	return classify(err)
}

func (s *Store) GetChallenge(id string) (models.Challenge, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, name, target, current, is_active, is_completed,
		       starts_at, ends_at, reward_xp, created_at
		FROM challenges WHERE id = $1`, id)

	return scanChallenge(row)
}

func (s *Store) ListChallenges(userID string) ([]models.Challenge, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, name, target, current, is_active, is_completed,
		       starts_at, ends_at, reward_xp, created_at
		FROM challenges WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}

	return challenges, classify(rows.Err())
}

func (s *Store) UpdateChallenge(c models.Challenge) error {
	startsAt, endsAt := nullableTimes(c)

	result, err := s.db.Exec(`
		UPDATE challenges SET current = $1, is_active = $2, is_completed = $3,
			starts_at = $4, ends_at = $5
		WHERE id = $6`,
		c.Current, c.IsActive, c.IsCompleted, startsAt, endsAt, c.ID)
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

func nullableTimes(c models.Challenge) (sql.NullString, sql.NullString) {
	var startsAt, endsAt sql.NullString
	if c.StartsAt != nil {
		startsAt = sql.NullString{String: c.StartsAt.Format(time.RFC3339), Valid: true}
	}
	if c.EndsAt != nil {
		endsAt = sql.NullString{String: c.EndsAt.Format(time.RFC3339), Valid: true}
	}
	return startsAt, endsAt
}

func scanChallenge(row rowScanner) (models.Challenge, error) {
	var c models.Challenge
	var startsAt, endsAt sql.NullString
	var createdAt string

	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Target, &c.Current, &c.IsActive,
		&c.IsCompleted, &startsAt, &endsAt, &c.RewardXP, &createdAt)
	if err != nil {
		return models.Challenge{}, classify(err)
	}

	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Challenge{}, fmt.Errorf("failed to parse created_at for challenge %s: %w", c.ID, err)
	}
	if startsAt.Valid {
		t, err := time.Parse(time.RFC3339, startsAt.String)
		if err != nil {
			return models.Challenge{}, fmt.Errorf("failed to parse starts_at for challenge %s: %w", c.ID, err)
		}
		c.StartsAt = &t
	}
	if endsAt.Valid {
		t, err := time.Parse(time.RFC3339, endsAt.String)
		if err != nil {
			return models.Challenge{}, fmt.Errorf("failed to parse ends_at for challenge %s: %w", c.ID, err)
		}
		c.EndsAt = &t
	}

	return c, nil
}
