package postgres

import (
	"fmt"
	"time"

	apperr "github.com/vigorfit/vigor/internal/errors"

	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/models"
)

// InsertFriendRequest relies on the partial unique index over pending edges:
// a second pending request for the same ordered pair maps to ErrConflict.
func (s *Store) InsertFriendRequest(f models.Friendship) error {
	_, err := s.db.Exec(`
		INSERT INTO friendships (id, sender_id, receiver_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.SenderID, f.ReceiverID, string(f.Status),
		f.CreatedAt.Format(time.RFC3339), f.UpdatedAt.Format(time.RFC3339))

	return classify(err)
}

func (s *Store) GetFriendship(id string) (models.Friendship, error) {
	row := s.db.QueryRow(`
		SELECT id, sender_id, receiver_id, status, created_at, updated_at
		FROM friendships WHERE id = $1`, id)

	return scanFriendship(row)
}

// UpdateFriendshipStatus is a conflict-aware conditional write: the UPDATE
// only matches while the edge still holds the expected current status, so a
// transition that another device already took reports ErrNotFound instead of
// silently double-applying.
func (s *Store) UpdateFriendshipStatus(id string, from, to constants.FriendStatus, updatedAt string) error {
	result, err := s.db.Exec(`
		UPDATE friendships SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`,
		string(to), updatedAt, id, string(from))
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

func (s *Store) ListFriendships(userID string, status constants.FriendStatus) ([]models.Friendship, error) {
	rows, err := s.db.Query(`
		SELECT id, sender_id, receiver_id, status, created_at, updated_at
		FROM friendships
		WHERE (sender_id = $1 OR receiver_id = $1) AND status = $2
		ORDER BY created_at`, userID, string(status))
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var edges []models.Friendship
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, f)
	}

	return edges, classify(rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFriendship(row rowScanner) (models.Friendship, error) {
	var f models.Friendship
	var createdAt, updatedAt string

	err := row.Scan(&f.ID, &f.SenderID, &f.ReceiverID, &f.Status, &createdAt, &updatedAt)
	if err != nil {
		return models.Friendship{}, classify(err)
	}

	f.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Friendship{}, fmt.Errorf("failed to parse created_at for friendship %s: %w", f.ID, err)
	}
	f.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.Friendship{}, fmt.Errorf("failed to parse updated_at for friendship %s: %w", f.ID, err)
	}

	return f, nil
}
