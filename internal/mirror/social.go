package mirror

import (
	"fmt"
	"time"

	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/models"
)

func (s *Store) ListFriendships(userID string, status constants.FriendStatus) ([]models.Friendship, error) {
	rows, err := s.db.Query(`
		SELECT id, sender_id, receiver_id, status, created_at, updated_at
		FROM friendships
		WHERE (sender_id = ? OR receiver_id = ?) AND status = ?
		ORDER BY created_at`, userID, userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []models.Friendship
	for rows.Next() {
		var f models.Friendship
		var createdAt, updatedAt string

		err := rows.Scan(&f.ID, &f.SenderID, &f.ReceiverID, &f.Status, &createdAt, &updatedAt)
		if err != nil {
			return nil, err
		}

		f.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for friendship %s: %w", f.ID, err)
		}
		f.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at for friendship %s: %w", f.ID, err)
		}

		edges = append(edges, f)
	}

	return edges, rows.Err()
}

// ReplaceFriendships overwrites all cached edges involving userID with
// fresh remote truth.
func (s *Store) ReplaceFriendships(userID string, edges []models.Friendship) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		"DELETE FROM friendships WHERE sender_id = ? OR receiver_id = ?",
		userID, userID); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, f := range edges {
		if _, err := tx.Exec(`
			INSERT INTO friendships (id, sender_id, receiver_id, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			f.ID, f.SenderID, f.ReceiverID, string(f.Status),
			f.CreatedAt.Format(time.RFC3339), f.UpdatedAt.Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
