package postgres

import (
	"fmt"
	"time"

	"github.com/vigorfit/vigor/internal/models"
)

func (s *Store) GetGamification(userID string) (models.GamificationState, error) {
	row := s.db.QueryRow(`
		SELECT user_id, total_xp, current_level, daily_login_streak, last_login_date
		FROM gamification WHERE user_id = $1`, userID)

	var g models.GamificationState
	err := row.Scan(&g.UserID, &g.TotalXP, &g.CurrentLevel, &g.DailyLoginStreak, &g.LastLoginDate)
	if err != nil {
		return models.GamificationState{}, classify(err)
	}

	return g, nil
}

func (s *Store) UpsertGamification(g models.GamificationState) error {
	_, err := s.db.Exec(`
		INSERT INTO gamification (user_id, total_xp, current_level, daily_login_streak, last_login_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			total_xp = excluded.total_xp,
			current_level = excluded.current_level,
			daily_login_streak = excluded.daily_login_streak,
			last_login_date = excluded.last_login_date`,
		g.UserID, g.TotalXP, g.CurrentLevel, g.DailyLoginStreak, g.LastLoginDate)

	return classify(err)
}

func (s *Store) AppendXPTransaction(tx models.XPTransaction) error {
	_, err := s.db.Exec(`
		INSERT INTO xp_transactions (id, user_id, amount, source, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		tx.ID, tx.UserID, tx.Amount, string(tx.Source), tx.Description,
		tx.CreatedAt.Format(time.RFC3339))

	return classify(err)
}

func (s *Store) GetXPTransactions(userID string) ([]models.XPTransaction, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, amount, source, description, created_at
		FROM xp_transactions WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var txs []models.XPTransaction
	for rows.Next() {
		var tx models.XPTransaction
		var createdAt string

		err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Source, &tx.Description, &createdAt)
		if err != nil {
			return nil, classify(err)
		}

		tx.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for transaction %s: %w", tx.ID, err)
		}

		txs = append(txs, tx)
	}

	return txs, classify(rows.Err())
}

func (s *Store) GetBadges(userID string) ([]models.Badge, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, badge_type, awarded_at
		FROM badges WHERE user_id = $1
		ORDER BY awarded_at`, userID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var badges []models.Badge
	for rows.Next() {
		var b models.Badge
		var awardedAt string

		err := rows.Scan(&b.ID, &b.UserID, &b.BadgeType, &awardedAt)
		if err != nil {
			return nil, classify(err)
		}

		b.AwardedAt, err = time.Parse(time.RFC3339, awardedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse awarded_at for badge %s: %w", b.ID, err)
		}

		badges = append(badges, b)
	}

	return badges, classify(rows.Err())
}

// InsertBadge relies on the UNIQUE(user_id, badge_type) constraint as the
// second phase of duplicate-award prevention; classify maps the violation
// to ErrConflict.
func (s *Store) InsertBadge(b models.Badge) error {
	_, err := s.db.Exec(`
		INSERT INTO badges (id, user_id, badge_type, awarded_at)
		VALUES ($1, $2, $3, $4)`,
		b.ID, b.UserID, string(b.BadgeType), b.AwardedAt.Format(time.RFC3339))

	return classify(err)
}
