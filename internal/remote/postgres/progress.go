package postgres

import (
	"github.com/vigorfit/vigor/internal/models"
)

func (s *Store) GetDailyProgress(userID, day string) (models.DailyProgress, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, day, steps, water_ml, active_minutes,
		       steps_goal, water_goal_ml, active_minutes_goal
		FROM daily_progress WHERE user_id = $1 AND day = $2`, userID, day)

	var p models.DailyProgress
	err := row.Scan(&p.ID, &p.UserID, &p.Day, &p.Steps, &p.WaterML, &p.ActiveMinutes,
		&p.StepsGoal, &p.WaterGoalML, &p.ActiveMinutesGoal)
	if err != nil {
		return models.DailyProgress{}, classify(err)
	}

	return p, nil
}

func (s *Store) UpsertDailyProgress(p models.DailyProgress) error {
	_, err := s.db.Exec(`
		INSERT INTO daily_progress (id, user_id, day, steps, water_ml, active_minutes,
			steps_goal, water_goal_ml, active_minutes_goal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, day) DO UPDATE SET
			steps = excluded.steps,
			water_ml = excluded.water_ml,
			active_minutes = excluded.active_minutes,
			steps_goal = excluded.steps_goal,
			water_goal_ml = excluded.water_goal_ml,
			active_minutes_goal = excluded.active_minutes_goal`,
		p.ID, p.UserID, p.Day, p.Steps, p.WaterML, p.ActiveMinutes,
		p.StepsGoal, p.WaterGoalML, p.ActiveMinutesGoal)

	return classify(err)
}
