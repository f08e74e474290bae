package models

// DailyProgress is the per (user, calendar-day) counter record. A new record
// is created lazily on first read of a day with no existing row; previous
// days are never mutated again.
type DailyProgress struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	Day               string `json:"day"` // YYYY-MM-DD format
	Steps             int    `json:"steps"`
	WaterML           int    `json:"water_ml"`
	ActiveMinutes     int    `json:"active_minutes"`
	StepsGoal         int    `json:"steps_goal"`
	WaterGoalML       int    `json:"water_goal_ml"`
	ActiveMinutesGoal int    `json:"active_minutes_goal"`
}
