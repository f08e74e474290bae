package progress

import (
	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/models"
)

// Emotion buckets the day's overall goal completion into the mascot's
// reaction tiers. Each metric contributes its value/goal ratio; a zero goal
// contributes 0 rather than dividing by zero. The unweighted average is then
// matched against fixed thresholds.
func Emotion(p models.DailyProgress) constants.Emotion {
	avg := (ratio(p.WaterML, p.WaterGoalML) +
		ratio(p.Steps, p.StepsGoal) +
		ratio(p.ActiveMinutes, p.ActiveMinutesGoal)) / 3

	switch {
	case avg >= 1.0:
		return constants.EmotionCelebrating
	case avg >= 0.8:
		return constants.EmotionProud
	case avg >= 0.5:
		return constants.EmotionHappy
	case avg >= 0.3:
		return constants.EmotionMotivated
	default:
		return constants.EmotionNeutral
	}
}

func ratio(value, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return float64(value) / float64(goal)
}
