package progress

import (
	"testing"

	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/models"
)

func day(steps, stepsGoal, water, waterGoal, active, activeGoal int) models.DailyProgress {
	return models.DailyProgress{
		Steps:             steps,
		StepsGoal:         stepsGoal,
		WaterML:           water,
		WaterGoalML:       waterGoal,
		ActiveMinutes:     active,
		ActiveMinutesGoal: activeGoal,
	}
}

func TestEmotionTiers(t *testing.T) {
	cases := []struct {
		name string
		p    models.DailyProgress
		want constants.Emotion
	}{
		{"all goals met", day(10000, 10000, 2000, 2000, 30, 30), constants.EmotionCelebrating},
		{"overshoot still celebrating", day(15000, 10000, 3000, 2000, 60, 30), constants.EmotionCelebrating},
		{"average at least 0.8", day(8000, 10000, 1600, 2000, 24, 30), constants.EmotionProud},
		{"average at least 0.5", day(5000, 10000, 1000, 2000, 15, 30), constants.EmotionHappy},
		{"average at least 0.3", day(3000, 10000, 600, 2000, 9, 30), constants.EmotionMotivated},
		{"nothing logged", day(0, 10000, 0, 2000, 0, 30), constants.EmotionNeutral},
		{"uneven metrics average out", day(10000, 10000, 0, 2000, 15, 30), constants.EmotionHappy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Emotion(tc.p); got != tc.want {
				t.Errorf("Emotion() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEmotionZeroGoals(t *testing.T) {
	// A zero goal must not divide by zero or count as met. A day with all
	// goals unset reads as neutral regardless of logged values.
	p := day(5000, 0, 1000, 0, 20, 0)
	if got := Emotion(p); got != constants.EmotionNeutral {
		t.Errorf("Emotion() with zero goals = %q, want %q", got, constants.EmotionNeutral)
	}
}

func TestEmotionPartialZeroGoal(t *testing.T) {
	// One unset goal contributes a zero ratio, dragging the average down
	// rather than being skipped.
	p := day(10000, 10000, 2000, 2000, 20, 0)
	if got := Emotion(p); got != constants.EmotionHappy {
		t.Errorf("Emotion() = %q, want %q", got, constants.EmotionHappy)
	}
}
