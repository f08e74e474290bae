package gamify

import "github.com/vigorfit/vigor/internal/constants"

// LevelFromXP maps a total XP value onto the level threshold table. It is a
// pure, monotonically non-decreasing step function; levels are never stored
// independently of the XP total, always recomputed, so the two cannot
// diverge.
func LevelFromXP(totalXP int) int {
	level := 1
	for i, threshold := range constants.LevelThresholds {
		if totalXP < threshold {
			break
		}
		level = i + 1
	}
	return level
}

// XPForNextLevel returns the XP floor of the next level, or -1 at the cap.
func XPForNextLevel(totalXP int) int {
	level := LevelFromXP(totalXP)
	if level >= len(constants.LevelThresholds) {
		return -1
	}
	return constants.LevelThresholds[level]
}
