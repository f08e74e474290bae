package gamify

import (
	"testing"

	"github.com/vigorfit/vigor/internal/constants"
)

func TestLevelFromXPThresholds(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{500, 4},
		{999, 4},
		{1000, 5},
		{10000, 11},
		{999999, 11},
	}

	for _, tc := range cases {
		if got := LevelFromXP(tc.xp); got != tc.want {
			t.Errorf("LevelFromXP(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestLevelFromXPMonotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 12000; xp += 7 {
		level := LevelFromXP(xp)
		if level < prev {
			t.Fatalf("level decreased from %d to %d at xp=%d", prev, level, xp)
		}
		prev = level
	}
}

func TestLevelFromXPNegativeClampsToFirstLevel(t *testing.T) {
	if got := LevelFromXP(-10); got != 1 {
		t.Errorf("LevelFromXP(-10) = %d, want 1", got)
	}
}

func TestXPForNextLevel(t *testing.T) {
	if got := XPForNextLevel(0); got != constants.LevelThresholds[1] {
		t.Errorf("XPForNextLevel(0) = %d, want %d", got, constants.LevelThresholds[1])
	}
	if got := XPForNextLevel(10000); got != -1 {
		t.Errorf("XPForNextLevel at cap = %d, want -1", got)
	}
}
