package leveling_test

import (
	"testing"

	"promptclub-backend/internal/leveling"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name          string
		xp            int
		expectedLevel int
	}{
		{
			name:          "Zero XP is level 1",
			xp:            0,
			expectedLevel: 1,
		},
		{
			name:          "Just below a boundary",
			xp:            99,
			expectedLevel: 1,
		},
		{
			name:          "Exactly on a boundary",
			xp:            100,
			expectedLevel: 2,
		},
		{
			name:          "Mid range",
			xp:            550,
			expectedLevel: 6,
		},
		{
			name:          "Large total",
			xp:            99999,
			expectedLevel: 1000,
		},
		{
			name:          "Negative XP is treated as zero",
			xp:            -10,
			expectedLevel: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			level := leveling.Level(tc.xp)
			if level != tc.expectedLevel {
				t.Errorf("Level(%d) = %d, want %d", tc.xp, level, tc.expectedLevel)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name          string
		xp            int
		delta         int
		expectedXp    int
		expectedLevel int
	}{
		{
			name:          "Message reward crosses a level boundary",
			xp:            95,
			delta:         5,
			expectedXp:    100,
			expectedLevel: 2,
		},
		{
			name:          "Jackpot reward",
			xp:            10,
			delta:         50,
			expectedXp:    60,
			expectedLevel: 1,
		},
		{
			name:          "Zero delta changes nothing",
			xp:            250,
			delta:         0,
			expectedXp:    250,
			expectedLevel: 3,
		},
		{
			name:          "Negative delta clamps at zero",
			xp:            3,
			delta:         -10,
			expectedXp:    0,
			expectedLevel: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			xp, level := leveling.Apply(tc.xp, tc.delta)
			if xp != tc.expectedXp || level != tc.expectedLevel {
				t.Errorf("Apply(%d, %d) = (%d, %d), want (%d, %d)",
					tc.xp, tc.delta, xp, level, tc.expectedXp, tc.expectedLevel)
			}
		})
	}
}

func TestApplyInvariant(t *testing.T) {
	for xp := 0; xp <= 1000; xp += 7 {
		for _, delta := range []int{-50, -5, 0, 5, 10, 50} {
			newXp, level := leveling.Apply(xp, delta)
			if newXp < 0 {
				t.Fatalf("Apply(%d, %d) produced negative XP %d", xp, delta, newXp)
			}
			if level != newXp/100+1 {
				t.Fatalf("Apply(%d, %d): level %d breaks invariant for XP %d", xp, delta, level, newXp)
			}
		}
	}
}
