// Package leveling holds the XP arithmetic for the chat gamification.
// Levels are never stored incrementally, they are always recomputed from the
// XP total, so any stored level self-heals on the next XP mutation.
package leveling

const xpPerLevel = 100

// Level derives a user's level from their XP total.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/xpPerLevel + 1
}

// Apply adds a delta to an XP total, clamping at zero, and returns the new
// total with its derived level.
func Apply(xp int, delta int) (int, int) {
	newXp := xp + delta
	if newXp < 0 {
		newXp = 0
	}
	return newXp, Level(newXp)
}
