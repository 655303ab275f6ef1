package gamification

import "math"

// BaseXP scores raw activity: 10 per post, 2 per comment, 5 per
// reaction received.
func BaseXP(stats UserStats) int {
	return stats.PostsCount*10 + stats.CommentsCount*2 + stats.ReactionsReceived*5
}

// TotalXP adds badge bonuses on top of the base score. Unknown badge ids
// are ignored so a stale profile entry never breaks the computation.
func TotalXP(stats UserStats, unlockedIDs []string) int {
	total := BaseXP(stats)
	for _, id := range unlockedIDs {
		if a, ok := ByID(id); ok {
			total += a.XPReward
		}
	}
	return total
}

// Level derives the tier from total XP via the inverse square-root
// curve. The division happens in floating point before the square root
// and the result is floored exactly once, which keeps the level
// boundaries exact at 100, 400, 900, 1600 and every other perfect
// square times 100.
func Level(totalXP int) int {
	return int(math.Sqrt(float64(totalXP)/100)) + 1
}

// XPForLevel is the total XP at which the given level starts.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * (level - 1) * 100
}

// XPForNextLevel is the total XP at which the next level starts.
func XPForNextLevel(level int) int {
	return level * level * 100
}
