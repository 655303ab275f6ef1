package gamification

// LockedAchievement is a catalog entry the user has not unlocked yet,
// annotated with how close they are.
type LockedAchievement struct {
	Achievement
	Progress int `json:"progress"`
}

// Profile is the derived gamification view for one user. Everything here
// is recomputed from the stats snapshot and the persisted badge ids.
type Profile struct {
	Level              int                 `json:"level"`
	TotalXP            int                 `json:"total_xp"`
	XPProgress         int                 `json:"xp_progress"`
	XPNeeded           int                 `json:"xp_needed"`
	XPForNextLevel     int                 `json:"xp_for_next_level"`
	UnlockedBadges     []Achievement       `json:"unlocked_badges"`
	LockedAchievements []LockedAchievement `json:"locked_achievements"`
	Stats              UserStats           `json:"stats"`
}

// BuildProfile derives the full view from a stats snapshot and the
// persisted badge id list. Unlocked badges follow catalog order
// regardless of unlock order; ids not present in the catalog are
// skipped.
func BuildProfile(stats UserStats, unlockedIDs []string) Profile {
	unlocked := make(map[string]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	totalXP := TotalXP(stats, unlockedIDs)
	level := Level(totalXP)
	xpForCurrent := XPForLevel(level)
	xpForNext := XPForNextLevel(level)

	profile := Profile{
		Level:              level,
		TotalXP:            totalXP,
		XPProgress:         totalXP - xpForCurrent,
		XPNeeded:           xpForNext - xpForCurrent,
		XPForNextLevel:     xpForNext,
		UnlockedBadges:     make([]Achievement, 0, len(unlockedIDs)),
		LockedAchievements: make([]LockedAchievement, 0, len(Catalog)),
		Stats:              stats,
	}

	for _, a := range Catalog {
		if unlocked[a.ID] {
			profile.UnlockedBadges = append(profile.UnlockedBadges, a)
			continue
		}
		profile.LockedAchievements = append(profile.LockedAchievements, LockedAchievement{
			Achievement: a,
			Progress:    a.Progress(stats),
		})
	}

	return profile
}
