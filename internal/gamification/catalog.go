package gamification

// UserStats is a snapshot of a user's activity counters. It is derived
// from owned content on demand and never persisted directly.
type UserStats struct {
	PostsCount        int `json:"posts_count"`
	CommentsCount     int `json:"comments_count"`
	ReactionsReceived int `json:"reactions_received"`
}

// Achievement is one static catalog entry. The unlock condition is plain
// data (minimum counter values, all of which must be met) evaluated by
// Meets, which keeps the catalog serializable and the predicate logic
// testable on its own. Threshold fields are not part of the public JSON
// shape; only the display fields and the XP reward are.
type Achievement struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	XPReward     int    `json:"xp_reward"`
	MinPosts     int    `json:"-"`
	MinComments  int    `json:"-"`
	MinReactions int    `json:"-"`
}

// Meets reports whether stats satisfy every threshold of the achievement.
func (a Achievement) Meets(stats UserStats) bool {
	return stats.PostsCount >= a.MinPosts &&
		stats.CommentsCount >= a.MinComments &&
		stats.ReactionsReceived >= a.MinReactions
}

// Progress returns how far stats are toward unlocking the achievement as
// a 0-100 percentage. For multi-threshold achievements the lagging
// counter determines the percentage.
func (a Achievement) Progress(stats UserStats) int {
	pct := 100
	if a.MinPosts > 0 {
		pct = min(pct, stats.PostsCount*100/a.MinPosts)
	}
	if a.MinComments > 0 {
		pct = min(pct, stats.CommentsCount*100/a.MinComments)
	}
	if a.MinReactions > 0 {
		pct = min(pct, stats.ReactionsReceived*100/a.MinReactions)
	}
	return min(pct, 100)
}

// Catalog is the full achievement list in display order. IDs are unique
// and rewards are positive; unlocked badges reference these IDs and are
// never removed from a profile.
var Catalog = []Achievement{
	{ID: "first-post", Name: "First Post", Description: "Publish your first post", Icon: "pencil", XPReward: 10, MinPosts: 1},
	{ID: "posts-5", Name: "Regular Writer", Description: "Publish 5 posts", Icon: "notebook", XPReward: 25, MinPosts: 5},
	{ID: "posts-10", Name: "Dedicated Author", Description: "Publish 10 posts", Icon: "book", XPReward: 50, MinPosts: 10},
	{ID: "posts-25", Name: "Prolific Author", Description: "Publish 25 posts", Icon: "library", XPReward: 100, MinPosts: 25},
	{ID: "first-comment", Name: "First Comment", Description: "Leave your first comment", Icon: "message-circle", XPReward: 5, MinComments: 1},
	{ID: "comments-10", Name: "Conversationalist", Description: "Leave 10 comments", Icon: "messages-square", XPReward: 20, MinComments: 10},
	{ID: "comments-50", Name: "Discussion Leader", Description: "Leave 50 comments", Icon: "megaphone", XPReward: 75, MinComments: 50},
	{ID: "reactions-10", Name: "Appreciated", Description: "Receive 10 reactions", Icon: "heart", XPReward: 30, MinReactions: 10},
	{ID: "reactions-50", Name: "Community Favorite", Description: "Receive 50 reactions", Icon: "star", XPReward: 100, MinReactions: 50},
	{ID: "active-member", Name: "Active Member", Description: "Publish 5 posts and leave 10 comments", Icon: "users", XPReward: 50, MinPosts: 5, MinComments: 10},
	{ID: "community-pillar", Name: "Community Pillar", Description: "Publish 25 posts, leave 50 comments and receive 50 reactions", Icon: "landmark", XPReward: 250, MinPosts: 25, MinComments: 50, MinReactions: 50},
}

// Unlocked filters the catalog by stats, preserving catalog order.
func Unlocked(stats UserStats) []Achievement {
	out := make([]Achievement, 0, len(Catalog))
	for _, a := range Catalog {
		if a.Meets(stats) {
			out = append(out, a)
		}
	}
	return out
}

// ByID looks up a catalog entry.
func ByID(id string) (Achievement, bool) {
	for _, a := range Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
