package event

type Type string

const (
	TypeTokenReuse      Type = "security.token_reuse"
	TypeSessionsRevoked Type = "security.sessions_revoked"
	TypeUserLoggedIn    Type = "auth.logged_in"
	TypeBadgesAwarded   Type = "gamification.badges_awarded"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	ActorID   string      `json:"actor_id,omitempty"` // Who triggered the event
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
