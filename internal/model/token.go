package model

import "time"

// RefreshToken is the persisted record for one issued refresh token.
// The token string itself is an opaque 128-hex-char secret; it is never
// embedded in a JWT and never returned from the sessions listing.
type RefreshToken struct {
	ID        string     `json:"id"`
	Token     string     `json:"-"`
	UserID    string     `json:"user_id"`
	ExpiresAt time.Time  `json:"expires_at"`
	Revoked   bool       `json:"revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	UserAgent string     `json:"user_agent,omitempty"`
	IPAddress string     `json:"ip_address,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Session is the user-visible view of an active refresh token.
type Session struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
