package model

import "time"

// RefreshToken holds the data for a refresh token in the database. The raw
// token string is only ever returned to the client; the database keeps a
// SHA-256 hash of it.
type RefreshToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
