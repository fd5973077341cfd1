package models

import "time"

// RefreshToken is a single-use token that can be exchanged for a new
// access/refresh pair until Expires.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// ExpiredAt reports whether the token can no longer be redeemed at now.
func (t *RefreshToken) ExpiredAt(now time.Time) bool {
	return !now.Before(t.Expires)
}
