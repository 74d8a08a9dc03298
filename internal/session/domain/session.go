package domain

import "time"

// Session is one issued refresh token. The raw token is never stored;
// TokenHash is its SHA-256 digest and the unique lookup key. Sessions are
// never deleted: revocation sets RevokedAt, and rotation additionally links
// ReplacedByTokenID to the successor session of the same user, preserving the
// audit chain.
type Session struct {
	ID                string
	UserID            string
	TokenHash         string
	ExpiresAt         time.Time
	CreatedAt         time.Time
	RevokedAt         *time.Time // nil when not revoked
	ReplacedByTokenID string     // empty unless revoked by rotation
	DeviceInfo        string     // optional transport metadata
	IPAddress         string     // optional transport metadata
}

// Valid reports whether the session is usable at the given instant:
// not revoked and not expired.
func (s *Session) Valid(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}
