// AngelaMos | 2026
// entity.go

package session

import (
	"time"
)

// Session is a stored login. Only the SHA-256 of the bearer token is
// persisted; the raw token exists once, in the login response.
type Session struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	IssuedAt  time.Time  `db:"issued_at"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
	IPAddress string     `db:"ip_address"`
	UserAgent string     `db:"user_agent"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked()
}

// ClientMeta is informational only and never used for authorization.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// Issued is the result of a login: the raw token plus its stored record.
type Issued struct {
	Token   string
	Session *Session
}
