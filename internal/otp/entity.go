// AngelaMos | 2026
// entity.go

package otp

import (
	"time"
)

const (
	PurposeEmail = "email"
	PurposePhone = "phone"
)

// Code is a single-use verification credential. Rows are never deleted;
// a consumed code keeps Used set for audit.
type Code struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Code      string     `db:"code"`
	Purpose   string     `db:"purpose"`
	ExpiresAt time.Time  `db:"expires_at"`
	Used      bool       `db:"used"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (c *Code) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

func ValidPurpose(purpose string) bool {
	return purpose == PurposeEmail || purpose == PurposePhone
}
