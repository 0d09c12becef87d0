// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

const DateLayout = "2006-01-02"

const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

type User struct {
	ID            string    `db:"id"`
	Username      string    `db:"username"`
	Email         string    `db:"email"`
	Phone         string    `db:"phone"`
	PasswordHash  string    `db:"password_hash"`
	FullName      string    `db:"full_name"`
	DateOfBirth   time.Time `db:"date_of_birth"`
	EmailVerified bool      `db:"email_verified"`
	PhoneVerified bool      `db:"phone_verified"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (u *User) IsVerified(channel string) bool {
	switch channel {
	case ChannelEmail:
		return u.EmailVerified
	case ChannelPhone:
		return u.PhoneVerified
	default:
		return false
	}
}
