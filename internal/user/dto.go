// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

// RegisterInput carries the raw signup fields. Presence and format rules
// are enforced by Service.Register in a fixed order.
type RegisterInput struct {
	Name            string `json:"name"             validate:"max=100"`
	Username        string `json:"username"         validate:"max=50"`
	Email           string `json:"email"            validate:"max=255"`
	Phone           string `json:"phone"            validate:"max=32"`
	DateOfBirth     string `json:"dob"              validate:"max=10"`
	Password        string `json:"password"         validate:"max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"max=72"`
}

type UpdateProfileRequest struct {
	FullName    *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Phone       *string `json:"phone,omitempty"     validate:"omitempty,max=32"`
	DateOfBirth *string `json:"dob,omitempty"       validate:"omitempty,max=10"`
}

type ProfileResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	FullName      string    `json:"full_name"`
	DateOfBirth   string    `json:"dob"`
	EmailVerified bool      `json:"email_verified"`
	PhoneVerified bool      `json:"phone_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Phone:         u.Phone,
		FullName:      u.FullName,
		DateOfBirth:   u.DateOfBirth.Format(DateLayout),
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		CreatedAt:     u.CreatedAt,
	}
}
