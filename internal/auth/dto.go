// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/carterperez-dev/templates/booking-backend/internal/session"
	"github.com/carterperez-dev/templates/booking-backend/internal/user"
)

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"max=255"`
	Password   string `json:"password"   validate:"max=128"`
}

type VerifyOTPRequest struct {
	UserID  string `json:"user_id"  validate:"max=64"`
	OTPCode string `json:"otp_code" validate:"max=16"`
}

type ResendOTPRequest struct {
	UserID string `json:"user_id" validate:"max=64"`
}

type SignupResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	OTP      string `json:"otp,omitempty"`
}

type LoginResponse struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type ResendResponse struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	OTP       string    `json:"otp,omitempty"`
}

type SessionInfo struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

func toLoginResponse(u *user.User, issued *session.Issued) LoginResponse {
	return LoginResponse{
		UserID:       u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		SessionToken: issued.Token,
		ExpiresAt:    issued.Session.ExpiresAt,
	}
}

func toSessionsResponse(sessions []session.Session) SessionsResponse {
	out := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionInfo{
			ID:        s.ID,
			UserAgent: s.UserAgent,
			IPAddress: s.IPAddress,
			IssuedAt:  s.IssuedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}
	return SessionsResponse{Sessions: out}
}
