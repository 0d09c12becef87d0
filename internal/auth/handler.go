// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
	"github.com/carterperez-dev/templates/booking-backend/internal/middleware"
	"github.com/carterperez-dev/templates/booking-backend/internal/otp"
	"github.com/carterperez-dev/templates/booking-backend/internal/session"
	"github.com/carterperez-dev/templates/booking-backend/internal/user"
)

type HandlerConfig struct {
	// ExposeOTP echoes freshly issued codes in signup and resend
	// responses. Never set in production.
	ExposeOTP    bool
	SecureCookie bool
}

type Handler struct {
	service   *Service
	validator *validator.Validate
	cfg       HandlerConfig
}

func NewHandler(service *Service, cfg HandlerConfig) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
		cfg:       cfg,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/verify-otp", h.VerifyOTP)
		r.Post("/resend-otp", h.ResendOTP)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/logout", h.Logout)
			r.Get("/sessions", h.GetSessions)
		})
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterInput
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Signup(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := SignupResponse{
		UserID:   result.User.ID,
		Username: result.User.Username,
	}
	if h.cfg.ExposeOTP && result.Code != nil {
		resp.OTP = result.Code.Code
	}

	core.Created(w, "Account created successfully! Please verify your email.", resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Identifier, req.Password, session.ClientMeta{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, result.Issued.Token, result.Issued.Session.ExpiresAt)
	core.OK(w, "Login successful!", toLoginResponse(result.User, result.Issued))
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.VerifyEmail(r.Context(), req.UserID, req.OTPCode); err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, "Email verified successfully!", nil)
}

func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req ResendOTPRequest
	if !h.decode(w, r, &req) {
		return
	}

	code, err := h.service.ResendEmailCode(r.Context(), req.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := ResendResponse{UserID: code.UserID, ExpiresAt: code.ExpiresAt}
	if h.cfg.ExposeOTP {
		resp.OTP = code.Code
	}

	core.OK(w, "Verification code sent", resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, "", time.Unix(0, 0))
	core.OK(w, "Logged out successfully", nil)
}

func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.Sessions(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, "Sessions retrieved", toSessionsResponse(sessions))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := core.DecodeJSON(r, dst); err != nil {
		core.BadRequest(w, "Invalid data")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if msg, ok := core.ValidationMessage(err); ok {
		core.BadRequest(w, msg)
		return
	}

	switch {
	case errors.Is(err, user.ErrIdentityTaken):
		core.Conflict(w, "Username, email, or phone already exists")
	case errors.Is(err, user.ErrInvalidCredentials):
		core.JSONError(w, core.InvalidCredentialsError("Invalid credentials"))
	case errors.Is(err, otp.ErrInvalidCode):
		core.JSONError(w, core.InvalidCredentialsError("Invalid or expired OTP"))
	default:
		core.InternalServerError(w, r, err)
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
