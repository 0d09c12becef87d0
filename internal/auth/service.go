// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
	"github.com/carterperez-dev/templates/booking-backend/internal/otp"
	"github.com/carterperez-dev/templates/booking-backend/internal/session"
	"github.com/carterperez-dev/templates/booking-backend/internal/user"
)

var (
	ErrInvalidRequest    = core.NewValidationError("", "Invalid data")
	ErrResendUnavailable = core.NewValidationError("", "Unable to resend code")
)

type Credentials interface {
	Register(ctx context.Context, in user.RegisterInput) (*user.User, error)
	Authenticate(ctx context.Context, identifier, password string) (*user.User, error)
	GetProfile(ctx context.Context, userID string) (*user.User, error)
}

type Verifier interface {
	Issue(ctx context.Context, userID, purpose string) (*otp.Code, error)
	Resend(ctx context.Context, userID, purpose string) (*otp.Code, error)
	Validate(ctx context.Context, userID, purpose, code string) error
}

type Sessions interface {
	Create(ctx context.Context, userID string, meta session.ClientMeta) (*session.Issued, error)
	DestroyAll(ctx context.Context, userID string) (int64, error)
	ListActive(ctx context.Context, userID string) ([]session.Session, error)
}

type Activity interface {
	Log(ctx context.Context, userID, action, detail string)
}

// Service strings the identity components together: signup issues an
// email code, verification consumes it, login opens a session and logout
// closes all of them.
type Service struct {
	users    Credentials
	codes    Verifier
	sessions Sessions
	activity Activity
}

func NewService(
	users Credentials,
	codes Verifier,
	sessions Sessions,
	activity Activity,
) *Service {
	return &Service{
		users:    users,
		codes:    codes,
		sessions: sessions,
		activity: activity,
	}
}

type SignupResult struct {
	User *user.User
	Code *otp.Code
}

// Signup creates the account and then issues the first email code. The
// code is issued outside the account insert; when issuing fails the
// account stands and Code is nil, and resend covers the gap.
func (s *Service) Signup(
	ctx context.Context,
	in user.RegisterInput,
) (_ *SignupResult, err error) {
	ctx, span := core.StartSpan(ctx, "auth.signup")
	defer func() { core.EndSpan(span, err) }()

	u, err := s.users.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	result := &SignupResult{User: u}

	code, err := s.codes.Issue(ctx, u.ID, otp.PurposeEmail)
	if err != nil {
		slog.ErrorContext(ctx, "issue signup code",
			"user_id", u.ID,
			"error", err,
		)
	} else {
		result.Code = code
	}

	s.activity.Log(ctx, u.ID, "signup", "New account created")

	span.SetAttributes(attribute.String("user.id", u.ID))
	return result, nil
}

type LoginResult struct {
	User   *user.User
	Issued *session.Issued
}

func (s *Service) Login(
	ctx context.Context,
	identifier, password string,
	meta session.ClientMeta,
) (_ *LoginResult, err error) {
	ctx, span := core.StartSpan(ctx, "auth.login")
	defer func() { core.EndSpan(span, err) }()

	u, err := s.users.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	issued, err := s.sessions.Create(ctx, u.ID, meta)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.activity.Log(ctx, u.ID, "login", "User logged in")

	return &LoginResult{User: u, Issued: issued}, nil
}

// VerifyEmail consumes an email code for userID. Malformed ids and blank
// codes are rejected before the store is touched.
func (s *Service) VerifyEmail(
	ctx context.Context,
	userID, code string,
) (err error) {
	ctx, span := core.StartSpan(ctx, "auth.verify_email")
	defer func() { core.EndSpan(span, err) }()

	userID = strings.TrimSpace(userID)
	code = strings.TrimSpace(code)

	if uuid.Validate(userID) != nil || code == "" {
		return ErrInvalidRequest
	}

	if err := s.codes.Validate(ctx, userID, otp.PurposeEmail, code); err != nil {
		return err
	}

	s.activity.Log(ctx, userID, "email_verified", "Email address verified")
	return nil
}

// ResendEmailCode answers unknown and already verified accounts with the
// same error so the endpoint does not reveal which ids exist.
func (s *Service) ResendEmailCode(ctx context.Context, userID string) (*otp.Code, error) {
	userID = strings.TrimSpace(userID)
	if uuid.Validate(userID) != nil {
		return nil, ErrInvalidRequest
	}

	u, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrResendUnavailable
		}
		return nil, fmt.Errorf("resend code: %w", err)
	}

	if u.EmailVerified {
		return nil, ErrResendUnavailable
	}

	return s.codes.Resend(ctx, userID, otp.PurposeEmail)
}

// Logout revokes every session of the caller, not just the one presented.
func (s *Service) Logout(ctx context.Context, userID string) error {
	n, err := s.sessions.DestroyAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.activity.Log(ctx, userID, "logout", fmt.Sprintf("User logged out (%d sessions)", n))
	return nil
}

func (s *Service) Sessions(ctx context.Context, userID string) ([]session.Session, error) {
	return s.sessions.ListActive(ctx, userID)
}
