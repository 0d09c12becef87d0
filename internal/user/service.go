// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

const (
	phoneDigits       = 10
	minPasswordLength = 8
	// bcrypt only reads the first 72 bytes and refuses anything longer.
	maxPasswordBytes = 72
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", core.ErrUnauthorized)
	ErrIdentityTaken      = fmt.Errorf("username, email, or phone already exists: %w", core.ErrDuplicateKey)
)

type Service struct {
	repo      Repository
	hasher    *core.PasswordHasher
	validator *validator.Validate
}

func NewService(repo Repository, hasher *core.PasswordHasher) *Service {
	return &Service{
		repo:      repo,
		hasher:    hasher,
		validator: core.NewValidator(),
	}
}

// Register creates an unverified account. Input rules are checked in a
// fixed order so the first failing rule decides the message.
func (s *Service) Register(
	ctx context.Context,
	in RegisterInput,
) (_ *User, err error) {
	ctx, span := core.StartSpan(ctx, "user.register")
	defer func() { core.EndSpan(span, err) }()

	in = trimRegisterInput(in)

	if in.Name == "" || in.Username == "" || in.Email == "" ||
		in.Phone == "" || in.DateOfBirth == "" || in.Password == "" {
		return nil, core.NewValidationError("", "All fields are required")
	}

	if in.Password != in.ConfirmPassword {
		return nil, core.NewValidationError("confirm_password", "Passwords do not match")
	}

	if len(in.Password) < minPasswordLength {
		return nil, core.NewValidationError(
			"password",
			"Password must be at least 8 characters",
		)
	}

	if len(in.Password) > maxPasswordBytes {
		return nil, core.NewValidationError(
			"password",
			"Password must be at most 72 bytes",
		)
	}

	if s.validator.Var(in.Email, "email") != nil {
		return nil, core.NewValidationError("email", "Invalid email address")
	}

	phone, ok := normalizePhone(in.Phone)
	if !ok {
		return nil, core.NewValidationError("phone", "Phone number must be 10 digits")
	}

	dob, err := parseDateOfBirth(in.DateOfBirth)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)

	exists, err := s.repo.ExistsByIdentity(ctx, in.Username, email, phone)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, ErrIdentityTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		FullName:     in.Name,
		DateOfBirth:  dob,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrIdentityTaken
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return user, nil
}

// Authenticate never reveals whether the identifier exists. Both failure
// paths return ErrInvalidCredentials after one bcrypt comparison.
func (s *Service) Authenticate(
	ctx context.Context,
	identifier, password string,
) (_ *User, err error) {
	ctx, span := core.StartSpan(ctx, "user.authenticate")
	defer func() { core.EndSpan(span, err) }()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, core.NewValidationError("", "All fields are required")
	}

	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing parity with the existing-account path
			_, _, _ = s.hasher.VerifyTimingSafe(password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	valid, newHash, err := s.hasher.VerifyTimingSafe(password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.repo.UpdatePassword(ctx, user.ID, newHash)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	return user, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get profile: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile applies the supplied fields. A supplied field may not be
// blank, and a new phone number clears phone verification.
func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update profile: %w", core.ErrUnauthorized)
	}

	if req.FullName == nil && req.Phone == nil && req.DateOfBirth == nil {
		return nil, core.NewValidationError("", "No fields to update")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, core.NewValidationError("full_name", "Full name cannot be empty")
		}
		user.FullName = name
	}

	if req.Phone != nil {
		phone, ok := normalizePhone(*req.Phone)
		if !ok {
			return nil, core.NewValidationError("phone", "Phone number must be 10 digits")
		}
		user.Phone = phone
	}

	if req.DateOfBirth != nil {
		dob, err := parseDateOfBirth(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = dob
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func trimRegisterInput(in RegisterInput) RegisterInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	return in
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePhone(raw string) (string, bool) {
	digits := core.DigitsOnly(raw)
	return digits, len(digits) == phoneDigits
}

func parseDateOfBirth(raw string) (time.Time, error) {
	dob, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil || dob.After(time.Now()) {
		return time.Time{}, core.NewValidationError("dob", "Invalid date of birth")
	}
	return dob, nil
}
