// AngelaMos | 2026
// service.go

package otp

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/booking-backend/internal/config"
	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

// ErrInvalidCode covers wrong, expired, already used and over-budget
// submissions alike.
var ErrInvalidCode = fmt.Errorf("invalid or expired code: %w", core.ErrUnauthorized)

// VerificationMarker flips a user's channel flag once a code is consumed.
type VerificationMarker interface {
	MarkVerified(ctx context.Context, userID, channel string) error
}

// TxBinder returns the code store and marker bound to one transaction.
type TxBinder func(tx core.DBTX) (Repository, VerificationMarker)

type Service struct {
	repo     Repository
	tx       core.Transactor
	bind     TxBinder
	throttle *Throttle
	ttl      time.Duration
	length   int
}

func NewService(
	repo Repository,
	tx core.Transactor,
	bind TxBinder,
	throttle *Throttle,
	cfg config.OTPConfig,
) *Service {
	return &Service{
		repo:     repo,
		tx:       tx,
		bind:     bind,
		throttle: throttle,
		ttl:      cfg.TTL,
		length:   cfg.Length,
	}
}

// Issue stores a fresh code. Earlier unused codes stay in place; only the
// newest one can ever be consumed.
func (s *Service) Issue(
	ctx context.Context,
	userID, purpose string,
) (_ *Code, err error) {
	ctx, span := core.StartSpan(ctx, "otp.issue",
		attribute.String("otp.purpose", purpose),
	)
	defer func() { core.EndSpan(span, err) }()

	if !ValidPurpose(purpose) {
		return nil, fmt.Errorf("issue code: unknown purpose %q: %w", purpose, core.ErrInvalidInput)
	}

	value, err := core.GenerateNumericCode(s.length)
	if err != nil {
		return nil, fmt.Errorf("issue code: %w", err)
	}

	code := &Code{
		ID:        uuid.New().String(),
		UserID:    userID,
		Code:      value,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.repo.Insert(ctx, code); err != nil {
		return nil, fmt.Errorf("issue code: %w", err)
	}

	s.throttle.Reset(ctx, userID, purpose)
	return code, nil
}

// Resend issues a new code unless a resend window for (user, purpose) is
// still open.
func (s *Service) Resend(ctx context.Context, userID, purpose string) (*Code, error) {
	if wait, ok := s.throttle.ReserveResend(ctx, userID, purpose); !ok {
		seconds := int(math.Ceil(wait.Seconds()))
		return nil, core.NewValidationError("", fmt.Sprintf(
			"Please wait %d seconds before requesting a new code",
			seconds,
		))
	}

	return s.Issue(ctx, userID, purpose)
}

// Validate consumes the submitted code and marks the matching channel
// verified in the same transaction.
func (s *Service) Validate(
	ctx context.Context,
	userID, purpose, code string,
) (err error) {
	ctx, span := core.StartSpan(ctx, "otp.validate",
		attribute.String("otp.purpose", purpose),
	)
	defer func() { core.EndSpan(span, err) }()

	if !ValidPurpose(purpose) {
		return fmt.Errorf("validate code: unknown purpose %q: %w", purpose, core.ErrInvalidInput)
	}

	if !s.throttle.Attempt(ctx, userID, purpose) {
		core.AddSpanEvent(ctx, "otp.attempts_exhausted")
		return ErrInvalidCode
	}

	code = strings.TrimSpace(code)
	if len(code) != s.length || core.DigitsOnly(code) != code {
		return ErrInvalidCode
	}

	err = s.tx.WithinTx(ctx, func(tx core.DBTX) error {
		repo, marker := s.bind(tx)

		consumed, err := repo.Consume(ctx, userID, purpose, code)
		if err != nil {
			return err
		}
		if !consumed {
			return ErrInvalidCode
		}

		return marker.MarkVerified(ctx, userID, purpose)
	})
	if err != nil {
		return fmt.Errorf("validate code: %w", err)
	}

	s.throttle.Reset(ctx, userID, purpose)
	return nil
}
