// AngelaMos | 2026
// service.go

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

const (
	maxUserAgentLength = 512
	maxIPLength        = 45
)

type Service struct {
	repo Repository
	ttl  time.Duration
}

func NewService(repo Repository, ttl time.Duration) *Service {
	return &Service{repo: repo, ttl: ttl}
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	meta ClientMeta,
) (*Issued, error) {
	token, err := core.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	session := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: core.HashToken(token),
		ExpiresAt: time.Now().Add(s.ttl),
		IPAddress: truncate(meta.IPAddress, maxIPLength),
		UserAgent: truncate(meta.UserAgent, maxUserAgentLength),
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &Issued{Token: token, Session: session}, nil
}

// Resolve satisfies middleware.SessionResolver. Unknown, expired, revoked
// and empty tokens all yield core.ErrUnauthorized.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("resolve session: %w", core.ErrUnauthorized)
	}

	userID, err := s.repo.FindLiveUserID(ctx, core.HashToken(token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", fmt.Errorf("resolve session: %w", core.ErrUnauthorized)
		}
		return "", fmt.Errorf("resolve session: %w", err)
	}

	return userID, nil
}

// DestroyAll revokes every live session of the user. Calling it with
// nothing to revoke is not an error.
func (s *Service) DestroyAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("destroy sessions: %w", err)
	}
	return n, nil
}

func (s *Service) ListActive(ctx context.Context, userID string) ([]Session, error) {
	return s.repo.ListActiveForUser(ctx, userID)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
