// AngelaMos | 2026
// repository.go

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, session *Session) error
	FindLiveUserID(ctx context.Context, tokenHash string) (string, error)
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)
	ListActiveForUser(ctx context.Context, userID string) ([]Session, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (
			id, user_id, token_hash, expires_at, ip_address, user_agent
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING issued_at`

	err := r.db.GetContext(ctx, &session.IssuedAt, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.ExpiresAt,
		session.IPAddress,
		session.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// FindLiveUserID evaluates expiry and revocation in the predicate, so an
// expired row is simply never matched.
func (r *repository) FindLiveUserID(
	ctx context.Context,
	tokenHash string,
) (string, error) {
	query := `
		SELECT user_id
		FROM sessions
		WHERE token_hash = $1
			AND revoked_at IS NULL
			AND expires_at > NOW()`

	var userID string
	err := r.db.GetContext(ctx, &userID, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("find session: %w", err)
	}

	return userID, nil
}

func (r *repository) RevokeAllForUser(
	ctx context.Context,
	userID string,
) (int64, error) {
	query := `
		UPDATE sessions
		SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke user sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("revoke user sessions: %w", err)
	}

	return rows, nil
}

func (r *repository) ListActiveForUser(
	ctx context.Context,
	userID string,
) ([]Session, error) {
	query := `
		SELECT
			id, user_id, token_hash, issued_at, expires_at, revoked_at,
			ip_address, user_agent
		FROM sessions
		WHERE user_id = $1
			AND revoked_at IS NULL
			AND expires_at > NOW()
		ORDER BY issued_at DESC`

	sessions := []Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}

	return sessions, nil
}
