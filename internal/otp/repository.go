// AngelaMos | 2026
// repository.go

package otp

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

type Repository interface {
	Insert(ctx context.Context, code *Code) error
	Consume(ctx context.Context, userID, purpose, code string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, code *Code) error {
	query := `
		INSERT INTO one_time_codes (id, user_id, code, purpose, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &code.CreatedAt, query,
		code.ID,
		code.UserID,
		code.Code,
		code.Purpose,
		code.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert one-time code: %w", err)
	}

	return nil
}

// Consume marks the newest live code for (user, purpose) used, but only
// when it equals code. The row lock in the subquery serializes concurrent
// submissions so at most one of them sees a row affected.
func (r *repository) Consume(
	ctx context.Context,
	userID, purpose, code string,
) (bool, error) {
	query := `
		UPDATE one_time_codes
		SET used = TRUE, used_at = NOW()
		WHERE id = (
			SELECT id FROM one_time_codes
			WHERE user_id = $1
			  AND purpose = $2
			  AND used = FALSE
			  AND expires_at > NOW()
			ORDER BY created_at DESC, id DESC
			LIMIT 1
			FOR UPDATE
		)
		AND code = $3`

	result, err := r.db.ExecContext(ctx, query, userID, purpose, code)
	if err != nil {
		return false, fmt.Errorf("consume one-time code: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consume one-time code: %w", err)
	}

	return rows == 1, nil
}
