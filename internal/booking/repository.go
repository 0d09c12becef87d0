// AngelaMos | 2026
// repository.go

package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

// Repository scopes every read and write by owner. No method touches a
// booking without user_id in its predicate.
type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	GetForUser(ctx context.Context, id, userID string) (*Booking, error)
	UpdateStatus(ctx context.Context, id, userID string, status Status) (*Booking, error)
	Cancel(ctx context.Context, id, userID string) (bool, error)
	Delete(ctx context.Context, id, userID string) error
	Statistics(ctx context.Context, userID string) (*Statistics, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const bookingColumns = `
	id, user_id, booking_type, booking_data, total_amount::float8 AS total_amount,
	status, payment_status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	query := `
		INSERT INTO bookings (
			id, user_id, booking_type, booking_data, total_amount,
			status, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, booking, query,
		booking.ID,
		booking.UserID,
		string(booking.Type),
		booking.Data,
		booking.TotalAmount,
		string(booking.Status),
		booking.PaymentStatus,
	)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return bookings, nil
}

func (r *repository) GetForUser(
	ctx context.Context,
	id, userID string,
) (*Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE id = $1 AND user_id = $2`

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get booking: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	return &booking, nil
}

// UpdateStatus overwrites status with no transition rule.
func (r *repository) UpdateStatus(
	ctx context.Context,
	id, userID string,
	status Status,
) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING` + bookingColumns

	var booking Booking
	err := r.db.GetContext(ctx, &booking, query, id, userID, string(status))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update booking status: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	return &booking, nil
}

// Cancel moves a pending or confirmed booking to cancelled in one
// statement. It reports false when no row qualified, which covers both a
// missing booking and a terminal one.
func (r *repository) Cancel(ctx context.Context, id, userID string) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status IN ($4, $5)`

	result, err := r.db.ExecContext(ctx, query,
		id,
		userID,
		string(StatusCancelled),
		string(StatusPending),
		string(StatusConfirmed),
	)
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}

	return rows == 1, nil
}

func (r *repository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM bookings WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete booking: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Statistics(ctx context.Context, userID string) (*Statistics, error) {
	query := `
		SELECT
			COUNT(*) AS total_bookings,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
			COALESCE(SUM(total_amount), 0)::float8 AS total_spent
		FROM bookings
		WHERE user_id = $1`

	var stats Statistics
	if err := r.db.GetContext(ctx, &stats, query, userID); err != nil {
		return nil, fmt.Errorf("booking statistics: %w", err)
	}

	return &stats, nil
}
