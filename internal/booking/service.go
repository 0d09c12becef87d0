// AngelaMos | 2026
// service.go

package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

var ErrNotCancellable = fmt.Errorf("booking cannot be cancelled: %w", core.ErrInvalidState)

// Activity is the best-effort audit and notification sink.
type Activity interface {
	Log(ctx context.Context, userID, action, detail string)
	Notify(ctx context.Context, userID, title, message, category string)
}

type Service struct {
	repo     Repository
	activity Activity
}

func NewService(repo Repository, activity Activity) *Service {
	return &Service{repo: repo, activity: activity}
}

func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateRequest,
) (_ *Booking, err error) {
	ctx, span := core.StartSpan(ctx, "booking.create",
		attribute.String("booking.type", req.BookingType),
	)
	defer func() { core.EndSpan(span, err) }()

	bookingType := Type(strings.TrimSpace(req.BookingType))
	data, hasData := NormalizePayload(req.BookingData)

	if bookingType == "" || !hasData {
		return nil, core.NewValidationError("", "Booking type and data are required")
	}

	if !bookingType.Valid() {
		return nil, core.NewValidationError("booking_type", "Invalid booking type")
	}

	booking := &Booking{
		ID:            uuid.New().String(),
		UserID:        userID,
		Type:          bookingType,
		Data:          data,
		TotalAmount:   float64(req.TotalAmount),
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.activity.Log(ctx, userID, "booking_created",
		fmt.Sprintf("Created %s booking #%s", booking.Type, booking.ID))
	s.activity.Notify(ctx, userID,
		"Booking Created",
		"Your booking has been created successfully!",
		"success",
	)

	return booking, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get treats another user's booking exactly like a missing one.
func (s *Service) Get(ctx context.Context, userID, bookingID string) (*Booking, error) {
	return s.repo.GetForUser(ctx, bookingID, userID)
}

// UpdateStatus is a flat override: any valid status may follow any other.
func (s *Service) UpdateStatus(
	ctx context.Context,
	userID, bookingID, status string,
) (_ *Booking, err error) {
	ctx, span := core.StartSpan(ctx, "booking.update_status",
		attribute.String("booking.id", bookingID),
	)
	defer func() { core.EndSpan(span, err) }()

	status = strings.TrimSpace(status)
	if status == "" {
		return nil, core.NewValidationError("status", "Invalid data")
	}

	next := Status(status)
	if !next.Valid() {
		return nil, core.NewValidationError("status", "Invalid status")
	}

	booking, err := s.repo.UpdateStatus(ctx, bookingID, userID, next)
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, userID, "booking_updated",
		fmt.Sprintf("Updated booking #%s to %s", bookingID, next))

	return booking, nil
}

// Cancel only leaves pending or confirmed. A zero-row update is resolved
// by re-reading under the owner predicate.
func (s *Service) Cancel(ctx context.Context, userID, bookingID string) (err error) {
	ctx, span := core.StartSpan(ctx, "booking.cancel",
		attribute.String("booking.id", bookingID),
	)
	defer func() { core.EndSpan(span, err) }()

	cancelled, err := s.repo.Cancel(ctx, bookingID, userID)
	if err != nil {
		return err
	}

	if !cancelled {
		current, err := s.repo.GetForUser(ctx, bookingID, userID)
		if err != nil {
			return err
		}
		core.AddSpanEvent(ctx, "booking.cancel_rejected",
			attribute.String("booking.status", string(current.Status)),
		)
		return ErrNotCancellable
	}

	s.activity.Log(ctx, userID, "booking_cancelled",
		fmt.Sprintf("Cancelled booking #%s", bookingID))

	return nil
}

// Delete removes an owned booking regardless of status.
func (s *Service) Delete(ctx context.Context, userID, bookingID string) (err error) {
	ctx, span := core.StartSpan(ctx, "booking.delete",
		attribute.String("booking.id", bookingID),
	)
	defer func() { core.EndSpan(span, err) }()

	if err := s.repo.Delete(ctx, bookingID, userID); err != nil {
		return err
	}

	s.activity.Log(ctx, userID, "booking_deleted",
		fmt.Sprintf("Deleted booking #%s", bookingID))

	return nil
}

func (s *Service) Statistics(ctx context.Context, userID string) (*Statistics, error) {
	return s.repo.Statistics(ctx, userID)
}
