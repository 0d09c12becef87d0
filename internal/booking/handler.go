// AngelaMos | 2026
// handler.go

package booking

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
	"github.com/carterperez-dev/templates/booking-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/bookings", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/statistics", h.Statistics)
		r.Get("/{bookingID}", h.Get)
		r.Patch("/{bookingID}/status", h.UpdateStatus)
		r.Post("/{bookingID}/cancel", h.Cancel)
		r.Delete("/{bookingID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "Invalid data")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	booking, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Created(w, "Booking created successfully!", CreatedResponse{
		BookingID:   booking.ID,
		BookingType: booking.Type,
		Status:      booking.Status,
		TotalAmount: booking.TotalAmount,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	bookings, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, "Bookings retrieved", ToListResponse(bookings))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	booking, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()), bookingID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, "Booking details retrieved", ToBookingResponse(booking))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "Invalid data")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	booking, err := h.service.UpdateStatus(
		r.Context(),
		middleware.GetUserID(r.Context()),
		bookingID,
		req.Status,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, "Booking status updated", StatusResponse{Status: booking.Status})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	err := h.service.Cancel(r.Context(), middleware.GetUserID(r.Context()), bookingID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, "Booking cancelled successfully", StatusResponse{Status: StatusCancelled})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), bookingID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, "Booking deleted successfully", nil)
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, "Statistics retrieved", stats)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if msg, ok := core.ValidationMessage(err); ok {
		core.BadRequest(w, msg)
		return
	}

	switch {
	case errors.Is(err, ErrNotCancellable):
		core.JSONError(w, core.InvalidStateError("This booking cannot be cancelled"))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "Booking")
	default:
		core.InternalServerError(w, r, err)
	}
}

func bookingIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "bookingID")
	if err := uuid.Validate(id); err != nil {
		core.BadRequest(w, "Invalid booking ID")
		return "", false
	}
	return id, true
}
