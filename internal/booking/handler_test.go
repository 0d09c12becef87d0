// AngelaMos | 2026
// handler_test.go

package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
	"github.com/carterperez-dev/templates/booking-backend/internal/middleware"
)

type stubResolver map[string]string

func (s stubResolver) Resolve(_ context.Context, token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", core.ErrUnauthorized
}

func newTestRouter(t *testing.T) (*chi.Mux, *Service) {
	t.Helper()

	svc, _, _ := newTestService()
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(stubResolver{
		"alice-token": "user-1",
		"bob-token":   "user-2",
	}))
	return r, svc
}

func do(
	t *testing.T,
	h http.Handler,
	method, path, token, body string,
) (int, core.Envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env core.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestHandlerRequiresSession(t *testing.T) {
	r, _ := newTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/bookings", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	code, _ = do(t, r, http.MethodGet, "/bookings", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestHandlerCreate(t *testing.T) {
	r, _ := newTestRouter(t)

	code, env := do(t, r, http.MethodPost, "/bookings", "alice-token",
		`{"booking_type":"train","booking_data":{"pnr":"X1"},"total_amount":"1200"}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Booking created successfully!", env.Message)

	data := env.Data.(map[string]any)
	assert.Equal(t, "train", data["booking_type"])
	assert.Equal(t, "pending", data["status"])
	assert.InDelta(t, 1200.0, data["total_amount"], 0.001)

	code, env = do(t, r, http.MethodPost, "/bookings", "alice-token",
		`{"booking_type":"train"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Booking type and data are required", env.Message)

	code, env = do(t, r, http.MethodPost, "/bookings", "alice-token", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid data", env.Message)
}

func TestHandlerOwnership(t *testing.T) {
	r, svc := newTestRouter(t)
	b := createBooking(t, svc, "user-1")

	code, env := do(t, r, http.MethodGet, "/bookings/"+b.ID, "bob-token", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Booking not found", env.Message)

	code, _ = do(t, r, http.MethodPost, "/bookings/"+b.ID+"/cancel", "bob-token", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, env = do(t, r, http.MethodGet, "/bookings/"+b.ID, "alice-token", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Booking details retrieved", env.Message)

	code, env = do(t, r, http.MethodGet, "/bookings", "bob-token", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, env.Data.(map[string]any)["bookings"])
}

func TestHandlerCancelTerminalBooking(t *testing.T) {
	r, svc := newTestRouter(t)
	b := createBooking(t, svc, "user-1")

	code, env := do(t, r, http.MethodPatch, "/bookings/"+b.ID+"/status", "alice-token",
		`{"status":"completed"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Booking status updated", env.Message)

	code, env = do(t, r, http.MethodPost, "/bookings/"+b.ID+"/cancel", "alice-token", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "This booking cannot be cancelled", env.Message)

	code, env = do(t, r, http.MethodGet, "/bookings/statistics", "alice-token", "")
	assert.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 1.0, env.Data.(map[string]any)["completed"], 0.001)
}

func TestHandlerRejectsMalformedBookingID(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/bookings/42"},
		{http.MethodPost, "/bookings/not-a-uuid/cancel"},
		{http.MethodDelete, "/bookings/x"},
	} {
		code, env := do(t, r, req.method, req.path, "alice-token", "")
		assert.Equal(t, http.StatusBadRequest, code, req.path)
		assert.Equal(t, "Invalid booking ID", env.Message, req.path)
	}
}
