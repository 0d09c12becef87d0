// AngelaMos | 2026
// dto.go

package booking

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"
)

type CreateRequest struct {
	BookingType string          `json:"booking_type" validate:"max=32"`
	BookingData json.RawMessage `json:"booking_data"`
	TotalAmount Amount          `json:"total_amount"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"max=32"`
}

// MaxAmount is the largest value total_amount NUMERIC(12,2) can hold.
const MaxAmount = 9999999999.99

// Amount accepts a JSON number or a numeric string. Anything negative,
// unparsable or non-finite decodes to zero and anything above MaxAmount
// decodes to MaxAmount, rather than failing the request.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		raw = s
	}

	*a = Amount(ParseAmount(raw))
	return nil
}

func ParseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v >= MaxAmount {
		return MaxAmount
	}
	return math.Round(v*100) / 100
}

// NormalizePayload turns booking_data into a JSON document. A string that
// itself holds JSON is unwrapped. Missing, null, blank and empty
// containers are rejected.
func NormalizePayload(raw json.RawMessage) (types.JSONText, bool) {
	doc := bytes.TrimSpace(raw)
	if len(doc) == 0 {
		return nil, false
	}

	if doc[0] == '"' {
		var s string
		if err := json.Unmarshal(doc, &s); err != nil {
			return nil, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, false
		}
		if json.Valid([]byte(s)) {
			doc = []byte(s)
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, doc); err != nil {
		return nil, false
	}

	switch buf.String() {
	case "null", "{}", "[]", `""`:
		return nil, false
	}

	return types.JSONText(buf.Bytes()), true
}

type BookingResponse struct {
	ID            string         `json:"id"`
	BookingType   Type           `json:"booking_type"`
	BookingData   types.JSONText `json:"booking_data"`
	TotalAmount   float64        `json:"total_amount"`
	Status        Status         `json:"status"`
	PaymentStatus string         `json:"payment_status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type CreatedResponse struct {
	BookingID   string  `json:"booking_id"`
	BookingType Type    `json:"booking_type"`
	Status      Status  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
}

type ListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

type StatusResponse struct {
	Status Status `json:"status"`
}

func ToBookingResponse(b *Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		BookingType:   b.Type,
		BookingData:   b.Data,
		TotalAmount:   b.TotalAmount,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func ToListResponse(bookings []Booking) ListResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, ToBookingResponse(&bookings[i]))
	}
	return ListResponse{Bookings: out}
}
