// AngelaMos | 2026
// entity.go

package booking

import (
	"slices"
	"time"

	"github.com/jmoiron/sqlx/types"
)

type Type string

const (
	TypeMovie   Type = "movie"
	TypeBus     Type = "bus"
	TypeTrain   Type = "train"
	TypeFlight  Type = "flight"
	TypeGuide   Type = "guide"
	TypeRoom    Type = "room"
	TypeProduct Type = "product"
	TypeBike    Type = "bike"
	TypeCab     Type = "cab"
	TypeFood    Type = "food"
	TypeService Type = "service"
)

var Types = []Type{
	TypeMovie, TypeBus, TypeTrain, TypeFlight, TypeGuide, TypeRoom,
	TypeProduct, TypeBike, TypeCab, TypeFood, TypeService,
}

func (t Type) Valid() bool {
	return slices.Contains(Types, t)
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var Statuses = []Status{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// CancellableStatuses are the only states the cancel path leaves.
var CancellableStatuses = []Status{StatusPending, StatusConfirmed}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

const PaymentPending = "pending"

type Booking struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	Type          Type           `db:"booking_type"`
	Data          types.JSONText `db:"booking_data"`
	TotalAmount   float64        `db:"total_amount"`
	Status        Status         `db:"status"`
	PaymentStatus string         `db:"payment_status"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (b *Booking) CanCancel() bool {
	return slices.Contains(CancellableStatuses, b.Status)
}

type Statistics struct {
	TotalBookings int64   `db:"total_bookings" json:"total_bookings"`
	Pending       int64   `db:"pending"        json:"pending"`
	Confirmed     int64   `db:"confirmed"      json:"confirmed"`
	Completed     int64   `db:"completed"      json:"completed"`
	Cancelled     int64   `db:"cancelled"      json:"cancelled"`
	TotalSpent    float64 `db:"total_spent"    json:"total_spent"`
}
