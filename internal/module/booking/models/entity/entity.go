package entity

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusFailed    Status = "Failed"
)

type PaymentStatus string

const (
	PaymentPending      PaymentStatus = "Pending"
	PaymentPayOnArrival PaymentStatus = "PayOnArrival"
	PaymentPaid         PaymentStatus = "Paid"
	PaymentFailed       PaymentStatus = "Failed"
)

type PaymentType string

const (
	PaymentOnline    PaymentType = "Online"
	PaymentOnArrival PaymentType = "OnArrival"
)

type Booking struct {
	ID                 uuid.UUID      `db:"id"`
	CustomerID         uuid.UUID      `db:"customer_id"`
	VehicleID          int64          `db:"vehicle_id"`
	StartDate          time.Time      `db:"start_date"`
	EndDate            time.Time      `db:"end_date"`
	TotalPrice         float64        `db:"total_price"`
	Currency           string         `db:"currency"`
	Status             Status         `db:"status"`
	PaymentStatus      PaymentStatus  `db:"payment_status"`
	PaymentType        PaymentType    `db:"payment_type"`
	OrderNumber        string         `db:"order_number"`
	InvoiceNo          sql.NullString `db:"invoice_no"`
	TransactionID      sql.NullString `db:"transaction_id"`
	GatewayOrderID     sql.NullString `db:"gateway_order_id"`
	GatewayRedirectURL sql.NullString `db:"gateway_redirect_url"`
	Extras             Extras         `db:"extras"`
	TaskID             string         `db:"task_id"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          sql.NullTime   `db:"updated_at"`
}

// IsTerminal reports whether the lifecycle has finished. Only Pending bookings move.
func (b Booking) IsTerminal() bool {
	return b.Status != StatusPending
}

// Extras is the list of add-on codes, stored as a JSONB array.
type Extras []string

func (e Extras) Value() (driver.Value, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e)
}

func (e *Extras) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*e = Extras{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("extras: unsupported type %T", src)
	}
	var out Extras
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("extras: %w", err)
	}
	if out == nil {
		out = Extras{}
	}
	*e = out
	return nil
}

type AttemptStatus string

const (
	AttemptSuccess AttemptStatus = "success"
	AttemptFailed  AttemptStatus = "failed"
)

// PaymentAttempt is one row of the append-only verification log.
type PaymentAttempt struct {
	ID              int64         `db:"id"`
	ExternalOrderID string        `db:"external_order_id"`
	BookingID       uuid.UUID     `db:"booking_id"`
	Status          AttemptStatus `db:"status"`
	StatusCode      string        `db:"status_code"`
	Detail          string        `db:"detail"`
	Payload         string        `db:"payload"`
	CreatedAt       time.Time     `db:"created_at"`
}

// PaymentOutcome is what a verification learned from the gateway, ready to be applied to a booking.
type PaymentOutcome struct {
	BookingID       uuid.UUID
	ExternalOrderID string
	Paid            bool
	StatusCode      string
	Detail          string
	Payload         string
}

// AppliedOutcome is the booking state after ApplyPaymentOutcome. Applied is false when an earlier
// verification already settled the payment and nothing was written.
type AppliedOutcome struct {
	Booking Booking
	Applied bool
}

// Vehicle is the catalog view of a car.
type Vehicle struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
}
