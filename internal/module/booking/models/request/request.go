package request

import (
	"time"

	customerRequest "rental-service/internal/module/customer/models/request"
)

type CreateBooking struct {
	CustomerID  string                           `json:"customer_id" validate:"omitempty,uuid"`
	Customer    *customerRequest.CustomerDetails `json:"customer"`
	VehicleID   int64                            `json:"vehicle_id" validate:"required,gt=0"`
	StartDate   time.Time                        `json:"start_date" validate:"required"`
	EndDate     time.Time                        `json:"end_date" validate:"required"`
	TotalPrice  float64                          `json:"total_price" validate:"required,gt=0"`
	PaymentType string                           `json:"payment_type" validate:"required,oneof=Online OnArrival"`
	Extras      []string                         `json:"extras" validate:"omitempty,dive,required,max=64"`
}

type InitiatePayment struct {
	BookingID string `json:"-" validate:"required,uuid"`
	ReturnURL string `json:"return_url" validate:"required,url"`
	FailURL   string `json:"fail_url" validate:"omitempty,url"`
}

// VerifyPayment identifies the gateway order to verify. BookingID may be empty when the caller only
// knows the gateway order, as with the gateway callback.
type VerifyPayment struct {
	BookingID       string `json:"booking_id" validate:"omitempty,uuid"`
	ExternalOrderID string `json:"order_id" validate:"required,max=128"`
}

type PoisonedQueue struct {
	TopicTarget string      `json:"topic_target" validate:"required"`
	ErrorMsg    string      `json:"error_msg" validate:"required"`
	Payload     interface{} `json:"payload" validate:"required"`
}

// PendingPaymentTask is the payload of the delayed re-verification task.
type PendingPaymentTask struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
}
