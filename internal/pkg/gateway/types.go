package gateway

import (
	"bytes"
	"fmt"
	"strconv"
)

type ErrorKind string

const (
	// KindTransport covers network failures, timeouts and an open circuit breaker.
	KindTransport ErrorKind = "transport"
	// KindFormat is a body that is not the expected JSON, usually an HTML error page.
	KindFormat ErrorKind = "format"
	// KindBusiness is a well formed response carrying a non-zero errorCode.
	KindBusiness ErrorKind = "business"
)

type GatewayError struct {
	Kind    ErrorKind
	Code    string
	Detail  string
	Payload string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway %s error (code %s): %s", e.Kind, e.Code, e.Detail)
	}
	return fmt.Sprintf("gateway %s error: %s", e.Kind, e.Detail)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "Paid"
	StatusNotPaid PaymentStatus = "NotPaid"
)

// MapOrderStatus translates the gateway orderStatus. Pre-authorised orders count as paid.
func MapOrderStatus(raw string) PaymentStatus {
	switch raw {
	case "2", "1":
		return StatusPaid
	default:
		return StatusNotPaid
	}
}

type CustomerDetails struct {
	FullName string
	Email    string
	Phone    string
}

type CreateOrderRequest struct {
	AmountMinor int64
	Currency    string
	Reference   string
	Description string
	ReturnURL   string
	FailURL     string
	Customer    CustomerDetails
}

type CreateOrderResult struct {
	ExternalOrderID string `json:"external_order_id"`
	RedirectURL     string `json:"redirect_url"`
}

type VerifyOrderResult struct {
	RawStatusCode string
	Status        PaymentStatus
	Amount        int64
	Currency      string
	Payload       string
}

// flexString accepts JSON strings, numbers and null. The gateway is inconsistent about which it sends.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

type registerResponse struct {
	OrderID      string     `json:"orderId"`
	FormURL      string     `json:"formUrl"`
	ErrorCode    flexString `json:"errorCode"`
	ErrorMessage string     `json:"errorMessage"`
}

type statusResponse struct {
	ErrorCode    flexString `json:"errorCode"`
	ErrorMessage string     `json:"errorMessage"`
	OrderStatus  flexString `json:"orderStatus"`
	OrderNumber  string     `json:"orderNumber"`
	Amount       flexString `json:"amount"`
	Currency     flexString `json:"currency"`
}

func isErrorCode(code flexString) bool {
	return code != "" && code != "0"
}
