package response

type Booking struct {
	ID            string   `json:"id"`
	CustomerID    string   `json:"customer_id"`
	VehicleID     int64    `json:"vehicle_id"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	TotalPrice    float64  `json:"total_price"`
	Currency      string   `json:"currency"`
	Status        string   `json:"status"`
	PaymentStatus string   `json:"payment_status"`
	PaymentType   string   `json:"payment_type"`
	OrderNumber   string   `json:"order_number"`
	InvoiceNo     *string  `json:"invoice_no"`
	TransactionID *string  `json:"transaction_id"`
	Extras        []string `json:"extras"`
	CreatedAt     string   `json:"created_at"`
}

type PaymentRedirect struct {
	BookingID       string `json:"booking_id"`
	ExternalOrderID string `json:"external_order_id"`
	RedirectURL     string `json:"redirect_url"`
}

// Verification outcomes.
const (
	VerificationPaid             = "paid"
	VerificationNotPaid          = "not_paid"
	VerificationAlreadyProcessed = "already_processed"
)

type Verification struct {
	Outcome string  `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
	Booking Booking `json:"booking"`
}
