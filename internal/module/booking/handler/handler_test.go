package handler_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"rental-service/internal/module/booking/handler"
	"rental-service/internal/module/booking/mocks"
	"rental-service/internal/module/booking/models/request"
	"rental-service/internal/module/booking/models/response"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/helpers"
	httpEngine "rental-service/internal/pkg/http"
	log_internal "rental-service/internal/pkg/log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const bookingID = "3f1c9a52-8a4e-4b8e-9d55-0d0e1b7f6a10"

var (
	h   *handler.BookingHandler
	ucm *mocks.Usecase
	p   *recordingPublisher
	app *fiber.App
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][]*message.Message
}

// Close implements message.Publisher.
func (r *recordingPublisher) Close() error {
	return nil
}

// Publish implements message.Publisher.
func (r *recordingPublisher) Publish(topic string, messages ...*message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[topic] = append(r.messages[topic], messages...)
	return nil
}

func setup(t *testing.T) {
	ucm = mocks.NewUsecase(t)
	p = &recordingPublisher{messages: map[string][]*message.Message{}}
	h = &handler.BookingHandler{
		Log:       log_internal.Setup(),
		Validator: helpers.NewValidator(),
		Usecase:   ucm,
		Publish:   p,
	}

	app = httpEngine.SetupHttpEngine()
	app.Post("/api/v1/bookings", h.CreateBooking)
	app.Get("/api/v1/bookings/:id", h.ShowBooking)
	app.Post("/api/v1/bookings/:id/payment", h.InitiatePayment)
	app.Get("/api/v1/payments/verify", h.VerifyPayment)
	app.Get("/api/v1/payments/callback", h.PaymentCallback)
	app.Post("/api/private/payments/verify", h.ReconcilePayment)
}

func do(t *testing.T, method, target, body string) (int, helpers.Response) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out helpers.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestCreateBooking(t *testing.T) {
	body := `{"customer_id":"9b2f0c8e-5a61-4a0d-8f7e-3c2b1a0d9e8f","vehicle_id":7,
		"start_date":"2030-05-01T10:00:00Z","end_date":"2030-05-04T10:00:00Z",
		"total_price":150,"payment_type":"OnArrival","extras":["child_seat"]}`

	t.Run("created", func(t *testing.T) {
		setup(t)
		ucm.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req *request.CreateBooking) bool {
			return req.VehicleID == 7 && req.PaymentType == "OnArrival" && req.TotalPrice == 150
		})).Return(response.Booking{OrderNumber: "K000001", Status: "Confirmed", PaymentStatus: "PayOnArrival"}, nil)

		code, resp := do(t, http.MethodPost, "/api/v1/bookings", body)

		assert.Equal(t, http.StatusCreated, code)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "K000001", data["order_number"])
		assert.Nil(t, data["invoice_no"])
	})

	t.Run("invalid payment type", func(t *testing.T) {
		setup(t)

		code, resp := do(t, http.MethodPost, "/api/v1/bookings", `{"vehicle_id":7,"start_date":"2030-05-01T10:00:00Z",
			"end_date":"2030-05-04T10:00:00Z","total_price":150,"payment_type":"Cash"}`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, errors.KindValidation, resp.Kind)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "payment_type", resp.Errors[0].Field)
	})

	t.Run("malformed body", func(t *testing.T) {
		setup(t)

		code, resp := do(t, http.MethodPost, "/api/v1/bookings", `{"vehicle_id":`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, errors.KindBadRequest, resp.Kind)
	})

	t.Run("customer conflict", func(t *testing.T) {
		setup(t)
		ucm.On("CreateBooking", mock.Anything, mock.Anything).Return(response.Booking{},
			errors.ConflictError("submitted details differ from the registered customer",
				errors.FieldError{Field: "phone", Existing: "+44 1", New: "+44 2"}))

		code, resp := do(t, http.MethodPost, "/api/v1/bookings", body)

		assert.Equal(t, http.StatusConflict, code)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, errors.FieldError{Field: "phone", Existing: "+44 1", New: "+44 2"}, resp.Errors[0])
	})

	t.Run("internal failure is opaque", func(t *testing.T) {
		setup(t)
		ucm.On("CreateBooking", mock.Anything, mock.Anything).Return(response.Booking{}, errors.InternalServerError("error insert booking"))

		code, resp := do(t, http.MethodPost, "/api/v1/bookings", body)

		assert.Equal(t, http.StatusInternalServerError, code)
		assert.NotContains(t, resp.Message, "insert")
	})
}

func TestShowBooking(t *testing.T) {
	setup(t)
	ucm.On("ShowBooking", mock.Anything, bookingID).Return(response.Booking{ID: bookingID, OrderNumber: "K000002"}, nil)

	code, resp := do(t, http.MethodGet, "/api/v1/bookings/"+bookingID, "")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "K000002", resp.Data.(map[string]interface{})["order_number"])
}

func TestInitiatePayment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		setup(t)
		ucm.On("InitiatePayment", mock.Anything, &request.InitiatePayment{
			BookingID: bookingID,
			ReturnURL: "https://shop.example/return",
		}).Return(response.PaymentRedirect{BookingID: bookingID, ExternalOrderID: "gw-1", RedirectURL: "https://pay.example/form"}, nil)

		code, resp := do(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/payment", `{"return_url":"https://shop.example/return"}`)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "https://pay.example/form", resp.Data.(map[string]interface{})["redirect_url"])
	})

	t.Run("gateway failure", func(t *testing.T) {
		setup(t)
		ucm.On("InitiatePayment", mock.Anything, mock.Anything).Return(response.PaymentRedirect{}, errors.GatewayError("error create payment order", assert.AnError))

		code, resp := do(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/payment", `{"return_url":"https://shop.example/return"}`)

		assert.Equal(t, http.StatusBadGateway, code)
		assert.Equal(t, errors.KindGateway, resp.Kind)
	})

	t.Run("already paid", func(t *testing.T) {
		setup(t)
		ucm.On("InitiatePayment", mock.Anything, mock.Anything).Return(response.PaymentRedirect{}, errors.AlreadyProcessedError("booking is already paid"))

		code, resp := do(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/payment", `{"return_url":"https://shop.example/return"}`)

		assert.Equal(t, http.StatusConflict, code)
		assert.Equal(t, errors.KindAlreadyProcessed, resp.Kind)
	})

	t.Run("missing return url", func(t *testing.T) {
		setup(t)

		code, _ := do(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/payment", `{}`)

		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestVerifyPayment(t *testing.T) {
	t.Run("gateway redirect", func(t *testing.T) {
		setup(t)
		ucm.On("VerifyPayment", mock.Anything, &request.VerifyPayment{BookingID: bookingID, ExternalOrderID: "gw-1"}).
			Return(response.Verification{Outcome: response.VerificationPaid}, nil)

		code, resp := do(t, http.MethodGet, "/api/v1/payments/verify?booking_id="+bookingID+"&orderId=gw-1", "")

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "paid", resp.Data.(map[string]interface{})["outcome"])
	})

	t.Run("missing order", func(t *testing.T) {
		setup(t)

		code, resp := do(t, http.MethodGet, "/api/v1/payments/verify?booking_id="+bookingID, "")

		assert.Equal(t, http.StatusBadRequest, code)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "order_id", resp.Errors[0].Field)
	})

	t.Run("gateway callback", func(t *testing.T) {
		setup(t)
		ucm.On("VerifyPayment", mock.Anything, &request.VerifyPayment{ExternalOrderID: "gw-7"}).
			Return(response.Verification{Outcome: response.VerificationAlreadyProcessed}, nil)

		code, _ := do(t, http.MethodGet, "/api/v1/payments/callback?mdOrder=gw-7&orderNumber=K000002&operation=deposited&status=1", "")

		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("reconciliation", func(t *testing.T) {
		setup(t)
		ucm.On("VerifyPayment", mock.Anything, &request.VerifyPayment{BookingID: bookingID, ExternalOrderID: "gw-1"}).
			Return(response.Verification{Outcome: response.VerificationNotPaid}, nil)

		code, _ := do(t, http.MethodPost, "/api/private/payments/verify", `{"booking_id":"`+bookingID+`","order_id":"gw-1"}`)

		assert.Equal(t, http.StatusOK, code)
	})
}

func TestConsumeVerificationQueue(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		setup(t)
		ucm.On("VerifyPayment", mock.Anything, &request.VerifyPayment{BookingID: bookingID, ExternalOrderID: "gw-1"}).
			Return(response.Verification{Outcome: response.VerificationPaid}, nil)

		err := h.ConsumeVerificationQueue(message.NewMessage("1", []byte(`{"booking_id":"`+bookingID+`","order_id":"gw-1"}`)))

		assert.NoError(t, err)
		assert.Empty(t, p.messages[handler.TopicPaymentVerificationPoisoned])
	})

	t.Run("malformed message is poisoned", func(t *testing.T) {
		setup(t)

		err := h.ConsumeVerificationQueue(message.NewMessage("2", []byte(`not json`)))

		assert.NoError(t, err)
		require.Len(t, p.messages[handler.TopicPaymentVerificationPoisoned], 1)
		var poisoned request.PoisonedQueue
		require.NoError(t, json.Unmarshal(p.messages[handler.TopicPaymentVerificationPoisoned][0].Payload, &poisoned))
		assert.Equal(t, handler.TopicPaymentVerification, poisoned.TopicTarget)
		assert.Equal(t, "not json", poisoned.Payload)
	})

	t.Run("unknown booking is poisoned", func(t *testing.T) {
		setup(t)
		ucm.On("VerifyPayment", mock.Anything, mock.Anything).Return(response.Verification{}, errors.NotFoundError("booking not found"))

		err := h.ConsumeVerificationQueue(message.NewMessage("3", []byte(`{"order_id":"gw-1"}`)))

		assert.NoError(t, err)
		assert.Len(t, p.messages[handler.TopicPaymentVerificationPoisoned], 1)
	})

	t.Run("internal failure is retried", func(t *testing.T) {
		setup(t)
		ucm.On("VerifyPayment", mock.Anything, mock.Anything).Return(response.Verification{}, errors.InternalServerError("error locking booking"))

		err := h.ConsumeVerificationQueue(message.NewMessage("4", []byte(`{"order_id":"gw-1"}`)))

		assert.Error(t, err)
		assert.Empty(t, p.messages[handler.TopicPaymentVerificationPoisoned])
	})
}

func TestVerifyPendingPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		setup(t)
		ucm.On("VerifyPendingPayment", ctx, &request.PendingPaymentTask{BookingID: bookingID}).Return(nil)

		err := h.VerifyPendingPayment(ctx, asynq.NewTask("verify_pending_payment", []byte(`{"booking_id":"`+bookingID+`"}`)))

		assert.NoError(t, err)
	})

	t.Run("invalid payload skips retry", func(t *testing.T) {
		setup(t)

		err := h.VerifyPendingPayment(ctx, asynq.NewTask("verify_pending_payment", []byte(`{"booking_id":"x"}`)))

		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}
