package usecases_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"rental-service/internal/module/booking/models/entity"
	"rental-service/internal/module/booking/models/request"
	"rental-service/internal/module/booking/models/response"
	"rental-service/internal/module/booking/usecases"
	customerMocks "rental-service/internal/module/customer/mocks"
	sequenceEntity "rental-service/internal/module/sequence/models/entity"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/gateway"
	gatewayMocks "rental-service/internal/pkg/gateway/mocks"
	"rental-service/internal/pkg/lock"
	log_internal "rental-service/internal/pkg/log"
	notifierMocks "rental-service/internal/pkg/notifier/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memRepo keeps bookings, counters and attempts in memory and applies outcomes with the same
// rules as the database repository, under a single mutex standing in for the row locks.
type memRepo struct {
	mu       sync.Mutex
	vehicles map[int64]entity.Vehicle
	bookings map[uuid.UUID]entity.Booking
	attempts []entity.PaymentAttempt
	counters map[string]int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		vehicles: map[int64]entity.Vehicle{7: {ID: 7, Name: "Fiat 500", Visible: true}},
		bookings: map[uuid.UUID]entity.Booking{},
		counters: map[string]int64{"order_number": 1, "invoice_number": 1},
	}
}

func (m *memRepo) allocate(name, prefix string) string {
	n := m.counters[name]
	m.counters[name] = n + 1
	return sequenceEntity.Counter{Name: name, Prefix: prefix}.Format(n)
}

func (m *memRepo) FindVehicle(_ context.Context, id int64) (entity.Vehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return entity.Vehicle{}, errors.NotFoundError("vehicle not found")
	}
	return v, nil
}

func (m *memRepo) CreateBooking(_ context.Context, b entity.Booking) (entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.OrderNumber = m.allocate("order_number", "K")
	m.bookings[b.ID] = b
	return b, nil
}

func (m *memRepo) FindBookingByID(_ context.Context, id uuid.UUID) (entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings[id], nil
}

func (m *memRepo) FindBookingByGatewayOrder(_ context.Context, orderID string) (entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.GatewayOrderID.String == orderID {
			return b, nil
		}
	}
	return entity.Booking{}, nil
}

func (m *memRepo) SetGatewayOrder(_ context.Context, id uuid.UUID, orderID, redirectURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bookings[id]
	if b.Status != entity.StatusPending || b.GatewayOrderID.Valid {
		return errors.ConflictError("booking is no longer awaiting a gateway order")
	}
	b.GatewayOrderID = sql.NullString{String: orderID, Valid: true}
	b.GatewayRedirectURL = sql.NullString{String: redirectURL, Valid: true}
	m.bookings[id] = b
	return nil
}

func (m *memRepo) SetTaskID(_ context.Context, id uuid.UUID, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bookings[id]
	b.TaskID = taskID
	m.bookings[id] = b
	return nil
}

func (m *memRepo) FindSuccessfulAttempt(_ context.Context, orderID string) (entity.PaymentAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.attempts {
		if a.ExternalOrderID == orderID && a.Status == entity.AttemptSuccess {
			return a, nil
		}
	}
	return entity.PaymentAttempt{}, nil
}

func (m *memRepo) ApplyPaymentOutcome(_ context.Context, o entity.PaymentOutcome) (entity.AppliedOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.bookings[o.BookingID]
	for _, a := range m.attempts {
		if a.ExternalOrderID == o.ExternalOrderID && a.Status == entity.AttemptSuccess {
			return entity.AppliedOutcome{Booking: b}, nil
		}
	}
	if b.PaymentStatus == entity.PaymentPaid {
		return entity.AppliedOutcome{Booking: b}, nil
	}

	attempt := entity.PaymentAttempt{ID: int64(len(m.attempts) + 1), ExternalOrderID: o.ExternalOrderID, BookingID: b.ID, Detail: o.Detail}
	if o.Paid {
		b.Status, b.PaymentStatus = entity.StatusConfirmed, entity.PaymentPaid
		b.InvoiceNo = sql.NullString{String: m.allocate("invoice_number", "P"), Valid: true}
		b.TransactionID = sql.NullString{String: o.ExternalOrderID, Valid: true}
		attempt.Status = entity.AttemptSuccess
	} else {
		if b.Status == entity.StatusPending {
			b.Status, b.PaymentStatus = entity.StatusFailed, entity.PaymentFailed
		}
		attempt.Status = entity.AttemptFailed
	}
	m.bookings[b.ID] = b
	m.attempts = append(m.attempts, attempt)
	return entity.AppliedOutcome{Booking: b, Applied: true}, nil
}

func (m *memRepo) AppendAttempt(_ context.Context, a entity.PaymentAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, a)
	return nil
}

func (m *memRepo) SetTaskScheduler(context.Context, time.Duration, []byte) (string, error) {
	return "task-" + uuid.NewString(), nil
}

func (m *memRepo) DeleteTaskScheduler(context.Context, string) error {
	return nil
}

func (m *memRepo) invoices() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, b := range m.bookings {
		if b.InvoiceNo.Valid {
			out = append(out, b.InvoiceNo.String)
		}
	}
	return out
}

type scenario struct {
	repo     *memRepo
	gateway  *gatewayMocks.Gateway
	notifier *notifierMocks.Notifier
	uc       usecases.Usecase
}

func newScenario(t *testing.T) *scenario {
	repo := newMemRepo()
	customers := customerMocks.NewUsecase(t)
	gw := gatewayMocks.NewGateway(t)
	n := notifierMocks.NewNotifier(t)

	c := customer()
	customers.On("FindCustomer", mock.Anything, mock.Anything).Return(c, nil).Maybe()
	n.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	return &scenario{
		repo:     repo,
		gateway:  gw,
		notifier: n,
		uc:       usecases.New(repo, customers, gw, lock.NewNoopLocker(), n, testConfig(), log_internal.Setup()),
	}
}

func TestBookingLifecycleScenario(t *testing.T) {
	s := newScenario(t)
	customerID := uuid.New()

	onArrival, err := s.uc.CreateBooking(ctx, createPayload(customerID, "OnArrival"))
	require.NoError(t, err)
	assert.Equal(t, "K000001", onArrival.OrderNumber)
	assert.Equal(t, "Confirmed", onArrival.Status)
	assert.Equal(t, "PayOnArrival", onArrival.PaymentStatus)
	assert.Nil(t, onArrival.InvoiceNo)

	online, err := s.uc.CreateBooking(ctx, createPayload(customerID, "Online"))
	require.NoError(t, err)
	assert.Equal(t, "K000002", online.OrderNumber)
	assert.Equal(t, "Pending", online.Status)
	assert.Equal(t, "Pending", online.PaymentStatus)

	s.gateway.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req gateway.CreateOrderRequest) bool {
		return req.Reference == "K000002" && req.AmountMinor == 15000
	})).Return(gateway.CreateOrderResult{ExternalOrderID: "gw-1", RedirectURL: "https://pay.example/form"}, nil).Once()

	redirect, err := s.uc.InitiatePayment(ctx, &request.InitiatePayment{BookingID: online.ID, ReturnURL: "https://shop.example/return"})
	require.NoError(t, err)
	assert.Equal(t, "gw-1", redirect.ExternalOrderID)

	s.gateway.On("VerifyOrder", mock.Anything, "gw-1").
		Return(gateway.VerifyOrderResult{RawStatusCode: "2", Status: gateway.StatusPaid, Amount: 15000, Currency: "978"}, nil).Once()

	first, err := s.uc.VerifyPayment(ctx, &request.VerifyPayment{BookingID: online.ID, ExternalOrderID: "gw-1"})
	require.NoError(t, err)
	assert.Equal(t, response.VerificationPaid, first.Outcome)
	assert.Equal(t, "Confirmed", first.Booking.Status)
	assert.Equal(t, "Paid", first.Booking.PaymentStatus)
	require.NotNil(t, first.Booking.InvoiceNo)
	assert.Equal(t, "P000001", *first.Booking.InvoiceNo)
	assert.Equal(t, "gw-1", *first.Booking.TransactionID)

	// the redirect arrives twice; the gateway is not asked again
	second, err := s.uc.VerifyPayment(ctx, &request.VerifyPayment{BookingID: online.ID, ExternalOrderID: "gw-1"})
	require.NoError(t, err)
	assert.Equal(t, response.VerificationAlreadyProcessed, second.Outcome)
	assert.Equal(t, first.Booking, second.Booking)

	assert.Equal(t, []string{"P000001"}, s.repo.invoices())
}

func TestGatewayFailureScenario(t *testing.T) {
	failures := []error{
		&gateway.GatewayError{Kind: gateway.KindTransport, Detail: "timeout"},
		&gateway.GatewayError{Kind: gateway.KindFormat, Detail: "unexpected html page"},
		&gateway.GatewayError{Kind: gateway.KindBusiness, Code: "5", Detail: "access denied"},
	}

	for _, gwErr := range failures {
		t.Run(gwErr.Error(), func(t *testing.T) {
			s := newScenario(t)
			online, err := s.uc.CreateBooking(ctx, createPayload(uuid.New(), "Online"))
			require.NoError(t, err)

			s.gateway.On("CreateOrder", mock.Anything, mock.Anything).Return(gateway.CreateOrderResult{ExternalOrderID: "gw-9", RedirectURL: "u"}, nil)
			_, err = s.uc.InitiatePayment(ctx, &request.InitiatePayment{BookingID: online.ID, ReturnURL: "https://shop.example/return"})
			require.NoError(t, err)

			s.gateway.On("VerifyOrder", mock.Anything, "gw-9").Return(gateway.VerifyOrderResult{}, gwErr)

			result, err := s.uc.VerifyPayment(ctx, &request.VerifyPayment{BookingID: online.ID, ExternalOrderID: "gw-9"})

			require.NoError(t, err)
			assert.Equal(t, "Failed", result.Booking.Status)
			assert.Equal(t, "Failed", result.Booking.PaymentStatus)
			assert.Nil(t, result.Booking.InvoiceNo)
			assert.Empty(t, s.repo.invoices())
		})
	}
}

func TestReconciliationAfterFailure(t *testing.T) {
	s := newScenario(t)
	online, err := s.uc.CreateBooking(ctx, createPayload(uuid.New(), "Online"))
	require.NoError(t, err)

	s.gateway.On("CreateOrder", mock.Anything, mock.Anything).Return(gateway.CreateOrderResult{ExternalOrderID: "gw-5", RedirectURL: "u"}, nil)
	_, err = s.uc.InitiatePayment(ctx, &request.InitiatePayment{BookingID: online.ID, ReturnURL: "https://shop.example/return"})
	require.NoError(t, err)

	s.gateway.On("VerifyOrder", mock.Anything, "gw-5").Return(gateway.VerifyOrderResult{}, &gateway.GatewayError{Kind: gateway.KindTransport, Detail: "timeout"}).Once()
	failed, err := s.uc.VerifyPayment(ctx, &request.VerifyPayment{BookingID: online.ID, ExternalOrderID: "gw-5"})
	require.NoError(t, err)
	assert.Equal(t, "Failed", failed.Booking.Status)

	s.gateway.On("VerifyOrder", mock.Anything, "gw-5").Return(gateway.VerifyOrderResult{RawStatusCode: "2", Status: gateway.StatusPaid, Amount: 15000}, nil).Once()
	paid, err := s.uc.VerifyPayment(ctx, &request.VerifyPayment{ExternalOrderID: "gw-5"})
	require.NoError(t, err)
	assert.Equal(t, "Confirmed", paid.Booking.Status)
	assert.Equal(t, "Paid", paid.Booking.PaymentStatus)
	assert.Equal(t, "P000001", *paid.Booking.InvoiceNo)
}

func TestConcurrentVerificationAllocatesOneInvoice(t *testing.T) {
	s := newScenario(t)
	online, err := s.uc.CreateBooking(ctx, createPayload(uuid.New(), "Online"))
	require.NoError(t, err)

	s.gateway.On("CreateOrder", mock.Anything, mock.Anything).Return(gateway.CreateOrderResult{ExternalOrderID: "gw-3", RedirectURL: "u"}, nil)
	_, err = s.uc.InitiatePayment(ctx, &request.InitiatePayment{BookingID: online.ID, ReturnURL: "https://shop.example/return"})
	require.NoError(t, err)

	s.gateway.On("VerifyOrder", mock.Anything, "gw-3").Return(gateway.VerifyOrderResult{RawStatusCode: "2", Status: gateway.StatusPaid, Amount: 15000}, nil).Maybe()

	var wg sync.WaitGroup
	results := make([]response.Verification, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := s.uc.VerifyPayment(ctx, &request.VerifyPayment{BookingID: online.ID, ExternalOrderID: "gw-3"})
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	paid := 0
	for _, r := range results {
		if r.Outcome == response.VerificationPaid {
			paid++
		}
		require.NotNil(t, r.Booking.InvoiceNo)
		assert.Equal(t, "P000001", *r.Booking.InvoiceNo)
	}
	assert.Equal(t, 1, paid)
	assert.Equal(t, []string{"P000001"}, s.repo.invoices())
}

func TestConcurrentInitiationHandsOutOneOrder(t *testing.T) {
	s := newScenario(t)
	online, err := s.uc.CreateBooking(ctx, createPayload(uuid.New(), "Online"))
	require.NoError(t, err)

	// both callers are inside CreateOrder before either stores its order
	var arrived sync.WaitGroup
	arrived.Add(2)
	barrier := func(mock.Arguments) {
		arrived.Done()
		arrived.Wait()
	}
	s.gateway.On("CreateOrder", mock.Anything, mock.Anything).Run(barrier).
		Return(gateway.CreateOrderResult{ExternalOrderID: "gw-A", RedirectURL: "https://pay.example/A"}, nil).Once()
	s.gateway.On("CreateOrder", mock.Anything, mock.Anything).Run(barrier).
		Return(gateway.CreateOrderResult{ExternalOrderID: "gw-B", RedirectURL: "https://pay.example/B"}, nil).Once()

	var wg sync.WaitGroup
	redirects := make([]response.PaymentRedirect, 2)
	for i := range redirects {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := s.uc.InitiatePayment(ctx, &request.InitiatePayment{BookingID: online.ID, ReturnURL: "https://shop.example/return"})
			assert.NoError(t, err)
			redirects[i] = res
		}(i)
	}
	wg.Wait()

	require.Equal(t, redirects[0], redirects[1])
	orderID := redirects[0].ExternalOrderID

	s.gateway.On("VerifyOrder", mock.Anything, orderID).
		Return(gateway.VerifyOrderResult{RawStatusCode: "2", Status: gateway.StatusPaid, Amount: 15000}, nil).Once()

	result, err := s.uc.VerifyPayment(ctx, &request.VerifyPayment{BookingID: online.ID, ExternalOrderID: orderID})

	require.NoError(t, err)
	assert.Equal(t, response.VerificationPaid, result.Outcome)
	assert.Equal(t, []string{"P000001"}, s.repo.invoices())
}
