package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"rental-service/config"
	"rental-service/internal/module/booking/models/entity"
	"rental-service/internal/module/booking/models/request"
	"rental-service/internal/module/booking/models/response"
	"rental-service/internal/module/booking/repositories"
	customerEntity "rental-service/internal/module/customer/models/entity"
	customerUsecases "rental-service/internal/module/customer/usecases"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/gateway"
	"rental-service/internal/pkg/helpers"
	"rental-service/internal/pkg/lock"
	"rental-service/internal/pkg/log"
	"rental-service/internal/pkg/notifier"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type usecase struct {
	repo      repositories.Repositories
	customers customerUsecases.Usecase
	gateway   gateway.Gateway
	locker    lock.Locker
	notifier  notifier.Notifier
	cfg       *config.Config
	log       log.Logger
	now       func() time.Time
}

type Usecase interface {
	// http
	CreateBooking(ctx context.Context, payload *request.CreateBooking) (response.Booking, error)
	ShowBooking(ctx context.Context, bookingID string) (response.Booking, error)
	InitiatePayment(ctx context.Context, payload *request.InitiatePayment) (response.PaymentRedirect, error)
	VerifyPayment(ctx context.Context, payload *request.VerifyPayment) (response.Verification, error)
	// scheduler
	VerifyPendingPayment(ctx context.Context, payload *request.PendingPaymentTask) error
}

func New(
	repo repositories.Repositories,
	customers customerUsecases.Usecase,
	gw gateway.Gateway,
	locker lock.Locker,
	notifier notifier.Notifier,
	cfg *config.Config,
	log log.Logger,
) Usecase {
	return &usecase{
		repo:      repo,
		customers: customers,
		gateway:   gw,
		locker:    locker,
		notifier:  notifier,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

func (u *usecase) CreateBooking(ctx context.Context, payload *request.CreateBooking) (response.Booking, error) {
	if err := u.validateBooking(payload); err != nil {
		return response.Booking{}, err
	}

	vehicle, err := u.repo.FindVehicle(ctx, payload.VehicleID)
	if err != nil {
		return response.Booking{}, err
	}
	if !vehicle.Visible {
		return response.Booking{}, errors.NotFoundError("vehicle not found")
	}

	customer, err := u.resolveCustomer(ctx, payload)
	if err != nil {
		return response.Booking{}, err
	}

	booking := entity.Booking{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		VehicleID:   vehicle.ID,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		TotalPrice:  payload.TotalPrice,
		Currency:    u.cfg.Booking.Currency,
		PaymentType: entity.PaymentType(payload.PaymentType),
		Extras:      entity.Extras(payload.Extras),
		CreatedAt:   u.now(),
	}

	switch booking.PaymentType {
	case entity.PaymentOnArrival:
		booking.Status = entity.StatusConfirmed
		booking.PaymentStatus = entity.PaymentPayOnArrival
	default:
		booking.Status = entity.StatusPending
		booking.PaymentStatus = entity.PaymentPending
	}

	booking, err = u.repo.CreateBooking(ctx, booking)
	if err != nil {
		return response.Booking{}, err
	}

	u.log.Info(ctx, fmt.Sprintf("booking %s created with order %s", booking.ID, booking.OrderNumber))

	if booking.PaymentType == entity.PaymentOnArrival {
		notifier.SendBestEffort(ctx, u.notifier, u.log, customer.Email, notifier.TemplateBookingConfirmation, bookingData(booking, customer))
	}

	return toResponse(booking), nil
}

func (u *usecase) validateBooking(payload *request.CreateBooking) error {
	var fields []errors.FieldError

	if payload.CustomerID == "" && payload.Customer == nil {
		fields = append(fields, errors.FieldError{Field: "customer_id", Message: "customer_id or customer details are required"})
	}
	if !payload.StartDate.Before(payload.EndDate) {
		fields = append(fields, errors.FieldError{Field: "end_date", Message: "must be after start_date"})
	} else if payload.EndDate.Sub(payload.StartDate) > u.cfg.Booking.MaxDuration {
		fields = append(fields, errors.FieldError{Field: "end_date", Message: fmt.Sprintf("rental may last at most %s", u.cfg.Booking.MaxDuration)})
	}
	if payload.StartDate.Before(u.now()) {
		fields = append(fields, errors.FieldError{Field: "start_date", Message: "must not be in the past"})
	}
	if payload.TotalPrice <= 0 || payload.TotalPrice > u.cfg.Booking.MaxPrice {
		fields = append(fields, errors.FieldError{Field: "total_price", Message: fmt.Sprintf("must be greater than 0 and at most %.2f", u.cfg.Booking.MaxPrice)})
	}

	if len(fields) > 0 {
		return errors.ValidationError("invalid booking", fields...)
	}
	return nil
}

// resolveCustomer returns the customer the booking belongs to. Submitted details must either create
// a new customer or upgrade a guest; any other outcome sends the caller back to resolve the identity.
func (u *usecase) resolveCustomer(ctx context.Context, payload *request.CreateBooking) (customerEntity.Customer, error) {
	if payload.CustomerID != "" {
		id, err := uuid.Parse(payload.CustomerID)
		if err != nil {
			return customerEntity.Customer{}, errors.ValidationError("invalid customer id", errors.FieldError{Field: "customer_id", Message: "must be a valid uuid"})
		}
		return u.customers.FindCustomer(ctx, id)
	}

	resolution, err := u.customers.Resolve(ctx, payload.Customer)
	if err != nil {
		return customerEntity.Customer{}, err
	}

	switch customerEntity.Outcome(resolution.Outcome) {
	case customerEntity.OutcomeConflict:
		fields := make([]errors.FieldError, 0, len(resolution.Diff))
		for _, d := range resolution.Diff {
			fields = append(fields, errors.FieldError{Field: d.Field, Existing: d.Existing, New: d.New})
		}
		return customerEntity.Customer{}, errors.ConflictError("submitted details differ from the registered customer", fields...)
	case customerEntity.OutcomeExactMatch:
		return customerEntity.Customer{}, errors.ConflictError("customer already exists, sign in to continue", errors.FieldError{
			Field:   "email",
			Message: "email is already registered",
		})
	}

	id, err := uuid.Parse(resolution.CustomerID)
	if err != nil {
		return customerEntity.Customer{}, errors.InternalServerError("invalid resolved customer id")
	}
	return u.customers.FindCustomer(ctx, id)
}

func (u *usecase) ShowBooking(ctx context.Context, bookingID string) (response.Booking, error) {
	booking, err := u.findBooking(ctx, bookingID)
	if err != nil {
		return response.Booking{}, err
	}
	return toResponse(booking), nil
}

func (u *usecase) findBooking(ctx context.Context, bookingID string) (entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return entity.Booking{}, errors.ValidationError("invalid booking id", errors.FieldError{Field: "booking_id", Message: "must be a valid uuid"})
	}

	booking, err := u.repo.FindBookingByID(ctx, id)
	if err != nil {
		return entity.Booking{}, err
	}
	if booking.ID == uuid.Nil {
		return entity.Booking{}, errors.NotFoundError("booking not found")
	}
	return booking, nil
}

func (u *usecase) InitiatePayment(ctx context.Context, payload *request.InitiatePayment) (response.PaymentRedirect, error) {
	booking, err := u.findBooking(ctx, payload.BookingID)
	if err != nil {
		return response.PaymentRedirect{}, err
	}

	if err := checkPayable(booking); err != nil {
		return response.PaymentRedirect{}, err
	}
	if redirect, ok := storedRedirect(booking); ok {
		return redirect, nil
	}

	customer, err := u.customers.FindCustomer(ctx, booking.CustomerID)
	if err != nil {
		return response.PaymentRedirect{}, err
	}

	order, err := u.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		AmountMinor: helpers.MinorUnits(booking.TotalPrice),
		Currency:    u.cfg.Gateway.Currency,
		Reference:   booking.OrderNumber,
		Description: fmt.Sprintf("Car rental %s", booking.OrderNumber),
		ReturnURL:   withBookingID(payload.ReturnURL, booking.ID),
		FailURL:     withBookingID(payload.FailURL, booking.ID),
		Customer: gateway.CustomerDetails{
			FullName: customer.FullName(),
			Email:    customer.Email,
			Phone:    customer.Phone,
		},
	})
	if err != nil {
		u.log.Error(ctx, fmt.Sprintf("error create gateway order for booking %s", booking.ID), err)
		return response.PaymentRedirect{}, errors.GatewayError("error create payment order", err)
	}

	if err := u.repo.SetGatewayOrder(ctx, booking.ID, order.ExternalOrderID, order.RedirectURL); err != nil {
		if !errors.IsConflict(err) {
			return response.PaymentRedirect{}, err
		}
		// a concurrent initiation stored its order first; hand out that one so every redirect can be verified
		return u.concurrentRedirect(ctx, booking.ID, order.ExternalOrderID, err)
	}

	u.scheduleVerification(ctx, booking.ID)

	return response.PaymentRedirect{
		BookingID:       booking.ID.String(),
		ExternalOrderID: order.ExternalOrderID,
		RedirectURL:     order.RedirectURL,
	}, nil
}

func checkPayable(booking entity.Booking) error {
	if booking.PaymentType != entity.PaymentOnline {
		return errors.ValidationError("booking is not paid online", errors.FieldError{Field: "payment_type", Message: "must be Online"})
	}
	if booking.PaymentStatus == entity.PaymentPaid {
		return errors.AlreadyProcessedError("booking is already paid")
	}
	if booking.Status == entity.StatusFailed {
		return errors.ValidationError("payment for this booking failed, verify it again or create a new booking",
			errors.FieldError{Field: "status", Message: string(booking.Status)})
	}
	if booking.IsTerminal() {
		return errors.ValidationError("booking is no longer awaiting payment", errors.FieldError{Field: "status", Message: string(booking.Status)})
	}
	return nil
}

func storedRedirect(booking entity.Booking) (response.PaymentRedirect, bool) {
	if !booking.GatewayOrderID.Valid || !booking.GatewayRedirectURL.Valid {
		return response.PaymentRedirect{}, false
	}
	return response.PaymentRedirect{
		BookingID:       booking.ID.String(),
		ExternalOrderID: booking.GatewayOrderID.String,
		RedirectURL:     booking.GatewayRedirectURL.String,
	}, true
}

func (u *usecase) concurrentRedirect(ctx context.Context, bookingID uuid.UUID, abandoned string, cause error) (response.PaymentRedirect, error) {
	booking, err := u.repo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return response.PaymentRedirect{}, err
	}
	if err := checkPayable(booking); err != nil {
		return response.PaymentRedirect{}, err
	}
	redirect, ok := storedRedirect(booking)
	if !ok {
		return response.PaymentRedirect{}, cause
	}

	u.log.Warn(ctx, fmt.Sprintf("gateway order %s for booking %s abandoned, %s was stored first",
		abandoned, bookingID, redirect.ExternalOrderID))
	return redirect, nil
}

// scheduleVerification queues a delayed re-check for customers who never come back from the gateway.
func (u *usecase) scheduleVerification(ctx context.Context, bookingID uuid.UUID) {
	payload, err := json.Marshal(request.PendingPaymentTask{BookingID: bookingID.String()})
	if err != nil {
		u.log.Error(ctx, "error marshal pending payment task", err)
		return
	}

	taskID, err := u.repo.SetTaskScheduler(ctx, u.cfg.Booking.VerificationDelay, payload)
	if err != nil {
		u.log.Warn(ctx, fmt.Sprintf("booking %s will not be re-verified automatically", bookingID), err)
		return
	}

	if err := u.repo.SetTaskID(ctx, bookingID, taskID); err != nil {
		u.log.Warn(ctx, fmt.Sprintf("error store task id for booking %s", bookingID), err)
	}
}

func (u *usecase) VerifyPayment(ctx context.Context, payload *request.VerifyPayment) (response.Verification, error) {
	prior, err := u.repo.FindSuccessfulAttempt(ctx, payload.ExternalOrderID)
	if err != nil {
		return response.Verification{}, err
	}
	if prior.ID != 0 {
		booking, err := u.repo.FindBookingByID(ctx, prior.BookingID)
		if err != nil {
			return response.Verification{}, err
		}
		return alreadyProcessed(booking), nil
	}

	booking, err := u.bookingForOrder(ctx, payload)
	if err != nil {
		return response.Verification{}, err
	}
	if booking.PaymentStatus == entity.PaymentPaid {
		return alreadyProcessed(booking), nil
	}

	unlock, err := u.locker.Acquire(ctx, "booking:verify:"+booking.ID.String(), u.cfg.Booking.VerificationLockTTL)
	if err != nil {
		u.log.Warn(ctx, fmt.Sprintf("verifying booking %s without lock", booking.ID), err)
	} else {
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				u.log.Warn(ctx, fmt.Sprintf("error release verification lock for booking %s", booking.ID), err)
			}
		}()

		// another verification may have settled the booking while we waited
		current, err := u.repo.FindBookingByID(ctx, booking.ID)
		if err != nil {
			return response.Verification{}, err
		}
		if current.PaymentStatus == entity.PaymentPaid {
			return alreadyProcessed(current), nil
		}
	}

	outcome := u.checkGateway(ctx, booking, payload.ExternalOrderID)

	applied, err := u.repo.ApplyPaymentOutcome(ctx, outcome)
	if err != nil {
		u.log.Error(ctx, fmt.Sprintf("error apply payment outcome for booking %s", booking.ID), err)
		attempt := entity.PaymentAttempt{
			ExternalOrderID: payload.ExternalOrderID,
			BookingID:       booking.ID,
			Status:          entity.AttemptFailed,
			StatusCode:      outcome.StatusCode,
			Detail:          fmt.Sprintf("outcome not applied: %v", err),
			Payload:         outcome.Payload,
		}
		if appendErr := u.repo.AppendAttempt(ctx, attempt); appendErr != nil {
			u.log.Error(ctx, "error record failed payment attempt", appendErr)
		}
		return response.Verification{}, err
	}

	if !applied.Applied {
		return alreadyProcessed(applied.Booking), nil
	}

	u.finishVerification(ctx, applied.Booking)

	if outcome.Paid {
		u.log.Info(ctx, fmt.Sprintf("booking %s paid, invoice %s", booking.ID, applied.Booking.InvoiceNo.String))
		return response.Verification{Outcome: response.VerificationPaid, Booking: toResponse(applied.Booking)}, nil
	}

	u.log.Info(ctx, fmt.Sprintf("booking %s not paid: %s", booking.ID, outcome.Detail))
	return response.Verification{Outcome: response.VerificationNotPaid, Detail: outcome.Detail, Booking: toResponse(applied.Booking)}, nil
}

// bookingForOrder loads the booking being verified and checks the gateway order belongs to it.
func (u *usecase) bookingForOrder(ctx context.Context, payload *request.VerifyPayment) (entity.Booking, error) {
	var (
		booking entity.Booking
		err     error
	)
	if payload.BookingID != "" {
		booking, err = u.findBooking(ctx, payload.BookingID)
	} else {
		booking, err = u.repo.FindBookingByGatewayOrder(ctx, payload.ExternalOrderID)
		if err == nil && booking.ID == uuid.Nil {
			err = errors.NotFoundError("booking not found")
		}
	}
	if err != nil {
		return entity.Booking{}, err
	}

	if booking.PaymentType != entity.PaymentOnline {
		return entity.Booking{}, errors.ValidationError("booking is not paid online", errors.FieldError{Field: "payment_type", Message: "must be Online"})
	}
	if !booking.GatewayOrderID.Valid || booking.GatewayOrderID.String != payload.ExternalOrderID {
		return entity.Booking{}, errors.ValidationError("order does not belong to booking", errors.FieldError{Field: "order_id", Message: "unknown gateway order"})
	}
	return booking, nil
}

// checkGateway asks the gateway for the order state. Every failure becomes a not paid outcome.
func (u *usecase) checkGateway(ctx context.Context, booking entity.Booking, externalOrderID string) entity.PaymentOutcome {
	outcome := entity.PaymentOutcome{
		BookingID:       booking.ID,
		ExternalOrderID: externalOrderID,
	}

	result, err := u.gateway.VerifyOrder(ctx, externalOrderID)
	if err != nil {
		u.log.Warn(ctx, fmt.Sprintf("gateway verification failed for booking %s", booking.ID), err)
		outcome.Detail = err.Error()
		var gwErr *gateway.GatewayError
		if stderrors.As(err, &gwErr) {
			outcome.StatusCode = gwErr.Code
			outcome.Payload = gwErr.Payload
		}
		return outcome
	}

	outcome.StatusCode = result.RawStatusCode
	outcome.Payload = result.Payload

	if result.Status != gateway.StatusPaid {
		outcome.Detail = fmt.Sprintf("order status %s", result.RawStatusCode)
		return outcome
	}

	if expected := helpers.MinorUnits(booking.TotalPrice); result.Amount != 0 && result.Amount != expected {
		outcome.Detail = fmt.Sprintf("paid amount %d does not match booking amount %d", result.Amount, expected)
		return outcome
	}

	outcome.Paid = true
	return outcome
}

// finishVerification runs the side effects of a settled verification. Failures are logged only.
func (u *usecase) finishVerification(ctx context.Context, booking entity.Booking) {
	if booking.TaskID != "" {
		if err := u.repo.DeleteTaskScheduler(ctx, booking.TaskID); err != nil {
			u.log.Warn(ctx, fmt.Sprintf("error delete verification task for booking %s", booking.ID), err)
		}
	}

	if booking.PaymentStatus != entity.PaymentPaid {
		return
	}

	customer, err := u.customers.FindCustomer(ctx, booking.CustomerID)
	if err != nil {
		u.log.Error(ctx, fmt.Sprintf("payment confirmation for booking %s not sent", booking.ID), err)
		return
	}
	data := bookingData(booking, customer)
	data["invoice_no"] = booking.InvoiceNo.String
	notifier.SendBestEffort(ctx, u.notifier, u.log, customer.Email, notifier.TemplatePaymentConfirmation, data)
}

func (u *usecase) VerifyPendingPayment(ctx context.Context, payload *request.PendingPaymentTask) error {
	booking, err := u.findBooking(ctx, payload.BookingID)
	if errors.IsNotFound(err) {
		u.log.Warn(ctx, fmt.Sprintf("booking %s from verification task not found", payload.BookingID))
		return nil
	}
	if err != nil {
		return err
	}

	if booking.IsTerminal() || !booking.GatewayOrderID.Valid {
		return nil
	}

	_, err = u.VerifyPayment(ctx, &request.VerifyPayment{
		BookingID:       booking.ID.String(),
		ExternalOrderID: booking.GatewayOrderID.String,
	})
	return err
}

func alreadyProcessed(booking entity.Booking) response.Verification {
	return response.Verification{
		Outcome: response.VerificationAlreadyProcessed,
		Booking: toResponse(booking),
	}
}

func bookingData(booking entity.Booking, customer customerEntity.Customer) map[string]any {
	return map[string]any{
		"first_name":   customer.FirstName,
		"order_number": booking.OrderNumber,
		"vehicle_id":   booking.VehicleID,
		"start_date":   helpers.FormatDateTime(booking.StartDate),
		"end_date":     helpers.FormatDateTime(booking.EndDate),
		"total_price":  booking.TotalPrice,
		"currency":     booking.Currency,
		"payment_type": string(booking.PaymentType),
	}
}

func withBookingID(rawURL string, id uuid.UUID) string {
	if rawURL == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "booking_id=" + id.String()
}

func toResponse(booking entity.Booking) response.Booking {
	resp := response.Booking{
		ID:            booking.ID.String(),
		CustomerID:    booking.CustomerID.String(),
		VehicleID:     booking.VehicleID,
		StartDate:     helpers.FormatDateTime(booking.StartDate),
		EndDate:       helpers.FormatDateTime(booking.EndDate),
		TotalPrice:    booking.TotalPrice,
		Currency:      booking.Currency,
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
		PaymentType:   string(booking.PaymentType),
		OrderNumber:   booking.OrderNumber,
		Extras:        []string(booking.Extras),
		CreatedAt:     helpers.FormatDateTime(booking.CreatedAt),
	}
	if resp.Extras == nil {
		resp.Extras = []string{}
	}
	if booking.InvoiceNo.Valid {
		invoice := booking.InvoiceNo.String
		resp.InvoiceNo = &invoice
	}
	if booking.TransactionID.Valid {
		transactionID := booking.TransactionID.String
		resp.TransactionID = &transactionID
	}
	return resp
}
