package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rental-service/config"
	"rental-service/internal/module/booking/models/entity"
	sequenceEntity "rental-service/internal/module/sequence/models/entity"
	sequenceRepositories "rental-service/internal/module/sequence/repositories"
	"rental-service/internal/pkg/database"
	internal_errors "rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/log"
	"rental-service/internal/pkg/scheduler"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	circuit "github.com/rubyist/circuitbreaker"
	"go.elastic.co/apm"
)

type repositories struct {
	db          *sqlx.DB
	log         log.Logger
	httpClient  *circuit.HTTPClient
	cfgCatalog  *config.CatalogServiceConfig
	cfgBooking  *config.BookingConfig
	redisClient *redis.Client
	sequence    sequenceRepositories.Repositories
	tasks       scheduler.TaskQueue
}

type Repositories interface {
	// http
	FindVehicle(ctx context.Context, vehicleID int64) (entity.Vehicle, error)
	// db
	CreateBooking(ctx context.Context, booking entity.Booking) (entity.Booking, error)
	FindBookingByID(ctx context.Context, id uuid.UUID) (entity.Booking, error)
	FindBookingByGatewayOrder(ctx context.Context, externalOrderID string) (entity.Booking, error)
	SetGatewayOrder(ctx context.Context, id uuid.UUID, externalOrderID, redirectURL string) error
	SetTaskID(ctx context.Context, id uuid.UUID, taskID string) error
	FindSuccessfulAttempt(ctx context.Context, externalOrderID string) (entity.PaymentAttempt, error)
	ApplyPaymentOutcome(ctx context.Context, outcome entity.PaymentOutcome) (entity.AppliedOutcome, error)
	AppendAttempt(ctx context.Context, attempt entity.PaymentAttempt) error
	// scheduler
	SetTaskScheduler(ctx context.Context, delay time.Duration, payload []byte) (string, error)
	DeleteTaskScheduler(ctx context.Context, taskID string) error
}

func New(
	db *sqlx.DB,
	log log.Logger,
	httpClient *circuit.HTTPClient,
	redisClient *redis.Client,
	cfgCatalog *config.CatalogServiceConfig,
	cfgBooking *config.BookingConfig,
	sequence sequenceRepositories.Repositories,
	tasks scheduler.TaskQueue,
) Repositories {
	return &repositories{
		db:          db,
		log:         log,
		httpClient:  httpClient,
		redisClient: redisClient,
		cfgCatalog:  cfgCatalog,
		cfgBooking:  cfgBooking,
		sequence:    sequence,
		tasks:       tasks,
	}
}

const selectBooking = `SELECT id, customer_id, vehicle_id, start_date, end_date, total_price, currency, status,
	payment_status, payment_type, order_number, invoice_no, transaction_id, gateway_order_id,
	gateway_redirect_url, extras, task_id, created_at, updated_at FROM bookings`

func vehicleCacheKey(id int64) string {
	return fmt.Sprintf("vehicle:%d", id)
}

// FindVehicle implements Repositories. Catalog answers are cached in redis; a cache failure falls
// through to the catalog.
func (r *repositories) FindVehicle(ctx context.Context, vehicleID int64) (entity.Vehicle, error) {
	if r.redisClient != nil {
		data, err := r.redisClient.Get(ctx, vehicleCacheKey(vehicleID)).Bytes()
		if err == nil {
			var vehicle entity.Vehicle
			if err := json.Unmarshal(data, &vehicle); err == nil {
				return vehicle, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			r.log.Warn(ctx, "error get vehicle from cache", err)
		}
	}

	url := fmt.Sprintf("http://%s:%s/api/private/vehicles/%d", r.cfgCatalog.Host, r.cfgCatalog.Port, vehicleID)
	resp, err := r.httpClient.Get(url)
	if err != nil {
		r.log.Error(ctx, "error call catalog service", err)
		return entity.Vehicle{}, internal_errors.InternalServerError("error call catalog service")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return entity.Vehicle{}, internal_errors.NotFoundError("vehicle not found")
	}
	if resp.StatusCode != http.StatusOK {
		r.log.Error(ctx, "unexpected catalog service status", resp.StatusCode)
		return entity.Vehicle{}, internal_errors.InternalServerError("error call catalog service")
	}

	var vehicle entity.Vehicle
	if err := json.NewDecoder(resp.Body).Decode(&vehicle); err != nil {
		r.log.Error(ctx, "error decode catalog response", err)
		return entity.Vehicle{}, internal_errors.InternalServerError("error decode catalog response")
	}

	if r.redisClient != nil {
		if data, err := json.Marshal(vehicle); err == nil {
			if err := r.redisClient.Set(ctx, vehicleCacheKey(vehicleID), data, r.cfgCatalog.CacheTTL).Err(); err != nil {
				r.log.Warn(ctx, "error cache vehicle", err)
			}
		}
	}

	return vehicle, nil
}

// CreateBooking implements Repositories. The order number is allocated in the same transaction as
// the insert, so a failed insert hands the number back.
func (r *repositories) CreateBooking(ctx context.Context, booking entity.Booking) (entity.Booking, error) {
	span, ctx := apm.StartSpan(ctx, "booking.create", "db.postgresql")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.log.Error(ctx, "error starting transaction", err)
		return entity.Booking{}, internal_errors.InternalServerError("error starting transaction")
	}
	defer tx.Rollback()

	n, err := r.sequence.AllocateTx(ctx, tx, database.CounterOrderNumber)
	if err != nil {
		return entity.Booking{}, err
	}
	booking.OrderNumber = sequenceEntity.Counter{Name: database.CounterOrderNumber, Prefix: r.cfgBooking.OrderPrefix}.Format(n)

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO bookings (id, customer_id, vehicle_id, start_date, end_date, total_price, currency,
			status, payment_status, payment_type, order_number, extras, task_id, created_at)
		VALUES (:id, :customer_id, :vehicle_id, :start_date, :end_date, :total_price, :currency,
			:status, :payment_status, :payment_type, :order_number, :extras, :task_id, :created_at)
	`, booking)
	if err != nil {
		r.log.Error(ctx, "error insert booking", err)
		return entity.Booking{}, internal_errors.InternalServerError("error insert booking")
	}

	if err := tx.Commit(); err != nil {
		r.log.Error(ctx, "error committing booking", err)
		return entity.Booking{}, internal_errors.InternalServerError("error committing transaction")
	}

	return booking, nil
}

// FindBookingByID implements Repositories. A missing booking yields an empty entity.
func (r *repositories) FindBookingByID(ctx context.Context, id uuid.UUID) (entity.Booking, error) {
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, selectBooking+` WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Booking{}, nil
	}
	if err != nil {
		r.log.Error(ctx, "error find booking by id", err)
		return entity.Booking{}, internal_errors.InternalServerError("error find booking by id")
	}
	return booking, nil
}

// FindBookingByGatewayOrder implements Repositories. A missing booking yields an empty entity.
func (r *repositories) FindBookingByGatewayOrder(ctx context.Context, externalOrderID string) (entity.Booking, error) {
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, selectBooking+` WHERE gateway_order_id = $1`, externalOrderID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Booking{}, nil
	}
	if err != nil {
		r.log.Error(ctx, "error find booking by gateway order", err)
		return entity.Booking{}, internal_errors.InternalServerError("error find booking by gateway order")
	}
	return booking, nil
}

// SetGatewayOrder implements Repositories. The first order stored on a pending booking wins.
func (r *repositories) SetGatewayOrder(ctx context.Context, id uuid.UUID, externalOrderID, redirectURL string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET gateway_order_id = $1, gateway_redirect_url = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4 AND gateway_order_id IS NULL
	`, externalOrderID, redirectURL, id, entity.StatusPending)
	if err != nil {
		r.log.Error(ctx, "error set gateway order", err)
		return internal_errors.InternalServerError("error set gateway order")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return internal_errors.ConflictError("booking is no longer awaiting a gateway order")
	}
	return nil
}

// SetTaskID implements Repositories.
func (r *repositories) SetTaskID(ctx context.Context, id uuid.UUID, taskID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bookings SET task_id = $1, updated_at = NOW() WHERE id = $2`, taskID, id)
	if err != nil {
		r.log.Error(ctx, "error set task id", err)
		return internal_errors.InternalServerError("error set task id")
	}
	return nil
}

// FindSuccessfulAttempt implements Repositories. A missing attempt yields an empty entity.
func (r *repositories) FindSuccessfulAttempt(ctx context.Context, externalOrderID string) (entity.PaymentAttempt, error) {
	var attempt entity.PaymentAttempt
	err := r.db.GetContext(ctx, &attempt, `
		SELECT id, external_order_id, booking_id, status, status_code, detail, payload, created_at
		FROM payment_attempts WHERE external_order_id = $1 AND status = $2 LIMIT 1
	`, externalOrderID, entity.AttemptSuccess)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.PaymentAttempt{}, nil
	}
	if err != nil {
		r.log.Error(ctx, "error find payment attempt", err)
		return entity.PaymentAttempt{}, internal_errors.InternalServerError("error find payment attempt")
	}
	return attempt, nil
}

// ApplyPaymentOutcome implements Repositories. The booking row is locked and the idempotency checks
// are repeated under the lock, so two verifications of one order settle it once. The booking update,
// the invoice number and the attempt entry commit together.
func (r *repositories) ApplyPaymentOutcome(ctx context.Context, outcome entity.PaymentOutcome) (entity.AppliedOutcome, error) {
	span, ctx := apm.StartSpan(ctx, "booking.apply_payment_outcome", "db.postgresql")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.log.Error(ctx, "error starting transaction", err)
		return entity.AppliedOutcome{}, internal_errors.InternalServerError("error starting transaction")
	}
	defer tx.Rollback()

	var booking entity.Booking
	err = tx.GetContext(ctx, &booking, selectBooking+` WHERE id = $1 FOR UPDATE`, outcome.BookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.AppliedOutcome{}, internal_errors.NotFoundError("booking not found")
	}
	if err != nil {
		r.log.Error(ctx, "error locking booking", err)
		return entity.AppliedOutcome{}, internal_errors.InternalServerError("error locking booking")
	}

	var settled bool
	err = tx.GetContext(ctx, &settled, `
		SELECT EXISTS (SELECT 1 FROM payment_attempts WHERE external_order_id = $1 AND status = $2)
	`, outcome.ExternalOrderID, entity.AttemptSuccess)
	if err != nil {
		r.log.Error(ctx, "error check payment attempt", err)
		return entity.AppliedOutcome{}, internal_errors.InternalServerError("error check payment attempt")
	}
	if settled || booking.PaymentStatus == entity.PaymentPaid {
		return entity.AppliedOutcome{Booking: booking, Applied: false}, nil
	}

	attempt := entity.PaymentAttempt{
		ExternalOrderID: outcome.ExternalOrderID,
		BookingID:       booking.ID,
		StatusCode:      outcome.StatusCode,
		Detail:          outcome.Detail,
		Payload:         outcome.Payload,
	}

	if outcome.Paid {
		n, err := r.sequence.AllocateTx(ctx, tx, database.CounterInvoiceNumber)
		if err != nil {
			return entity.AppliedOutcome{}, err
		}
		invoice := sequenceEntity.Counter{Name: database.CounterInvoiceNumber, Prefix: r.cfgBooking.InvoicePrefix}.Format(n)

		booking.Status = entity.StatusConfirmed
		booking.PaymentStatus = entity.PaymentPaid
		booking.InvoiceNo = sql.NullString{String: invoice, Valid: true}
		booking.TransactionID = sql.NullString{String: outcome.ExternalOrderID, Valid: true}
		attempt.Status = entity.AttemptSuccess
	} else {
		// a confirmed booking keeps its state; only the attempt is recorded
		if booking.Status == entity.StatusPending {
			booking.Status = entity.StatusFailed
			booking.PaymentStatus = entity.PaymentFailed
		}
		attempt.Status = entity.AttemptFailed
	}

	_, err = tx.NamedExecContext(ctx, `
		UPDATE bookings
		SET status = :status, payment_status = :payment_status, invoice_no = :invoice_no,
			transaction_id = :transaction_id, updated_at = NOW()
		WHERE id = :id
	`, booking)
	if err != nil {
		r.log.Error(ctx, "error update booking payment", err)
		return entity.AppliedOutcome{}, internal_errors.InternalServerError("error update booking payment")
	}

	if err := insertAttempt(ctx, tx, attempt); err != nil {
		r.log.Error(ctx, "error append payment attempt", err)
		return entity.AppliedOutcome{}, internal_errors.InternalServerError("error append payment attempt")
	}

	if err := tx.Commit(); err != nil {
		r.log.Error(ctx, "error committing payment outcome", err)
		return entity.AppliedOutcome{}, internal_errors.InternalServerError("error committing transaction")
	}

	return entity.AppliedOutcome{Booking: booking, Applied: true}, nil
}

// AppendAttempt implements Repositories.
func (r *repositories) AppendAttempt(ctx context.Context, attempt entity.PaymentAttempt) error {
	if err := insertAttempt(ctx, r.db, attempt); err != nil {
		r.log.Error(ctx, "error append payment attempt", err)
		return internal_errors.InternalServerError("error append payment attempt")
	}
	return nil
}

func insertAttempt(ctx context.Context, e sqlx.ExtContext, attempt entity.PaymentAttempt) error {
	_, err := sqlx.NamedExecContext(ctx, e, `
		INSERT INTO payment_attempts (external_order_id, booking_id, status, status_code, detail, payload)
		VALUES (:external_order_id, :booking_id, :status, :status_code, :detail, :payload)
	`, attempt)
	return err
}

// SetTaskScheduler implements Repositories.
func (r *repositories) SetTaskScheduler(ctx context.Context, delay time.Duration, payload []byte) (string, error) {
	taskID, err := r.tasks.Enqueue(ctx, scheduler.TypeVerifyPendingPayment, payload, delay)
	if err != nil {
		r.log.Error(ctx, "error enqueue task", err)
		return "", internal_errors.InternalServerError("error enqueue task")
	}
	return taskID, nil
}

// DeleteTaskScheduler implements Repositories.
func (r *repositories) DeleteTaskScheduler(ctx context.Context, taskID string) error {
	if err := r.tasks.Delete(ctx, taskID); err != nil {
		r.log.Error(ctx, "error delete task", err)
		return internal_errors.InternalServerError("error delete task")
	}
	return nil
}
