package repositories

import (
	"context"
	"database/sql"
	"errors"

	"rental-service/internal/module/customer/models/entity"
	internal_errors "rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type repositories struct {
	db  *sqlx.DB
	log log.Logger
}

type Repositories interface {
	FindCustomerByEmail(ctx context.Context, email string) (entity.Customer, error)
	FindCustomerByID(ctx context.Context, id uuid.UUID) (entity.Customer, error)
	InsertCustomer(ctx context.Context, customer entity.Customer) error
	UpdateCustomer(ctx context.Context, customer entity.Customer) error
	SetCredential(ctx context.Context, id uuid.UUID, passwordHash string) error
}

func New(db *sqlx.DB, log log.Logger) Repositories {
	return &repositories{
		db:  db,
		log: log,
	}
}

const selectCustomer = `SELECT id, email, first_name, last_name, phone, date_of_birth, street, city,
	postal_code, country, password_hash, verified, created_at, updated_at FROM customers`

// FindCustomerByEmail implements Repositories. A missing customer yields an empty entity.
func (r *repositories) FindCustomerByEmail(ctx context.Context, email string) (entity.Customer, error) {
	var customer entity.Customer
	err := r.db.GetContext(ctx, &customer, selectCustomer+` WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Customer{}, nil
	}
	if err != nil {
		r.log.Error(ctx, "error find customer by email", err)
		return entity.Customer{}, internal_errors.InternalServerError("error find customer by email")
	}
	return customer, nil
}

// FindCustomerByID implements Repositories. A missing customer yields an empty entity.
func (r *repositories) FindCustomerByID(ctx context.Context, id uuid.UUID) (entity.Customer, error) {
	var customer entity.Customer
	err := r.db.GetContext(ctx, &customer, selectCustomer+` WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Customer{}, nil
	}
	if err != nil {
		r.log.Error(ctx, "error find customer by id", err)
		return entity.Customer{}, internal_errors.InternalServerError("error find customer by id")
	}
	return customer, nil
}

// InsertCustomer implements Repositories.
func (r *repositories) InsertCustomer(ctx context.Context, customer entity.Customer) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO customers (id, email, first_name, last_name, phone, date_of_birth, street, city,
			postal_code, country, password_hash, verified, created_at)
		VALUES (:id, :email, :first_name, :last_name, :phone, :date_of_birth, :street, :city,
			:postal_code, :country, :password_hash, :verified, :created_at)
	`, customer)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return internal_errors.ConflictError("customer email already registered")
		}
		r.log.Error(ctx, "error insert customer", err)
		return internal_errors.InternalServerError("error insert customer")
	}
	return nil
}

// UpdateCustomer implements Repositories. The credential is not touched.
func (r *repositories) UpdateCustomer(ctx context.Context, customer entity.Customer) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE customers
		SET first_name = :first_name, last_name = :last_name, phone = :phone,
			date_of_birth = :date_of_birth, street = :street, city = :city,
			postal_code = :postal_code, country = :country, updated_at = NOW()
		WHERE id = :id
	`, customer)
	if err != nil {
		r.log.Error(ctx, "error update customer", err)
		return internal_errors.InternalServerError("error update customer")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return internal_errors.ConflictError("customer already has a password")
	}
	return nil
}

// SetCredential implements Repositories. Only a guest gains a credential; an existing one is never replaced.
func (r *repositories) SetCredential(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE customers SET password_hash = $1, verified = TRUE, updated_at = NOW()
		WHERE id = $2 AND password_hash IS NULL`,
		passwordHash, id)
	if err != nil {
		r.log.Error(ctx, "error set customer credential", err)
		return internal_errors.InternalServerError("error set customer credential")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return internal_errors.ConflictError("customer already has a password")
	}
	return nil
}
