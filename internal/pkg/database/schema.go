package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	CounterOrderNumber   = "order_number"
	CounterInvoiceNumber = "invoice_number"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sequence_counters (
		name VARCHAR(64) PRIMARY KEY,
		next_value TEXT,
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		first_name VARCHAR(255) NOT NULL,
		last_name VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		date_of_birth DATE,
		street VARCHAR(255) NOT NULL DEFAULT '',
		city VARCHAR(255) NOT NULL DEFAULT '',
		postal_code VARCHAR(32) NOT NULL DEFAULT '',
		country VARCHAR(64) NOT NULL DEFAULT '',
		password_hash TEXT,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		customer_id UUID NOT NULL REFERENCES customers (id),
		vehicle_id BIGINT NOT NULL,
		start_date TIMESTAMP WITH TIME ZONE NOT NULL,
		end_date TIMESTAMP WITH TIME ZONE NOT NULL,
		total_price NUMERIC(12, 2) NOT NULL,
		currency VARCHAR(8) NOT NULL,
		status VARCHAR(16) NOT NULL,
		payment_status VARCHAR(16) NOT NULL,
		payment_type VARCHAR(16) NOT NULL,
		order_number VARCHAR(32) NOT NULL UNIQUE,
		invoice_no VARCHAR(32) UNIQUE,
		transaction_id VARCHAR(128),
		gateway_order_id VARCHAR(128),
		gateway_redirect_url TEXT,
		extras JSONB NOT NULL DEFAULT '[]',
		task_id VARCHAR(128) NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE,
		CONSTRAINT invoice_only_when_paid CHECK ((invoice_no IS NULL) = (payment_status <> 'Paid'))
	)`,
	`CREATE TABLE IF NOT EXISTS payment_attempts (
		id BIGSERIAL PRIMARY KEY,
		external_order_id VARCHAR(128) NOT NULL,
		booking_id UUID NOT NULL REFERENCES bookings (id),
		status VARCHAR(16) NOT NULL,
		status_code VARCHAR(32) NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		payload TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS payment_attempts_success_uniq
		ON payment_attempts (external_order_id) WHERE status = 'success'`,
	`CREATE INDEX IF NOT EXISTS payment_attempts_booking_idx ON payment_attempts (booking_id)`,
	`CREATE INDEX IF NOT EXISTS bookings_gateway_order_idx ON bookings (gateway_order_id)`,
}

// InitialiseDB creates the tables and seeds the counter rows when they are missing.
func InitialiseDB(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	for _, name := range []string{CounterOrderNumber, CounterInvoiceNumber} {
		_, err := db.ExecContext(ctx, `INSERT INTO sequence_counters (name, next_value)
			VALUES ($1, '1') ON CONFLICT (name) DO NOTHING`, name)
		if err != nil {
			return fmt.Errorf("seeding counter %s: %w", name, err)
		}
	}

	return nil
}
