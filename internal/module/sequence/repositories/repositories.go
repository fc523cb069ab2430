package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	internal_errors "rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/log"

	"github.com/jmoiron/sqlx"
	"go.elastic.co/apm"
)

type repositories struct {
	db  *sqlx.DB
	log log.Logger
}

// Repositories issues values of named counters. Every value is handed out once and the stored
// next value is always lastIssued+1 after a successful call.
type Repositories interface {
	// Allocate runs the allocation in its own transaction.
	Allocate(ctx context.Context, name string) (int64, error)
	// AllocateTx allocates inside tx, so the value is released again if tx rolls back.
	AllocateTx(ctx context.Context, tx *sqlx.Tx, name string) (int64, error)
}

func New(db *sqlx.DB, log log.Logger) Repositories {
	return &repositories{
		db:  db,
		log: log,
	}
}

// Allocate implements Repositories.
func (r *repositories) Allocate(ctx context.Context, name string) (int64, error) {
	span, ctx := apm.StartSpan(ctx, "sequence.allocate", "db.postgresql")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.log.Error(ctx, "error starting transaction", err)
		return 0, internal_errors.InternalServerError("error starting transaction")
	}

	value, err := r.AllocateTx(ctx, tx, name)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		r.log.Error(ctx, "error committing sequence allocation", err)
		return 0, internal_errors.InternalServerError("error committing transaction")
	}

	return value, nil
}

// AllocateTx implements Repositories.
func (r *repositories) AllocateTx(ctx context.Context, tx *sqlx.Tx, name string) (int64, error) {
	var current sql.NullString
	err := tx.GetContext(ctx, &current, `SELECT next_value FROM sequence_counters WHERE name = $1 FOR UPDATE`, name)
	if errors.Is(err, sql.ErrNoRows) {
		r.log.Error(ctx, fmt.Sprintf("sequence counter %q is not configured", name))
		return 0, internal_errors.ConfigurationError(fmt.Sprintf("sequence counter %q is not configured", name))
	}
	if err != nil {
		r.log.Error(ctx, "error locking sequence counter", err)
		return 0, internal_errors.InternalServerError("error locking sequence counter")
	}

	value := parseNextValue(current)

	_, err = tx.ExecContext(ctx, `UPDATE sequence_counters SET next_value = $1, updated_at = NOW() WHERE name = $2`,
		strconv.FormatInt(value+1, 10), name)
	if err != nil {
		r.log.Error(ctx, "error updating sequence counter", err)
		return 0, internal_errors.InternalServerError("error updating sequence counter")
	}

	return value, nil
}

// parseNextValue treats a missing, unparsable or non-positive stored value as 1.
func parseNextValue(v sql.NullString) int64 {
	if !v.Valid {
		return 1
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v.String), 10, 64)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
