package entity

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID           uuid.UUID      `db:"id"`
	Email        string         `db:"email"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	Phone        string         `db:"phone"`
	DateOfBirth  sql.NullTime   `db:"date_of_birth"`
	Street       string         `db:"street"`
	City         string         `db:"city"`
	PostalCode   string         `db:"postal_code"`
	Country      string         `db:"country"`
	PasswordHash sql.NullString `db:"password_hash"`
	Verified     bool           `db:"verified"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    sql.NullTime   `db:"updated_at"`
}

// IsGuest reports whether the customer has no credential.
func (c Customer) IsGuest() bool {
	return !c.PasswordHash.Valid || c.PasswordHash.String == ""
}

func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomeUpgraded      Outcome = "upgraded"
	OutcomeExactMatch    Outcome = "exact_match"
	OutcomeConflict      Outcome = "conflict"
	OutcomeUpdated       Outcome = "updated"
	OutcomeAuthenticated Outcome = "authenticated"
)

// Resolution actions a caller may take after a Conflict or ExactMatch outcome.
const (
	ActionUpdate            = "update"
	ActionAuthenticate      = "authenticate"
	ActionUseDifferentEmail = "use_different_email"
)

const DateLayout = "2006-01-02"
