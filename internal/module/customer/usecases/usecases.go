package usecases

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rental-service/internal/module/customer/models/entity"
	"rental-service/internal/module/customer/models/request"
	"rental-service/internal/module/customer/models/response"
	"rental-service/internal/module/customer/repositories"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/log"
	"rental-service/internal/pkg/notifier"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type usecase struct {
	repo     repositories.Repositories
	log      log.Logger
	notifier notifier.Notifier
	now      func() time.Time
}

type Usecase interface {
	// Resolve finds or creates the customer for the submitted details. Conflict and ExactMatch are
	// outcomes, not errors; the caller decides how to proceed.
	Resolve(ctx context.Context, details *request.CustomerDetails) (response.Resolution, error)
	ApplyResolution(ctx context.Context, payload *request.ApplyResolution) (response.Resolution, error)
	FindCustomer(ctx context.Context, id uuid.UUID) (entity.Customer, error)
}

func New(repo repositories.Repositories, log log.Logger, notifier notifier.Notifier) Usecase {
	return &usecase{
		repo:     repo,
		log:      log,
		notifier: notifier,
		now:      time.Now,
	}
}

func (u *usecase) Resolve(ctx context.Context, details *request.CustomerDetails) (response.Resolution, error) {
	existing, err := u.repo.FindCustomerByEmail(ctx, details.Email)
	if err != nil {
		return response.Resolution{}, err
	}

	if existing.ID == uuid.Nil {
		created, err := u.create(ctx, details)
		if errors.IsConflict(err) {
			// lost a race with a concurrent registration of the same email
			existing, err = u.repo.FindCustomerByEmail(ctx, details.Email)
			if err != nil {
				return response.Resolution{}, err
			}
			if existing.ID == uuid.Nil {
				return response.Resolution{}, errors.InternalServerError("customer vanished after conflict")
			}
			return u.compare(ctx, existing, details)
		}
		if err != nil {
			return response.Resolution{}, err
		}
		return created, nil
	}

	return u.compare(ctx, existing, details)
}

func (u *usecase) create(ctx context.Context, details *request.CustomerDetails) (response.Resolution, error) {
	customer := entity.Customer{
		ID:          uuid.New(),
		Email:       details.Email,
		FirstName:   strings.TrimSpace(details.FirstName),
		LastName:    strings.TrimSpace(details.LastName),
		Phone:       strings.TrimSpace(details.Phone),
		DateOfBirth: parseDate(details.DateOfBirth),
		Street:      details.Street,
		City:        details.City,
		PostalCode:  details.PostalCode,
		Country:     details.Country,
		CreatedAt:   u.now(),
	}

	if details.Password != "" {
		hash, err := hashPassword(details.Password)
		if err != nil {
			u.log.Error(ctx, "error hash password", err)
			return response.Resolution{}, errors.InternalServerError("error hash password")
		}
		customer.PasswordHash = sql.NullString{String: hash, Valid: true}
		customer.Verified = true
	}

	if err := u.repo.InsertCustomer(ctx, customer); err != nil {
		return response.Resolution{}, err
	}

	notifier.SendBestEffort(ctx, u.notifier, u.log, customer.Email, notifier.TemplateWelcome, map[string]any{
		"first_name": customer.FirstName,
		"guest":      customer.IsGuest(),
	})

	return response.Resolution{
		CustomerID: customer.ID.String(),
		Outcome:    string(entity.OutcomeCreated),
	}, nil
}

func (u *usecase) compare(ctx context.Context, existing entity.Customer, details *request.CustomerDetails) (response.Resolution, error) {
	diff := Diff(existing, details)
	if len(diff) > 0 {
		return response.Resolution{
			Outcome: string(entity.OutcomeConflict),
			Diff:    diff,
		}, nil
	}

	if details.Password != "" && existing.IsGuest() {
		if err := u.upgrade(ctx, existing, details.Password); err != nil {
			return response.Resolution{}, err
		}
		return response.Resolution{
			CustomerID: existing.ID.String(),
			Outcome:    string(entity.OutcomeUpgraded),
		}, nil
	}

	// the id is only handed out once a credential is set or verified
	return response.Resolution{
		Outcome: string(entity.OutcomeExactMatch),
	}, nil
}

func (u *usecase) upgrade(ctx context.Context, existing entity.Customer, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		u.log.Error(ctx, "error hash password", err)
		return errors.InternalServerError("error hash password")
	}

	if err := u.repo.SetCredential(ctx, existing.ID, hash); err != nil {
		return err
	}

	notifier.SendBestEffort(ctx, u.notifier, u.log, existing.Email, notifier.TemplateAccountUpgraded, map[string]any{
		"first_name": existing.FirstName,
	})
	return nil
}

func (u *usecase) ApplyResolution(ctx context.Context, payload *request.ApplyResolution) (response.Resolution, error) {
	details := &payload.Details

	if payload.Action == entity.ActionUseDifferentEmail {
		return response.Resolution{}, errors.ValidationError("choose a different email address", errors.FieldError{
			Field:   "email",
			Message: "email is already registered",
		})
	}

	existing, err := u.repo.FindCustomerByEmail(ctx, details.Email)
	if err != nil {
		return response.Resolution{}, err
	}
	if existing.ID == uuid.Nil {
		return response.Resolution{}, errors.NotFoundError("customer not found")
	}

	switch payload.Action {
	case entity.ActionUpdate:
		return u.update(ctx, existing, details)
	case entity.ActionAuthenticate:
		if existing.IsGuest() {
			return u.signInGuest(ctx, existing, details)
		}
		if err := u.checkPassword(ctx, existing, details.Password); err != nil {
			return response.Resolution{}, err
		}
		return response.Resolution{CustomerID: existing.ID.String(), Outcome: string(entity.OutcomeAuthenticated)}, nil
	}

	return response.Resolution{}, errors.ValidationError("unknown resolution action", errors.FieldError{
		Field:   "action",
		Message: "must be one of update, authenticate, use_different_email",
	})
}

// update overwrites the stored details. A credentialed customer must prove the password first; a guest
// record can be corrected but never gains a credential here, and its id is not returned.
func (u *usecase) update(ctx context.Context, existing entity.Customer, details *request.CustomerDetails) (response.Resolution, error) {
	if existing.IsGuest() && details.Password != "" {
		return response.Resolution{}, errors.ValidationError("a password can only be set on unchanged details", errors.FieldError{
			Field:   "password",
			Message: "update the details first, then resolve again with a password",
		})
	}
	if !existing.IsGuest() {
		if err := u.checkPassword(ctx, existing, details.Password); err != nil {
			return response.Resolution{}, err
		}
	}

	if err := u.repo.UpdateCustomer(ctx, applyDetails(existing, details)); err != nil {
		return response.Resolution{}, err
	}

	res := response.Resolution{Outcome: string(entity.OutcomeUpdated)}
	if !existing.IsGuest() {
		res.CustomerID = existing.ID.String()
	}
	return res, nil
}

// signInGuest lets a guest sign in by setting a password, on the same terms as an upgrade through Resolve.
func (u *usecase) signInGuest(ctx context.Context, existing entity.Customer, details *request.CustomerDetails) (response.Resolution, error) {
	if details.Password == "" {
		return response.Resolution{}, errors.UnauthorizedError("customer has no password yet, submit one with the registered details")
	}
	if len(Diff(existing, details)) > 0 {
		u.log.Warn(ctx, fmt.Sprintf("guest sign in with differing details for customer %s", existing.ID))
		return response.Resolution{}, errors.UnauthorizedError("invalid email or password")
	}

	if err := u.upgrade(ctx, existing, details.Password); err != nil {
		return response.Resolution{}, err
	}
	return response.Resolution{CustomerID: existing.ID.String(), Outcome: string(entity.OutcomeUpgraded)}, nil
}

func (u *usecase) checkPassword(ctx context.Context, existing entity.Customer, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash.String), []byte(password)); err != nil {
		u.log.Warn(ctx, fmt.Sprintf("failed authentication for customer %s", existing.ID))
		return errors.UnauthorizedError("invalid email or password")
	}
	return nil
}

func (u *usecase) FindCustomer(ctx context.Context, id uuid.UUID) (entity.Customer, error) {
	customer, err := u.repo.FindCustomerByID(ctx, id)
	if err != nil {
		return entity.Customer{}, err
	}
	if customer.ID == uuid.Nil {
		return entity.Customer{}, errors.NotFoundError("customer not found")
	}
	return customer, nil
}

// Diff lists the identity fields where submitted differs from existing. Names compare
// case-insensitively, phones ignore formatting characters, empty submitted fields are skipped.
func Diff(existing entity.Customer, submitted *request.CustomerDetails) []response.FieldDiff {
	var diff []response.FieldDiff

	if s := strings.TrimSpace(submitted.FirstName); s != "" && !strings.EqualFold(s, strings.TrimSpace(existing.FirstName)) {
		diff = append(diff, response.FieldDiff{Field: "firstName", Existing: existing.FirstName, New: s})
	}
	if s := strings.TrimSpace(submitted.LastName); s != "" && !strings.EqualFold(s, strings.TrimSpace(existing.LastName)) {
		diff = append(diff, response.FieldDiff{Field: "lastName", Existing: existing.LastName, New: s})
	}
	if s := strings.TrimSpace(submitted.Phone); s != "" && normalizePhone(s) != normalizePhone(existing.Phone) {
		diff = append(diff, response.FieldDiff{Field: "phone", Existing: existing.Phone, New: s})
	}
	if s := strings.TrimSpace(submitted.DateOfBirth); s != "" {
		stored := ""
		if existing.DateOfBirth.Valid {
			stored = existing.DateOfBirth.Time.Format(entity.DateLayout)
		}
		if stored != s {
			diff = append(diff, response.FieldDiff{Field: "dateOfBirth", Existing: stored, New: s})
		}
	}

	return diff
}

func applyDetails(existing entity.Customer, details *request.CustomerDetails) entity.Customer {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&existing.FirstName, details.FirstName)
	set(&existing.LastName, details.LastName)
	set(&existing.Phone, details.Phone)
	set(&existing.Street, details.Street)
	set(&existing.City, details.City)
	set(&existing.PostalCode, details.PostalCode)
	set(&existing.Country, details.Country)
	if dob := parseDate(details.DateOfBirth); dob.Valid {
		existing.DateOfBirth = dob
	}
	return existing
}

func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.', '\t':
			return -1
		}
		return r
	}, phone)
}

func parseDate(s string) sql.NullTime {
	t, err := time.Parse(entity.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
