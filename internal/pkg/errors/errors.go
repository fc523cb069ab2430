package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindBadRequest       Kind = "bad_request"
	KindUnauthorized     Kind = "unauthorized"
	KindValidation       Kind = "validation"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindAlreadyProcessed Kind = "already_processed"
	KindConfiguration    Kind = "configuration"
	KindGateway          Kind = "gateway"
	KindInternal         Kind = "internal"
)

// FieldError is a single field-level detail attached to validation and conflict errors.
type FieldError struct {
	Field    string `json:"field"`
	Message  string `json:"message,omitempty"`
	Existing string `json:"existing,omitempty"`
	New      string `json:"new,omitempty"`
}

type CustomError struct {
	HttpCode int
	Kind     Kind
	Message  string
	Fields   []FieldError
	Err      error
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// Exposable reports whether the message and fields may be shown to the caller.
func (e *CustomError) Exposable() bool {
	return e.HttpCode < http.StatusInternalServerError
}

func BadRequest(msg string) error {
	return &CustomError{HttpCode: http.StatusBadRequest, Kind: KindBadRequest, Message: msg}
}

func UnauthorizedError(msg string) error {
	return &CustomError{HttpCode: http.StatusUnauthorized, Kind: KindUnauthorized, Message: msg}
}

func InternalServerError(msg string) error {
	return &CustomError{HttpCode: http.StatusInternalServerError, Kind: KindInternal, Message: msg}
}

func ValidationError(msg string, fields ...FieldError) error {
	return &CustomError{HttpCode: http.StatusBadRequest, Kind: KindValidation, Message: msg, Fields: fields}
}

func NotFoundError(msg string) error {
	return &CustomError{HttpCode: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

func ConflictError(msg string, fields ...FieldError) error {
	return &CustomError{HttpCode: http.StatusConflict, Kind: KindConflict, Message: msg, Fields: fields}
}

func AlreadyProcessedError(msg string) error {
	return &CustomError{HttpCode: http.StatusConflict, Kind: KindAlreadyProcessed, Message: msg}
}

func ConfigurationError(msg string) error {
	return &CustomError{HttpCode: http.StatusInternalServerError, Kind: KindConfiguration, Message: msg}
}

func GatewayError(msg string, err error) error {
	return &CustomError{HttpCode: http.StatusBadGateway, Kind: KindGateway, Message: msg, Err: err}
}

func As(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func Is(err error, kind Kind) bool {
	ce, ok := As(err)
	return ok && ce.Kind == kind
}

func IsNotFound(err error) bool { return Is(err, KindNotFound) }

func IsConflict(err error) bool { return Is(err, KindConflict) }

func IsValidation(err error) bool { return Is(err, KindValidation) }
