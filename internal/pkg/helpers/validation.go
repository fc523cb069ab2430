package helpers

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"rental-service/internal/pkg/errors"

	"github.com/go-playground/validator/v10"
)

// NewValidator reports fields by their json names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationFailed converts validator output into a field level ValidationError.
func ValidationFailed(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.ValidationError("invalid request")
	}

	fields := make([]errors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, errors.FieldError{
			Field:   fe.Field(),
			Message: describe(fe),
		})
	}
	return errors.ValidationError("invalid request", fields...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must match %s", fe.Param())
	case "min", "gt", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lt", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "required_without":
		return fmt.Sprintf("is required when %s is absent", fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
