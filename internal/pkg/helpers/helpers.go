package helpers

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/log"

	"github.com/gofiber/fiber/v2"
)

const opaqueMessage = "something went wrong, please try again or contact support"

type Response struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  []errors.FieldError `json:"errors,omitempty"`
	Kind    errors.Kind         `json:"kind,omitempty"`
}

func RespSuccess(ctx *fiber.Ctx, log log.Logger, data interface{}, message string) error {
	return ctx.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func RespCreated(ctx *fiber.Ctx, log log.Logger, data interface{}, message string) error {
	return ctx.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespError renders err. Server side failures are logged in full and answered with an opaque message.
func RespError(ctx *fiber.Ctx, log log.Logger, err error) error {
	ce, ok := errors.As(err)
	if !ok {
		log.Error(ctx.UserContext(), fmt.Sprintf("unhandled error: %v", err))
		return ctx.Status(http.StatusInternalServerError).JSON(Response{
			Success: false,
			Message: opaqueMessage,
			Kind:    errors.KindInternal,
		})
	}

	if !ce.Exposable() {
		log.Error(ctx.UserContext(), fmt.Sprintf("request failed: %v", ce), ce.Kind)
		return ctx.Status(ce.HttpCode).JSON(Response{
			Success: false,
			Message: opaqueMessage,
			Kind:    ce.Kind,
		})
	}

	return ctx.Status(ce.HttpCode).JSON(Response{
		Success: false,
		Message: ce.Message,
		Errors:  ce.Fields,
		Kind:    ce.Kind,
	})
}

// FormatDateTime renders t the way responses expose timestamps.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// MinorUnits converts a decimal currency amount to integer minor units.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
