package middleware

import (
	"crypto/subtle"
	"fmt"

	"rental-service/config"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/helpers"
	"rental-service/internal/pkg/log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.elastic.co/apm"
)

const (
	HeaderInternalToken = "X-Internal-Token"
	HeaderCorrelationID = "X-Correlation-ID"
)

type Middleware struct {
	Log log.Logger
	Cfg *config.AppConfig
}

// ValidateInternalToken guards the private routes used by internal tooling.
func (m *Middleware) ValidateInternalToken(ctx *fiber.Ctx) error {
	token := ctx.Get(HeaderInternalToken)
	if token == "" {
		m.Log.Warn(ctx.UserContext(), "error get internal token from header")
		return helpers.RespError(ctx, m.Log, errors.UnauthorizedError("error get token from header"))
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(m.Cfg.InternalToken)) != 1 {
		m.Log.Warn(ctx.UserContext(), fmt.Sprintf("error validate internal token from %s", ctx.IP()))
		return helpers.RespError(ctx, m.Log, errors.UnauthorizedError("error validate token"))
	}

	return ctx.Next()
}

// CorrelationID reuses the caller's correlation id or mints one, and carries it on the user context.
func (m *Middleware) CorrelationID(ctx *fiber.Ctx) error {
	id := ctx.Get(HeaderCorrelationID)
	if id == "" {
		id = uuid.NewString()
	}

	ctx.Set(HeaderCorrelationID, id)
	ctx.SetUserContext(log.ContextWithCorrelationID(ctx.UserContext(), id))

	return ctx.Next()
}

// Tracing opens an APM transaction per request.
func (m *Middleware) Tracing(ctx *fiber.Ctx) error {
	tx := apm.DefaultTracer.StartTransaction(fmt.Sprintf("%s %s", ctx.Method(), ctx.Path()), "request")
	defer tx.End()

	ctx.SetUserContext(apm.ContextWithTransaction(ctx.UserContext(), tx))

	err := ctx.Next()

	tx.Result = fmt.Sprintf("HTTP %dxx", ctx.Response().StatusCode()/100)
	return err
}
