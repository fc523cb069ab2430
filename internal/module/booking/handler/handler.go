package handler

import (
	"context"
	"fmt"

	"rental-service/internal/module/booking/models/request"
	"rental-service/internal/module/booking/usecases"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/helpers"
	"rental-service/internal/pkg/log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

const (
	TopicPaymentVerification         = "payment_verification"
	TopicPaymentVerificationPoisoned = "payment_verification_poisoned"
)

type BookingHandler struct {
	Log       log.Logger
	Validator *validator.Validate
	Usecase   usecases.Usecase
	Publish   message.Publisher
}

func (h *BookingHandler) CreateBooking(ctx *fiber.Ctx) error {
	var req request.CreateBooking
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Error(ctx.UserContext(), fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Warn(ctx.UserContext(), fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, helpers.ValidationFailed(err))
	}

	resp, err := h.Usecase.CreateBooking(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Error(ctx.UserContext(), fmt.Sprintf("error create booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespCreated(ctx, h.Log, resp, "success create booking")
}

func (h *BookingHandler) ShowBooking(ctx *fiber.Ctx) error {
	resp, err := h.Usecase.ShowBooking(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		h.Log.Error(ctx.UserContext(), fmt.Sprintf("error show booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success show booking")
}

func (h *BookingHandler) InitiatePayment(ctx *fiber.Ctx) error {
	var req request.InitiatePayment
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Error(ctx.UserContext(), fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}
	req.BookingID = ctx.Params("id")

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Warn(ctx.UserContext(), fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, helpers.ValidationFailed(err))
	}

	resp, err := h.Usecase.InitiatePayment(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Error(ctx.UserContext(), fmt.Sprintf("error initiate payment: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success initiate payment")
}

// VerifyPayment serves the gateway return URL. The gateway appends orderId to the URL it was given.
func (h *BookingHandler) VerifyPayment(ctx *fiber.Ctx) error {
	req := request.VerifyPayment{
		BookingID:       ctx.Query("booking_id"),
		ExternalOrderID: ctx.Query("order_id", ctx.Query("orderId")),
	}
	return h.verify(ctx, &req)
}

// PaymentCallback serves the gateway server-to-server notification.
func (h *BookingHandler) PaymentCallback(ctx *fiber.Ctx) error {
	req := request.VerifyPayment{
		ExternalOrderID: ctx.Query("mdOrder"),
	}
	return h.verify(ctx, &req)
}

// ReconcilePayment lets internal tooling re-run a verification.
func (h *BookingHandler) ReconcilePayment(ctx *fiber.Ctx) error {
	var req request.VerifyPayment
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Error(ctx.UserContext(), fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}
	return h.verify(ctx, &req)
}

func (h *BookingHandler) verify(ctx *fiber.Ctx, req *request.VerifyPayment) error {
	if err := h.Validator.Struct(req); err != nil {
		h.Log.Warn(ctx.UserContext(), fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, helpers.ValidationFailed(err))
	}

	resp, err := h.Usecase.VerifyPayment(ctx.UserContext(), req)
	if err != nil {
		h.Log.Error(ctx.UserContext(), fmt.Sprintf("error verify payment: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success verify payment")
}

// ConsumeVerificationQueue handles verification requests from the queue. Messages that can never
// succeed are parked on the poison topic and acked; other failures are returned for retry.
func (h *BookingHandler) ConsumeVerificationQueue(msg *message.Message) error {
	ctx := log.ContextWithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))

	var req request.VerifyPayment
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		h.Log.Error(ctx, fmt.Sprintf("error unmarshal message: %v", err))
		return h.poison(ctx, msg, err)
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Error(ctx, fmt.Sprintf("error validate message: %v", err))
		return h.poison(ctx, msg, err)
	}

	_, err := h.Usecase.VerifyPayment(ctx, &req)
	if err != nil {
		if ce, ok := errors.As(err); ok && ce.Exposable() {
			return h.poison(ctx, msg, err)
		}
		h.Log.Error(ctx, fmt.Sprintf("error consume verification queue: %v", err))
		return err
	}

	return nil
}

func (h *BookingHandler) poison(ctx context.Context, msg *message.Message, cause error) error {
	reqPoisoned := request.PoisonedQueue{
		TopicTarget: TopicPaymentVerification,
		ErrorMsg:    cause.Error(),
		Payload:     string(msg.Payload),
	}

	jsonPayload, err := json.Marshal(reqPoisoned)
	if err != nil {
		return err
	}

	poisoned := message.NewMessage(watermill.NewUUID(), jsonPayload)
	middleware.SetCorrelationID(middleware.MessageCorrelationID(msg), poisoned)
	if err := h.Publish.Publish(TopicPaymentVerificationPoisoned, poisoned); err != nil {
		h.Log.Error(ctx, fmt.Sprintf("error publish to poison queue: %v", err))
		return err
	}

	return nil
}

func (h *BookingHandler) VerifyPendingPayment(ctx context.Context, t *asynq.Task) error {
	var req request.PendingPaymentTask
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		h.Log.Error(ctx, fmt.Sprintf("error unmarshal payload: %v", err))
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Error(ctx, fmt.Sprintf("error validate payload: %v", err))
		return fmt.Errorf("validate payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.Usecase.VerifyPendingPayment(ctx, &req); err != nil {
		h.Log.Error(ctx, fmt.Sprintf("error verify pending payment: %v", err))
		return err
	}

	return nil
}
