package handler

import (
	"fmt"

	"rental-service/internal/module/customer/models/entity"
	"rental-service/internal/module/customer/models/request"
	"rental-service/internal/module/customer/usecases"
	"rental-service/internal/pkg/errors"
	"rental-service/internal/pkg/helpers"
	"rental-service/internal/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	Log       log.Logger
	Validator *validator.Validate
	Usecase   usecases.Usecase
}

func (h *CustomerHandler) Resolve(ctx *fiber.Ctx) error {
	var req request.CustomerDetails
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Error(ctx.UserContext(), fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Warn(ctx.UserContext(), fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, helpers.ValidationFailed(err))
	}

	resp, err := h.Usecase.Resolve(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Error(ctx.UserContext(), fmt.Sprintf("error resolve customer: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	switch entity.Outcome(resp.Outcome) {
	case entity.OutcomeExactMatch:
		// an existing customer is only reachable after signing in
		resp.CustomerID = ""
	case entity.OutcomeConflict:
		fields := make([]errors.FieldError, 0, len(resp.Diff))
		for _, d := range resp.Diff {
			fields = append(fields, errors.FieldError{Field: d.Field, Existing: d.Existing, New: d.New})
		}
		return helpers.RespError(ctx, h.Log, errors.ConflictError("submitted details differ from the registered customer", fields...))
	case entity.OutcomeCreated:
		return helpers.RespCreated(ctx, h.Log, resp, "customer created")
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "customer resolved")
}

func (h *CustomerHandler) ApplyResolution(ctx *fiber.Ctx) error {
	var req request.ApplyResolution
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Error(ctx.UserContext(), fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Warn(ctx.UserContext(), fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, helpers.ValidationFailed(err))
	}

	resp, err := h.Usecase.ApplyResolution(ctx.UserContext(), &req)
	if err != nil {
		h.Log.Error(ctx.UserContext(), fmt.Sprintf("error apply customer resolution: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "customer resolution applied")
}
