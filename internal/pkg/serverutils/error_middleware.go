package serverutils

import (
	"errors"

	"finverse-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors escaping the controllers into the
// standard envelope. Every error kind the core can signal maps to a status
// here; nothing propagates as an unhandled 500 with a raw message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(vErr.Error()))
		}

		var fErr *fiber.Error
		if errors.As(err, &fErr) {
			return ctx.Status(fErr.Code).JSON(ErrorResponse(fErr.Message))
		}

		return ctx.Status(statusFor(err)).JSON(ErrorResponse(err.Error()))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrEmptyQuery),
		errors.Is(err, apperr.ErrInsufficientProducts):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrSendInProgress):
		return fiber.StatusConflict
	// A superseded aggregation pass means the selection changed mid-read;
	// the client retries against the new selection.
	case errors.Is(err, apperr.ErrSuperseded):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrAssistantUnavailable),
		errors.Is(err, apperr.ErrSummaryGenerationFailed):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
