package serverutils

import (
	"errors"

	"meal-subscription-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

var kindStatus = map[error]int{
	apperror.ErrNotFound:         fiber.StatusNotFound,
	apperror.ErrInvalidSignature: fiber.StatusBadRequest,
	apperror.ErrInvalidState:     fiber.StatusConflict,
	apperror.ErrPolicyViolation:  fiber.StatusUnprocessableEntity,
	apperror.ErrUpstreamFailure:  fiber.StatusBadGateway,
}

// StatusFor maps an error returned by a handler to its HTTP status and the
// message safe to show the client.
func StatusFor(err error) (int, string) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest, validationErr.Error()
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	if kind := apperror.KindOf(err); kind != nil {
		return kindStatus[kind], apperror.Message(err)
	}
	return fiber.StatusInternalServerError, apperror.Message(err)
}

// ErrorHandler is installed as fiber's ErrorHandler so errors escaping
// middleware get the same envelope.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	status, message := StatusFor(err)
	return ctx.Status(status).JSON(ErrorResponse(status, message))
}

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return ErrorHandler(ctx, err)
		}
		return nil
	}
}
