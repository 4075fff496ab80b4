package serverutils

import (
	"errors"

	"user-directory-be/internal/entity"
	"user-directory-be/internal/pkg/logger"
	"user-directory-be/pkg/form"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps a domain error onto an HTTP status code.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	var validationErr *ValidationError

	switch {
	case errors.Is(err, entity.ErrDuplicateID):
		return fiber.StatusConflict
	case errors.Is(err, entity.ErrValidation),
		errors.Is(err, form.ErrUnknownField),
		errors.Is(err, form.ErrImmutableField),
		errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound),
		errors.Is(err, form.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware turns errors returned by handlers into the standard
// envelope. Internal errors are logged and their text is not exposed.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
			return ctx.Status(code).JSON(ErrorResponse(code, "Internal server error"))
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(code).JSON(ErrorResponseWithData(code, validationErr.Error(), validationErr.Fields))
		}
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
