package presenters

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"recipe-website/domain"
	"recipe-website/internal/logging"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes err with an explicit status. Validation errors are
// rendered as their field map; server errors hide their detail.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		res.Error = verr.Fields
	case statusCode >= fiber.StatusInternalServerError:
		logging.Ctx(c.UserContext()).Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg(message)
		res.Error = "internal server error"
	case err != nil:
		res.Error = err.Error()
	}

	return c.Status(statusCode).JSON(res)
}

// FailResponse is ErrorResponse with the status derived from err.
func FailResponse(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusFromError(err), message, err)
}

func StatusFromError(err error) int {
	var verr *domain.ValidationError
	var ferr *fiber.Error

	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrIncorrectPassword):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrParseUUID),
		errors.Is(err, domain.ErrInvalidRecipePayload):
		return fiber.StatusBadRequest
	case errors.As(err, &ferr):
		return ferr.Code
	default:
		return fiber.StatusInternalServerError
	}
}
