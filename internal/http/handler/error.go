package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"reviewapi/internal/http/middleware"
	"reviewapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "NOT_A_JSON", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

var inputErrors = []struct {
	err     error
	code    string
	message string
}{
	{service.ErrNotJSON, "NOT_A_JSON", "Not a JSON"},
	{service.ErrMissingUserID, "MISSING_USER_ID", "Missing user_id"},
	{service.ErrInvalidUserID, "INVALID_USER_ID", "user_id must be a string"},
	{service.ErrMissingText, "MISSING_TEXT", "Missing text"},
	{service.ErrInvalidText, "INVALID_TEXT", "text must be a string"},
}

// writeServiceError translates a service error into a standardized response.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case service.IsNotFound(err):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case service.IsInvalidInput(err):
		for _, ie := range inputErrors {
			if errors.Is(err, ie.err) {
				return writeError(c, fiber.StatusBadRequest, ie.code, ie.message)
			}
		}
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "bad request")
	}

	log.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "TOO_MANY_REQUESTS", "too many requests")
		default:
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
	}
}
