package serverutils

import (
	"errors"
	"net/http"

	"notebooklm-be/pkg/notebooklm"

	"github.com/gofiber/fiber/v2"
)

// AppError is an error the HTTP layer can report verbatim.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

func NewServiceUnavailableError(message string) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message}
}

// StatusFor maps an error returned by a service to an HTTP status and a
// client-facing message.
func StatusFor(err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, appErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}

	if errors.Is(err, notebooklm.ErrEngineUnavailable) {
		return http.StatusServiceUnavailable, "NotebookLM not configured"
	}

	var refreshErr *notebooklm.RefreshFailedError
	if errors.As(err, &refreshErr) {
		return http.StatusServiceUnavailable, err.Error()
	}

	var exhaustedErr *notebooklm.ExhaustedRetriesError
	if errors.As(err, &exhaustedErr) {
		return http.StatusServiceUnavailable, err.Error()
	}

	return http.StatusInternalServerError, err.Error()
}

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
