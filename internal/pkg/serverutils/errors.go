package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError is the service-level error carried up to the HTTP boundary.
// Code distinguishes NotFound from Conflict so clients know whether a blind
// retry makes sense.
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: "NOT_FOUND", Status: fiber.StatusNotFound, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: "CONFLICT", Status: fiber.StatusConflict, Message: message}
}

// NewIntegrityError flags a broken internal invariant. Fatal for the single
// operation; the session stays usable.
func NewIntegrityError(message string) *AppError {
	return &AppError{Code: "INTEGRITY", Status: fiber.StatusUnprocessableEntity, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: "VALIDATION", Status: fiber.StatusBadRequest, Message: message}
}

// NewUpstreamError exists for completeness of the taxonomy. Operations that
// depend on the generative capability must complete via their deterministic
// fallback instead of returning this to a user.
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{Code: "UPSTREAM_UNAVAILABLE", Status: fiber.StatusBadGateway, Message: message, Err: err}
}

// ErrorHandlerMiddleware maps AppError to its status and everything else to a
// plain 500, keeping controllers free of status juggling.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Status).JSON(fiber.Map{
				"code":    appErr.Code,
				"message": appErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"code":    "ERROR",
				"message": fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    "INTERNAL",
			"message": "Internal server error",
		})
	}
}
