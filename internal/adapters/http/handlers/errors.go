package handlers

import (
	"errors"

	"bto-flathub/internal/core/domain"
	"bto-flathub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps a domain error to its HTTP status. Handlers that need a
// custom message for a specific sentinel switch on it before falling through
// to this.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, errorMessage(err))
	case errors.Is(err, domain.ErrAuthorization):
		return response.Forbidden(c, errorMessage(err))
	case errors.Is(err, domain.ErrCapacity):
		return response.Conflict(c, errorMessage(err))
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, errorMessage(err))
	case errors.Is(err, domain.ErrValidation):
		return response.UnprocessableEntity(c, errorMessage(err))
	default:
		return response.InternalServerError(c, "Internal server error")
	}
}

// errorMessage strips the kind prefix ("conflict: ", "validation error: ")
// from a wrapped domain error.
func errorMessage(err error) string {
	msg := err.Error()
	for _, kind := range []error{
		domain.ErrValidation,
		domain.ErrConflict,
		domain.ErrCapacity,
		domain.ErrAuthorization,
		domain.ErrNotFound,
	} {
		prefix := kind.Error() + ": "
		if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}

// currentUserID reads the authenticated user's ID set by the auth middleware
func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}
