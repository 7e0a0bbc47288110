package server

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"microblog/internal/middleware"
	"microblog/internal/models"
)

// statusForCode maps application error codes to HTTP statuses. Conflicts are
// reported as plain bad requests so every client-side failure is a 4xx the
// frontend already handles.
func statusForCode(code string) int {
	switch code {
	case "VALIDATION_ERROR", "CONFLICT":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "FORBIDDEN":
		return fiber.StatusForbidden
	case "NOT_FOUND":
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes a service-layer error with the status its code implies.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}
	status := statusForCode(appErr.Code)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()), slog.Any("error", err))
	}
	return models.RespondWithError(c, status, appErr)
}

// parseID reads a positive integer route parameter, writing a 400 response
// itself when the value is malformed.
func parseID(c *fiber.Ctx, param string) (uint, bool) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = respondError(c, models.NewValidationError("Invalid "+param))
		return 0, false
	}
	return uint(id), true
}

// currentUserID returns the authenticated user's ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
