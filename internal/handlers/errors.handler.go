package handlers

import (
	"errors"

	"homerent/internal/apperrors"
	"homerent/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// respondError maps controller errors onto HTTP responses. Contention
// with another tenant's booking is a 409 and never exposes the booking
// id; contention with the caller's own booking is a 400 carrying the
// id so the client can offer cancellation.
func respondError(c *fiber.Ctx, log logger.Logger, err error, fallback string) error {
	if ce, ok := apperrors.AsContention(err); ok {
		if ce.Own {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":     ce.Message,
				"bookingId": ce.BookingID,
				"status":    ce.Status,
				"canCancel": ce.CanCancel,
			})
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  ce.Message,
			"status": ce.Status,
		})
	}

	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ve.Message,
		})
	}

	// Guard failures on the caller's own resource are client errors,
	// not conflicts: "cannot cancel booking in status: cancelled" gets
	// a 400, the same as the validation class.
	var se *apperrors.StateConflictError
	if errors.As(err, &se) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  se.Message,
			"status": se.Current,
		})
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, apperrors.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	case errors.Is(err, apperrors.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	_ = log.Err(fallback, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
	})
}
