package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"homerent/internal/apperrors"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorResponse(t *testing.T, err error) (int, map[string]any) {
	t.Helper()

	app := fiber.New()
	log := logger.New("handlers_test")
	app.Get("/test", func(c *fiber.Ctx) error {
		return respondError(c, log, err, "Something went wrong")
	})

	resp, reqErr := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRespondErrorOwnContention(t *testing.T) {
	bookingID := uuid.New()
	status, body := errorResponse(
		t,
		apperrors.OwnBookingContention(bookingID, "initiated", true),
	)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, bookingID.String(), body["bookingId"])
	assert.Equal(t, "initiated", body["status"])
	assert.Equal(t, true, body["canCancel"])
}

func TestRespondErrorHouseTakenContention(t *testing.T) {
	status, body := errorResponse(t, apperrors.HouseTakenContention("approved"))

	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "approved", body["status"])
	// The other tenant's booking id must never appear in the response.
	assert.NotContains(t, body, "bookingId")
	assert.NotContains(t, body, "canCancel")
}

func TestRespondErrorStatuses(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperrors.Validation("utr is required"), fiber.StatusBadRequest},
		{
			"state conflict",
			apperrors.StateConflict("cancelled", "Cannot cancel booking in status: cancelled"),
			fiber.StatusBadRequest,
		},
		{"not found", apperrors.ErrNotFound, fiber.StatusNotFound},
		{"unauthorized", apperrors.ErrUnauthorized, fiber.StatusUnauthorized},
		{"forbidden", apperrors.ErrForbidden, fiber.StatusForbidden},
		{"unknown", assert.AnError, fiber.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := errorResponse(t, tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}
