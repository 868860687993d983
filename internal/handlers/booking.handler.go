package handlers

import (
	"homerent/internal/app"
	bookingController "homerent/internal/controllers/bookings"
	"homerent/internal/handlers/middleware"
	"homerent/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BookingHandler struct {
	Handler
	bookingController bookingController.BookingControllerInterface
}

func NewBookingHandler(app app.App, router fiber.Router) *BookingHandler {
	log := logger.New("handlers").File("booking_handler")
	return &BookingHandler{
		bookingController: app.Controllers.Booking,
		Handler:           newBaseHandler(app, router, log),
	}
}

func (h *BookingHandler) Register() {
	bookings := h.router.Group("/bookings")

	bookings.Post("", h.auth, h.middleware.RequireRole(models.RoleTenant), h.initiateBooking)
	bookings.Get("/mine", h.auth, h.listMyBookings)
	bookings.Get("/landlord", h.auth, h.middleware.RequireRole(models.RoleLandlord), h.listLandlordBookings)
	bookings.Get("/:id", h.auth, h.getBooking)
	bookings.Post("/:id/mark-paid", h.auth, h.markPaid)
	bookings.Put("/:id/cancel", h.auth, h.cancelBooking)

	// Availability is public so listings can show booking state before
	// the tenant logs in.
	h.router.Get("/houses/:houseId/availability", h.availability)
}

func (h *BookingHandler) initiateBooking(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("booking_handler").Function("initiateBooking")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req bookingController.InitiateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.bookingController.Initiate(c.Context(), user, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to initiate booking")
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *BookingHandler) markPaid(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("booking_handler").Function("markPaid")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking id",
		})
	}

	var req bookingController.MarkPaidRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	booking, err := h.bookingController.MarkPaid(c.Context(), user, bookingID, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to submit payment")
	}

	return c.JSON(fiber.Map{
		"booking": booking,
	})
}

func (h *BookingHandler) cancelBooking(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("booking_handler").Function("cancelBooking")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking id",
		})
	}

	var req bookingController.CancelBookingRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	booking, err := h.bookingController.Cancel(c.Context(), user, bookingID, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to cancel booking")
	}

	return c.JSON(fiber.Map{
		"booking": booking,
	})
}

func (h *BookingHandler) getBooking(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("booking_handler").Function("getBooking")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking id",
		})
	}

	booking, err := h.bookingController.Get(c.Context(), user, bookingID)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve booking")
	}

	return c.JSON(fiber.Map{
		"booking": booking,
		"status":  booking.Status,
	})
}

func (h *BookingHandler) listMyBookings(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("booking_handler").Function("listMyBookings")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	bookings, err := h.bookingController.ListMine(c.Context(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to list bookings")
	}

	return c.JSON(fiber.Map{
		"bookings": bookings,
	})
}

func (h *BookingHandler) listLandlordBookings(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("booking_handler").Function("listLandlordBookings")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	bookings, err := h.bookingController.ListForLandlord(c.Context(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to list bookings")
	}

	return c.JSON(fiber.Map{
		"bookings": bookings,
	})
}

func (h *BookingHandler) availability(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("booking_handler").Function("availability")

	houseID, err := uuid.Parse(c.Params("houseId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid house id",
		})
	}

	availability, err := h.bookingController.Availability(c.Context(), houseID)
	if err != nil {
		return respondError(c, log, err, "Failed to check availability")
	}

	return c.JSON(availability)
}
