package handlers

import (
	"homerent/internal/app"
	rentPaymentController "homerent/internal/controllers/rentpayments"
	"homerent/internal/handlers/middleware"
	"homerent/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RentPaymentHandler struct {
	Handler
	rentController rentPaymentController.RentPaymentControllerInterface
}

func NewRentPaymentHandler(app app.App, router fiber.Router) *RentPaymentHandler {
	log := logger.New("handlers").File("rent_payment_handler")
	return &RentPaymentHandler{
		rentController: app.Controllers.RentPayment,
		Handler:        newBaseHandler(app, router, log),
	}
}

func (h *RentPaymentHandler) Register() {
	rent := h.router.Group("/rent-payments", h.auth)

	rent.Post("", h.middleware.RequireRole(models.RoleTenant), h.initiateRent)
	rent.Get("/mine", h.listMyRentPayments)
	rent.Get("/landlord", h.middleware.RequireRole(models.RoleLandlord), h.listLandlordRentPayments)
	rent.Post("/:id/submit", h.submitRent)
	rent.Put("/:id/decide", h.middleware.RequireRole(models.RoleLandlord), h.decideRent)
}

func (h *RentPaymentHandler) initiateRent(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("rent_payment_handler").Function("initiateRent")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req rentPaymentController.InitiateRentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.rentController.Initiate(c.Context(), user, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to initiate rent payment")
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *RentPaymentHandler) submitRent(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("rent_payment_handler").Function("submitRent")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment id",
		})
	}

	var req rentPaymentController.SubmitRentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	payment, err := h.rentController.Submit(c.Context(), user, paymentID, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to submit rent payment")
	}

	return c.JSON(fiber.Map{
		"payment": payment,
	})
}

func (h *RentPaymentHandler) decideRent(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("rent_payment_handler").Function("decideRent")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment id",
		})
	}

	var req rentPaymentController.DecideRentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	payment, err := h.rentController.Decide(c.Context(), user, paymentID, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to decide rent payment")
	}

	return c.JSON(fiber.Map{
		"payment": payment,
	})
}

func (h *RentPaymentHandler) listMyRentPayments(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("rent_payment_handler").Function("listMyRentPayments")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	payments, err := h.rentController.ListMine(c.Context(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to list rent payments")
	}

	return c.JSON(fiber.Map{
		"payments": payments,
	})
}

func (h *RentPaymentHandler) listLandlordRentPayments(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("rent_payment_handler").Function("listLandlordRentPayments")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	payments, err := h.rentController.ListForLandlord(c.Context(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to list rent payments")
	}

	return c.JSON(fiber.Map{
		"payments": payments,
	})
}
