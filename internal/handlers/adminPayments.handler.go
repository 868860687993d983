package handlers

import (
	"homerent/internal/app"
	adminSettlementController "homerent/internal/controllers/adminsettlement"
	"homerent/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminPaymentHandler struct {
	Handler
	settlementController adminSettlementController.AdminSettlementControllerInterface
}

func NewAdminPaymentHandler(app app.App, router fiber.Router) *AdminPaymentHandler {
	log := logger.New("handlers").File("admin_payment_handler")
	return &AdminPaymentHandler{
		settlementController: app.Controllers.AdminSettlement,
		Handler:              newBaseHandler(app, router, log),
	}
}

func (h *AdminPaymentHandler) Register() {
	bookings := h.router.Group("/admin/bookings", h.auth, h.middleware.RequireAdmin())

	bookings.Get("", h.listPayments)
	bookings.Put("/:id/approve", h.approvePayment)
	bookings.Put("/:id/reject", h.rejectPayment)
	bookings.Get("/:id/upi-intent", h.payoutIntent)
	bookings.Post("/:id/mark-transferred", h.markTransferred)
}

func (h *AdminPaymentHandler) listPayments(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("admin_payment_handler").Function("listPayments")

	bucket := adminSettlementController.PaymentBucket(c.Query("status"))
	bookings, err := h.settlementController.ListPayments(c.Context(), bucket)
	if err != nil {
		return respondError(c, log, err, "Failed to list payments")
	}

	return c.JSON(fiber.Map{
		"bookings": bookings,
	})
}

func (h *AdminPaymentHandler) approvePayment(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("admin_payment_handler").Function("approvePayment")

	admin := middleware.GetUser(c)
	if admin == nil {
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

	booking, err := h.settlementController.Approve(c.Context(), admin, bookingID)
	if err != nil {
		return respondError(c, log, err, "Failed to approve payment")
	}

	return c.JSON(fiber.Map{
		"booking": booking,
	})
}

func (h *AdminPaymentHandler) rejectPayment(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("admin_payment_handler").Function("rejectPayment")

	admin := middleware.GetUser(c)
	if admin == nil {
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

	var req adminSettlementController.RejectPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	booking, err := h.settlementController.Reject(c.Context(), admin, bookingID, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to reject payment")
	}

	return c.JSON(fiber.Map{
		"booking": booking,
	})
}

func (h *AdminPaymentHandler) payoutIntent(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("admin_payment_handler").Function("payoutIntent")

	admin := middleware.GetUser(c)
	if admin == nil {
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

	intent, err := h.settlementController.PayoutIntent(c.Context(), admin, bookingID)
	if err != nil {
		return respondError(c, log, err, "Failed to build payout intent")
	}

	return c.JSON(intent)
}

func (h *AdminPaymentHandler) markTransferred(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("admin_payment_handler").Function("markTransferred")

	admin := middleware.GetUser(c)
	if admin == nil {
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

	var req adminSettlementController.MarkTransferredRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	booking, err := h.settlementController.MarkTransferred(c.Context(), admin, bookingID, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to mark payout transferred")
	}

	return c.JSON(fiber.Map{
		"booking": booking,
	})
}
