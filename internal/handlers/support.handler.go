package handlers

import (
	"homerent/internal/app"
	supportController "homerent/internal/controllers/support"
	"homerent/internal/handlers/middleware"
	"homerent/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SupportHandler struct {
	Handler
	supportController supportController.SupportControllerInterface
}

func NewSupportHandler(app app.App, router fiber.Router) *SupportHandler {
	log := logger.New("handlers").File("support_handler")
	return &SupportHandler{
		supportController: app.Controllers.Support,
		Handler:           newBaseHandler(app, router, log),
	}
}

func (h *SupportHandler) Register() {
	tickets := h.router.Group("/support/tickets", h.auth)

	tickets.Post("", h.openTicket)
	tickets.Get("/mine", h.listMyTickets)
	tickets.Get("/all", h.middleware.RequireAdmin(), h.listAllTickets)
	tickets.Get("/:id", h.getTicket)
	tickets.Post("/:id/reply", h.reply)
	tickets.Put("/:id", h.middleware.RequireAdmin(), h.updateTicket)
}

func (h *SupportHandler) openTicket(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("support_handler").Function("openTicket")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req supportController.OpenTicketRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ticket, err := h.supportController.Open(c.Context(), user, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to open ticket")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ticket": ticket,
	})
}

func (h *SupportHandler) getTicket(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("support_handler").Function("getTicket")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	ticketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ticket id",
		})
	}

	ticket, err := h.supportController.Get(c.Context(), user, ticketID)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve ticket")
	}

	return c.JSON(fiber.Map{
		"ticket": ticket,
	})
}

func (h *SupportHandler) reply(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("support_handler").Function("reply")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	ticketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ticket id",
		})
	}

	var req supportController.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ticket, err := h.supportController.Reply(c.Context(), user, ticketID, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to reply to ticket")
	}

	return c.JSON(fiber.Map{
		"ticket": ticket,
	})
}

func (h *SupportHandler) updateTicket(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("support_handler").Function("updateTicket")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	ticketID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid ticket id",
		})
	}

	var req supportController.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ticket, err := h.supportController.Update(c.Context(), user, ticketID, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to update ticket")
	}

	return c.JSON(fiber.Map{
		"ticket": ticket,
	})
}

func (h *SupportHandler) listMyTickets(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("support_handler").Function("listMyTickets")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	tickets, err := h.supportController.ListMine(c.Context(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to list tickets")
	}

	return c.JSON(fiber.Map{
		"tickets": tickets,
	})
}

func (h *SupportHandler) listAllTickets(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("support_handler").Function("listAllTickets")

	tickets, err := h.supportController.ListAll(c.Context(), models.TicketStatus(c.Query("status")))
	if err != nil {
		return respondError(c, log, err, "Failed to list tickets")
	}

	return c.JSON(fiber.Map{
		"tickets": tickets,
	})
}
