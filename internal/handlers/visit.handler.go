package handlers

import (
	"homerent/internal/app"
	visitController "homerent/internal/controllers/visits"
	"homerent/internal/handlers/middleware"
	"homerent/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type VisitHandler struct {
	Handler
	visitController visitController.VisitControllerInterface
}

func NewVisitHandler(app app.App, router fiber.Router) *VisitHandler {
	log := logger.New("handlers").File("visit_handler")
	return &VisitHandler{
		visitController: app.Controllers.Visit,
		Handler:         newBaseHandler(app, router, log),
	}
}

func (h *VisitHandler) Register() {
	visits := h.router.Group("/visits", h.auth)

	visits.Post("", h.middleware.RequireRole(models.RoleTenant), h.requestVisit)
	visits.Get("/mine", h.listMyVisits)
	visits.Get("/landlord", h.middleware.RequireRole(models.RoleLandlord), h.listLandlordVisits)
	visits.Put("/:id/decide", h.middleware.RequireRole(models.RoleLandlord), h.decideVisit)
	visits.Put("/:id/cancel", h.cancelVisit)
	visits.Put("/:id/complete", h.middleware.RequireRole(models.RoleLandlord), h.completeVisit)
}

func (h *VisitHandler) requestVisit(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("visit_handler").Function("requestVisit")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req visitController.RequestVisitRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	visit, err := h.visitController.Request(c.Context(), user, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to request visit")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"visit": visit,
	})
}

func (h *VisitHandler) decideVisit(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("visit_handler").Function("decideVisit")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	visitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid visit id",
		})
	}

	var req visitController.DecideVisitRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	visit, err := h.visitController.Decide(c.Context(), user, visitID, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to decide visit")
	}

	return c.JSON(fiber.Map{
		"visit": visit,
	})
}

func (h *VisitHandler) cancelVisit(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("visit_handler").Function("cancelVisit")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	visitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid visit id",
		})
	}

	visit, err := h.visitController.Cancel(c.Context(), user, visitID)
	if err != nil {
		return respondError(c, log, err, "Failed to cancel visit")
	}

	return c.JSON(fiber.Map{
		"visit": visit,
	})
}

func (h *VisitHandler) completeVisit(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("visit_handler").Function("completeVisit")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	visitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid visit id",
		})
	}

	visit, err := h.visitController.Complete(c.Context(), user, visitID)
	if err != nil {
		return respondError(c, log, err, "Failed to complete visit")
	}

	return c.JSON(fiber.Map{
		"visit": visit,
	})
}

func (h *VisitHandler) listMyVisits(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("visit_handler").Function("listMyVisits")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	visits, err := h.visitController.ListMine(c.Context(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to list visits")
	}

	return c.JSON(fiber.Map{
		"visits": visits,
	})
}

func (h *VisitHandler) listLandlordVisits(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("visit_handler").Function("listLandlordVisits")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	visits, err := h.visitController.ListForLandlord(c.Context(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to list visits")
	}

	return c.JSON(fiber.Map{
		"visits": visits,
	})
}
