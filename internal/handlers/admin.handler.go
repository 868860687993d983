package handlers

import (
	"homerent/internal/app"
	adminUserController "homerent/internal/controllers/adminusers"
	"homerent/internal/handlers/middleware"
	"homerent/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	Handler
	adminController adminUserController.AdminUserControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		adminController: app.Controllers.AdminUser,
		Handler:         newBaseHandler(app, router, log),
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.auth, h.middleware.RequireAdmin())

	admin.Get("/users", h.listUsers)
	admin.Put("/users/:id/verify", h.verifyLandlord)
	admin.Delete("/users/:id", h.deleteUser)
	admin.Get("/houses", h.listHouses)
	admin.Put("/houses/:id/decide", h.decideHouse)
	admin.Delete("/houses/:id", h.deleteHouse)
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("admin_handler").Function("listUsers")

	users, err := h.adminController.ListUsers(c.Context(), models.Role(c.Query("role")))
	if err != nil {
		return respondError(c, log, err, "Failed to list users")
	}

	return c.JSON(fiber.Map{
		"users": users,
	})
}

func (h *AdminHandler) verifyLandlord(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("admin_handler").Function("verifyLandlord")

	admin := middleware.GetUser(c)
	if admin == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	profile, err := h.adminController.VerifyLandlord(c.Context(), admin, userID)
	if err != nil {
		return respondError(c, log, err, "Failed to verify landlord")
	}

	return c.JSON(fiber.Map{
		"user": profile,
	})
}

func (h *AdminHandler) deleteUser(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("admin_handler").Function("deleteUser")

	admin := middleware.GetUser(c)
	if admin == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	if err := h.adminController.DeleteUser(c.Context(), admin, userID); err != nil {
		return respondError(c, log, err, "Failed to delete user")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) listHouses(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("admin_handler").Function("listHouses")

	houses, err := h.adminController.ListHouses(c.Context())
	if err != nil {
		return respondError(c, log, err, "Failed to list houses")
	}

	return c.JSON(fiber.Map{
		"houses": houses,
	})
}

func (h *AdminHandler) decideHouse(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("admin_handler").Function("decideHouse")

	admin := middleware.GetUser(c)
	if admin == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	houseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid house id",
		})
	}

	var req adminUserController.DecideHouseRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	house, err := h.adminController.DecideHouse(c.Context(), admin, houseID, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to decide house verification")
	}

	return c.JSON(fiber.Map{
		"house": house,
	})
}

func (h *AdminHandler) deleteHouse(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("admin_handler").Function("deleteHouse")

	admin := middleware.GetUser(c)
	if admin == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	houseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid house id",
		})
	}

	if err := h.adminController.DeleteHouse(c.Context(), admin, houseID); err != nil {
		return respondError(c, log, err, "Failed to delete house")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
