package handlers

import (
	"homerent/internal/app"
	houseController "homerent/internal/controllers/houses"
	"homerent/internal/handlers/middleware"
	"homerent/internal/models"
	"homerent/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type HouseHandler struct {
	Handler
	houseController houseController.HouseControllerInterface
}

func NewHouseHandler(app app.App, router fiber.Router) *HouseHandler {
	log := logger.New("handlers").File("house_handler")
	return &HouseHandler{
		houseController: app.Controllers.House,
		Handler:         newBaseHandler(app, router, log),
	}
}

func (h *HouseHandler) Register() {
	houses := h.router.Group("/houses")

	houses.Get("", h.listHouses)
	houses.Get("/mine", h.auth, h.middleware.RequireRole(models.RoleLandlord), h.listMyHouses)
	houses.Post("", h.auth, h.middleware.RequireRole(models.RoleLandlord), h.createHouse)
	houses.Get("/:id", h.getHouse)
	houses.Put("/:id", h.auth, h.updateHouse)
	houses.Post("/:id/vacate", h.auth, h.vacateHouse)
}

func (h *HouseHandler) listHouses(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("house_handler").Function("listHouses")

	filter := repositories.HouseFilter{
		Location:      c.Query("location"),
		Type:          models.HouseType(c.Query("type")),
		OnlyAvailable: c.QueryBool("available"),
	}
	if raw := c.Query("maxRent"); raw != "" {
		maxRent, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid maxRent",
			})
		}
		filter.MaxRent = &maxRent
	}

	houses, err := h.houseController.List(c.Context(), filter)
	if err != nil {
		return respondError(c, log, err, "Failed to list houses")
	}

	return c.JSON(fiber.Map{
		"houses": houses,
	})
}

func (h *HouseHandler) listMyHouses(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("house_handler").Function("listMyHouses")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	houses, err := h.houseController.ListByLandlord(c.Context(), user)
	if err != nil {
		return respondError(c, log, err, "Failed to list houses")
	}

	return c.JSON(fiber.Map{
		"houses": houses,
	})
}

func (h *HouseHandler) createHouse(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("house_handler").Function("createHouse")

	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req houseController.CreateHouseRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	house, err := h.houseController.Create(c.Context(), user, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to create house")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"house": house,
	})
}

func (h *HouseHandler) getHouse(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("house_handler").Function("getHouse")

	houseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid house id",
		})
	}

	house, err := h.houseController.Get(c.Context(), houseID)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve house")
	}

	return c.JSON(fiber.Map{
		"house": house,
	})
}

func (h *HouseHandler) updateHouse(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("house_handler").Function("updateHouse")

	user := middleware.GetUser(c)
	if user == nil {
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

	var req houseController.UpdateHouseRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	house, err := h.houseController.Update(c.Context(), user, houseID, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to update house")
	}

	return c.JSON(fiber.Map{
		"house": house,
	})
}

func (h *HouseHandler) vacateHouse(c *fiber.Ctx) error {
	log := logger.New("handlers").TraceFromContext(c.UserContext()).File("house_handler").Function("vacateHouse")

	user := middleware.GetUser(c)
	if user == nil {
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

	house, err := h.houseController.Vacate(c.Context(), user, houseID)
	if err != nil {
		return respondError(c, log, err, "Failed to vacate house")
	}

	return c.JSON(fiber.Map{
		"house": house,
	})
}
