package handlers

import (
	"homerent/internal/app"
	"homerent/internal/handlers/middleware"
	"homerent/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
	auth       fiber.Handler
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewAuthHandler(*app, api).Register()
	NewHouseHandler(*app, api).Register()
	NewBookingHandler(*app, api).Register()
	NewRentPaymentHandler(*app, api).Register()
	NewVisitHandler(*app, api).Register()
	NewSupportHandler(*app, api).Register()
	NewAdminPaymentHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	return nil
}

func newBaseHandler(app app.App, router fiber.Router, log logger.Logger) Handler {
	return Handler{
		middleware: app.Middleware,
		log:        log,
		router:     router,
		auth:       app.Middleware.RequireAuth(app.Services.Token),
	}
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
