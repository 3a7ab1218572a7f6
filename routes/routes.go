package routes

import (
	"github.com/anjiri1684/social_messages/handlers"
	"github.com/anjiri1684/social_messages/middleware"
	"github.com/anjiri1684/social_messages/services"
	"github.com/anjiri1684/social_messages/store"
	"github.com/gofiber/fiber/v2"
)

type Deps struct {
	Store     store.Store
	Messenger *services.Messenger
	JWTSecret string
}

// Register mounts every API route on app.
func Register(app *fiber.App, deps Deps) {
	protected := middleware.Protected(deps.JWTSecret)

	AuthRoutes(app, &handlers.AuthHandler{Store: deps.Store, Messenger: deps.Messenger, JWTSecret: deps.JWTSecret}, protected)
	ProfileRoutes(app, &handlers.ProfileHandler{Messenger: deps.Messenger}, protected)
	MessagingRoutes(app, &handlers.MessageHandler{Messenger: deps.Messenger}, protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
