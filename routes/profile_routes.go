package routes

import (
	"github.com/anjiri1684/social_messages/handlers"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App, h *handlers.ProfileHandler, protected fiber.Handler) {
	api := app.Group("/api/v1")

	users := api.Group("/users", protected)
	users.Get("/profile/:username", h.GetUserProfile)
	users.Get("/search", h.SearchUsers)
	users.Get("/search/:query", h.SearchUsers)
	users.Get("/:id/following", h.GetFollowing)
	users.Get("/:id/follower", h.GetFollowers)
}
