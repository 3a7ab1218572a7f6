package routes

import (
	"github.com/anjiri1684/social_messages/handlers"
	"github.com/gofiber/fiber/v2"
)

func MessagingRoutes(app *fiber.App, h *handlers.MessageHandler, protected fiber.Handler) {
	api := app.Group("/api/v1")

	message := api.Group("/message", protected)
	message.Post("/sentmessage", h.SendMessage)
	message.Get("/messageUser", h.GetMessageUsers)
	message.Get("/conversation/:username", h.GetConversation)
}
