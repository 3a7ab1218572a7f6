package handlers

import (
	"errors"

	"github.com/anjiri1684/social_messages/services"
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

// respondError maps pipeline errors to client responses. Upstream failures
// are logged with detail and answered generically.
func respondError(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, services.ErrSenderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Sender not found"})
	case errors.Is(err, services.ErrRecipientNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Recipient not found"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, services.ErrEmptyMessage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message must have text or image"})
	case errors.Is(err, services.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	log.Error("request failed", "op", op, "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
