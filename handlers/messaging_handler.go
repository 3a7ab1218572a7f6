package handlers

import (
	"github.com/anjiri1684/social_messages/middleware"
	"github.com/anjiri1684/social_messages/services"
	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	Messenger *services.Messenger
}

type SendMessageRequest struct {
	To    string `json:"to" validate:"required"`
	Text  string `json:"text"`
	Image string `json:"image" validate:"omitempty,datauri"`
}

func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	msg, err := h.Messenger.Send(c.UserContext(), userID, services.SendInput{
		To:    req.To,
		Text:  req.Text,
		Image: req.Image,
	})
	if err != nil {
		return respondError(c, "send message", err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessageHandler) GetMessageUsers(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	partners, err := h.Messenger.ListPartners(c.UserContext(), userID)
	if err != nil {
		return respondError(c, "list partners", err)
	}
	return c.JSON(partners)
}

func (h *MessageHandler) GetConversation(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	transcript, err := h.Messenger.BuildTranscript(c.UserContext(), userID, c.Params("username"))
	if err != nil {
		return respondError(c, "get conversation", err)
	}
	return c.JSON(transcript)
}
