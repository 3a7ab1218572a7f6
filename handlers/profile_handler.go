package handlers

import (
	"github.com/anjiri1684/social_messages/middleware"
	"github.com/anjiri1684/social_messages/services"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	Messenger *services.Messenger
}

func (h *ProfileHandler) GetUserProfile(c *fiber.Ctx) error {
	profile, err := h.Messenger.Profile(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, "get profile", err)
	}
	return c.JSON(profile)
}

// SearchUsers serves both /search and /search/:query.
func (h *ProfileHandler) SearchUsers(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	users, err := h.Messenger.SearchUsers(c.UserContext(), userID, c.Params("query"))
	if err != nil {
		return respondError(c, "search users", err)
	}
	return c.JSON(users)
}

func (h *ProfileHandler) GetFollowing(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	users, err := h.Messenger.Following(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, "get following", err)
	}
	return c.JSON(users)
}

func (h *ProfileHandler) GetFollowers(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	users, err := h.Messenger.Followers(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return respondError(c, "get followers", err)
	}
	return c.JSON(users)
}
