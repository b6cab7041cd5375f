package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ochessi/tasknest/internal/auth/dto"
)

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	profile, err := h.userService.Profile(c.Context(), currentUserID(c))
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	var input dto.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	profile, err := h.userService.UpdateProfile(c.Context(), currentUserID(c), input)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *AuthHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.userService.Dashboard(c.Context(), currentUserID(c))
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dashboard)
}

func (h *AuthHandler) Security(c *fiber.Ctx) error {
	report, err := h.userService.Security(c.Context(), currentUserID(c))
	if err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(report)
}

func (h *AuthHandler) SecurityAction(c *fiber.Ctx) error {
	var input dto.SecurityActionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	switch input.Action {
	case "clear_failed_attempts":
		if err := h.userService.ClearFailedAttempts(c.Context(), currentUserID(c)); err != nil {
			return h.respondError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Failed login attempts cleared"})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid action"})
	}
}
