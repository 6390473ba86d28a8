package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const localUserID = "userID"

// RequireAuth validates the bearer access token and stores the caller's user
// ID in request locals.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	claims, err := h.tokenService.VerifyAccessToken(parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	c.Locals(localUserID, claims.UserID)

	return c.Next()
}
