package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/belij2111/blogger-auth-service/internal/auth/service"
)

// SecurityHandler exposes the manage-devices surface. It authenticates with
// the refresh cookie rather than the access token: the caller must hold a
// live session to inspect or terminate sessions.
type SecurityHandler struct {
	sessionService *service.SessionService
}

func NewSecurityHandler(sessionService *service.SessionService) *SecurityHandler {
	return &SecurityHandler{sessionService: sessionService}
}

func (h *SecurityHandler) GetDevices(c *fiber.Ctx) error {
	claims, err := h.sessionService.ValidateRefresh(c.UserContext(), c.Cookies(refreshCookieName))
	if err != nil {
		return respondError(c, err)
	}

	devices, err := h.sessionService.ListDevices(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(devices)
}

func (h *SecurityHandler) TerminateOtherDevices(c *fiber.Ctx) error {
	claims, err := h.sessionService.ValidateRefresh(c.UserContext(), c.Cookies(refreshCookieName))
	if err != nil {
		return respondError(c, err)
	}

	if err := h.sessionService.TerminateOtherDevices(c.UserContext(), claims.UserID, claims.DeviceID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SecurityHandler) TerminateDevice(c *fiber.Ctx) error {
	claims, err := h.sessionService.ValidateRefresh(c.UserContext(), c.Cookies(refreshCookieName))
	if err != nil {
		return respondError(c, err)
	}

	deviceID := c.Params("deviceId")
	if err := h.sessionService.TerminateDevice(c.UserContext(), claims.UserID, deviceID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
