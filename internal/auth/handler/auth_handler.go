package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/belij2111/blogger-auth-service/internal/auth/dto"
	"github.com/belij2111/blogger-auth-service/internal/auth/service"
	apperrors "github.com/belij2111/blogger-auth-service/internal/errors"
)

const refreshCookieName = "refreshToken"

type AuthHandler struct {
	userService    *service.UserService
	sessionService *service.SessionService
	tokenService   service.TokenGenerator
}

func NewAuthHandler(userService *service.UserService, sessionService *service.SessionService, tokenService service.TokenGenerator) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
		tokenService:   tokenService,
	}
}

func (h *AuthHandler) Registration(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "body", "invalid input")
	}

	if err := h.userService.Register(c.UserContext(), input); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) RegistrationConfirmation(c *fiber.Ctx) error {
	var input dto.ConfirmationInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "body", "invalid input")
	}

	if err := h.userService.ConfirmRegistration(c.UserContext(), input); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) RegistrationEmailResending(c *fiber.Ctx) error {
	var input dto.EmailResendingInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "body", "invalid input")
	}

	if err := h.userService.ResendConfirmation(c.UserContext(), input); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) PasswordRecovery(c *fiber.Ctx) error {
	var input dto.PasswordRecoveryInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "body", "invalid input")
	}

	if err := h.userService.PasswordRecovery(c.UserContext(), input); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) NewPassword(c *fiber.Ctx) error {
	var input dto.NewPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "body", "invalid input")
	}

	if err := h.userService.ConfirmNewPassword(c.UserContext(), input); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "body", "invalid input")
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())
	input.Fingerprint = deviceFingerprint(c)

	pair, err := h.sessionService.Login(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	return c.Status(fiber.StatusOK).JSON(pair)
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	input := dto.RefreshInput{
		RefreshToken: c.Cookies(refreshCookieName),
		IPAddress:    c.IP(),
		UserAgent:    string(c.Request().Header.UserAgent()),
	}

	pair, err := h.sessionService.Refresh(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	return c.Status(fiber.StatusOK).JSON(pair)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessionService.Logout(c.UserContext(), c.Cookies(refreshCookieName)); err != nil {
		return respondError(c, err)
	}

	h.clearRefreshCookie(c)

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals(localUserID).(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	me, err := h.userService.Me(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(me)
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.tokenService.GetRefreshTokenExpiry()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// deviceFingerprint prefers the client-supplied stable fingerprint and falls
// back to hashing IP + user agent, which at least keeps one browser on one
// session row across repeat logins.
func deviceFingerprint(c *fiber.Ctx) string {
	if fp := c.Get("X-Device-Fingerprint"); fp != "" {
		return fp
	}

	sum := sha256.Sum256([]byte(c.IP() + "|" + string(c.Request().Header.UserAgent())))
	return hex.EncodeToString(sum[:])
}

func badRequest(c *fiber.Ctx, field, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"errorsMessages": []apperrors.FieldError{{Field: field, Message: message}},
	})
}

func respondError(c *fiber.Ctx, err error) error {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errorsMessages": verr.Errors})
	}

	switch {
	case errors.Is(err, apperrors.ErrCodeInvalid), errors.Is(err, apperrors.ErrAlreadyConfirmed):
		return badRequest(c, "code", err.Error())
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrInvalidRefreshToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.Is(err, apperrors.ErrSessionNotFound), errors.Is(err, apperrors.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
