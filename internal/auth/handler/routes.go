package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/belij2111/blogger-auth-service/internal/ratelimit"
)

type RateLimitConfig struct {
	Store  ratelimit.Store
	Max    int
	Window time.Duration
}

func (rl RateLimitConfig) guard(endpoint string) fiber.Handler {
	return ratelimit.Middleware(rl.Store, endpoint, rl.Max, rl.Window)
}

func RegisterRoutes(app *fiber.App, h *AuthHandler, sh *SecurityHandler, rl RateLimitConfig) {
	auth := app.Group("/auth")

	// Every mutating auth endpoint sits behind its own rate-limit counter.
	auth.Post("/registration", rl.guard("registration"), h.Registration)
	auth.Post("/registration-confirmation", rl.guard("registration-confirmation"), h.RegistrationConfirmation)
	auth.Post("/registration-email-resending", rl.guard("registration-email-resending"), h.RegistrationEmailResending)
	auth.Post("/password-recovery", rl.guard("password-recovery"), h.PasswordRecovery)
	auth.Post("/new-password", rl.guard("new-password"), h.NewPassword)
	auth.Post("/login", rl.guard("login"), h.Login)
	auth.Post("/refresh-token", h.RefreshToken)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", h.RequireAuth, h.Me)

	security := app.Group("/security")
	security.Get("/devices", sh.GetDevices)
	security.Delete("/devices", sh.TerminateOtherDevices)
	security.Delete("/devices/:deviceId", sh.TerminateDevice)
}
