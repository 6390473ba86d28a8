package ratelimit

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/belij2111/blogger-auth-service/pkg/logger"
)

// Middleware throttles one endpoint. Counters are keyed endpoint:clientIP,
// so each auth endpoint gets its own budget per client.
func Middleware(store Store, endpoint string, max int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := endpoint + ":" + c.IP()

		allowed, err := store.Allow(c.UserContext(), key, max, window)
		if err != nil {
			// A broken limiter backend should not take the auth service down
			// with it; let the request through and complain in the log.
			logger.Get().Error("rate limit store failure", zap.String("key", key), zap.Error(err))
			return c.Next()
		}

		if !allowed {
			logger.Get().Warn("rate limit exceeded",
				zap.String("endpoint", endpoint),
				zap.String("client_ip", c.IP()),
				zap.Int("max_requests", max),
				zap.Duration("window", window),
			)

			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       "Too many requests",
				"retry_after": window.Seconds(),
			})
		}

		return c.Next()
	}
}
