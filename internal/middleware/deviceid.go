package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DeviceID extracts the client-supplied X-Device-ID header into Fiber locals
// so downstream middleware (rate limiting) can key on it. The value is an
// opaque, unverified token; absence is fine and falls back to IP keying.
func DeviceID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if did := strings.TrimSpace(c.Get("X-Device-ID")); did != "" {
			c.Locals("deviceID", did)
		}
		return c.Next()
	}
}
