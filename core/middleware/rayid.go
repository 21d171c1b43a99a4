package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderRayID is the response header carrying the request identifier.
const HeaderRayID = "X-Ray-ID"

// RayID assigns a unique identifier to every incoming request.
// The identifier is stored in the request locals under "ray_id" and
// echoed back in the X-Ray-ID response header for tracing.
func RayID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rayID := c.Get(HeaderRayID)
		if rayID == "" {
			rayID = uuid.NewString()
		}

		c.Locals("ray_id", rayID)
		c.Set(HeaderRayID, rayID)

		return c.Next()
	}
}
