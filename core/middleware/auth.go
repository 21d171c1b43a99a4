package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// HeaderAPIKey is the request header carrying the API key.
const HeaderAPIKey = "X-API-Key"

// Auth validates the API key on every request. An empty configured key
// disables authentication entirely.
func Auth(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey == "" {
			return c.Next()
		}

		provided := c.Get(HeaderAPIKey)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid api key",
			})
		}

		return c.Next()
	}
}
