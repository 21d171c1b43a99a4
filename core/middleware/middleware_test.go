package middleware_test

import (
	"net/http/httptest"
	"testing"

	"campusctl/core/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayID_GeneratesID(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.RayID())
	app.Get("/", func(c *fiber.Ctx) error {
		rayID, _ := c.Locals("ray_id").(string)
		assert.NotEmpty(t, rayID)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.HeaderRayID))
}

func TestRayID_PreservesIncomingID(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.RayID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(middleware.HeaderRayID, "ray-123")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "ray-123", resp.Header.Get(middleware.HeaderRayID))
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{"Disabled", "", "", fiber.StatusOK},
		{"ValidKey", "secret", "secret", fiber.StatusOK},
		{"WrongKey", "secret", "nope", fiber.StatusUnauthorized},
		{"MissingKey", "secret", "", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(middleware.Auth(tt.configured))
			app.Get("/", func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest("GET", "/", nil)
			if tt.provided != "" {
				req.Header.Set(middleware.HeaderAPIKey, tt.provided)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
