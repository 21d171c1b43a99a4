package inventory

import (
	"errors"

	"campusctl/core/controller"
	"campusctl/core/logger"
	"campusctl/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the controller inventory.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/sites", h.HandleSites)
	app.Get("/devices", h.HandleDevices)
	app.Get("/inventory", h.HandleInventory)
	app.Get("/lookup/:kind", h.HandleLookup)
}

// HandleSites lists every site known to the controller.
func (h *Handler) HandleSites(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	sites, err := h.service.Sites(c.Context())
	if err != nil {
		l.Error("Listing sites failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"count": len(sites),
		"sites": sites,
	})
}

// HandleDevices lists devices, optionally filtered by ?site_id=.
func (h *Handler) HandleDevices(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	devices, err := h.service.Devices(c.Context(), c.Query("site_id"))
	if err != nil {
		l.Error("Listing devices failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"count":   len(devices),
		"devices": devices,
	})
}

// HandleInventory returns sites grouped with their devices.
func (h *Handler) HandleInventory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	inv, err := h.service.Inventory(c.Context())
	if err != nil {
		l.Error("Building inventory failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"count": len(inv),
		"sites": inv,
	})
}

// HandleLookup resolves the query parameters as a selector for the kind
// given in the path, e.g. GET /lookup/site?name=HQ&address=Amiens.
func (h *Handler) HandleLookup(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	kind, err := controller.ParseKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	selector := make(reconcile.Selector)
	for key, vals := range c.Queries() {
		selector[key] = vals
	}
	if len(selector) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty selector"})
	}

	result, err := h.service.Lookup(c.Context(), kind, selector)
	if err != nil {
		var ambiguous *reconcile.AmbiguousMatchError
		if errors.As(err, &ambiguous) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":   ambiguous.Error(),
				"matches": ambiguous.Count,
			})
		}
		l.Error("Lookup failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	if !result.Found {
		return c.Status(fiber.StatusNotFound).JSON(result)
	}
	return c.JSON(result)
}
