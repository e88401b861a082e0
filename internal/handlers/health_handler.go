package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/store"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	driver string
	stores map[string]store.Pinger
}

func NewHealthHandler(driver string, stores map[string]store.Pinger) *HealthHandler {
	return &HealthHandler{driver: driver, stores: stores}
}

func (h *HealthHandler) Home(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"Twitter Api": "Working!"})
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := fiber.StatusOK
	stores := make(map[string]string, len(h.stores))
	for name, p := range h.stores {
		if err := p.Ping(ctx); err != nil {
			stores[name] = "unhealthy: " + err.Error()
			status = "degraded"
			code = fiber.StatusServiceUnavailable
			continue
		}
		stores[name] = "ok"
	}

	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Driver:    h.driver,
		Stores:    stores,
	})
}
