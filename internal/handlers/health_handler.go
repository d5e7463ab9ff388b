package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
	log     *zap.Logger
}

func NewHealthHandler(checks map[string]Check, log *zap.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 3 * time.Second, log: log}
}

func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "Healthy"})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			results[name] = err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}

	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "Unhealthy", "checks": results})
	}
	return c.JSON(fiber.Map{"status": "Healthy", "checks": results})
}
