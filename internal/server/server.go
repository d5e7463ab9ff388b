package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/fathima-sithara/poseidon-service/internal/config"
	"github.com/fathima-sithara/poseidon-service/internal/middleware"
)

// New initializes the Fiber application with the global middleware chain.
// Routes are registered by the caller.
func New(cfg *config.Config, logger *zap.Logger, metrics *middleware.Metrics, limiter fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "poseidon-service",
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
		ErrorHandler: errorHandler(logger),
	})

	app.Use(middleware.Recovery(logger))
	app.Use(middleware.RequestID())
	app.Use(middleware.ZapLogger(logger))
	if metrics != nil {
		app.Use(metrics.Handler())
	}
	app.Use(cors.New())
	if limiter != nil {
		app.Use(limiter)
	}
	return app
}

// errorHandler keeps fiber's own errors (404 route, 405) and hides the rest.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
