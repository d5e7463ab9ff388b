package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger writes one access line per request; 5xx at error, 4xx at warn.
func ZapLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		level := zapcore.InfoLevel
		switch {
		case err != nil || status >= fiber.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= fiber.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		if ce := logger.Check(level, "http request"); ce != nil {
			ce.Write(
				zap.String("request_id", RequestIDFrom(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", status),
				zap.Int("bytes", len(c.Response().Body())),
				zap.Duration("latency", time.Since(start)),
				zap.Error(err),
			)
		}
		return err
	}
}
