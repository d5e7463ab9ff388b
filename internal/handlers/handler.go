package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fathima-sithara/poseidon-service/internal/errs"
	"github.com/fathima-sithara/poseidon-service/internal/utils"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

var (
	errBadQuery = fmt.Errorf("%w: invalid query parameter", errs.ErrValidation)
	errBadBody  = fmt.Errorf("%w: invalid request body", errs.ErrValidation)
)

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var reqErr *utils.RequestError
	switch {
	case errors.As(err, &reqErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "details": reqErr.Fields})
	case errors.Is(err, errs.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, errs.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, errs.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	case errors.Is(err, errs.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.Is(err, errs.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
	default:
		log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

func pagination(c *fiber.Ctx) (page, pageSize int, err error) {
	page, err = intQuery(c, "page", defaultPage)
	if err != nil || page < 1 {
		return 0, 0, fmt.Errorf("%w: page must be a positive integer", errBadQuery)
	}
	pageSize, err = intQuery(c, "pageSize", defaultPageSize)
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		return 0, 0, fmt.Errorf("%w: pageSize must be between 1 and %d", errBadQuery, maxPageSize)
	}
	return page, pageSize, nil
}

func intQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// floatQuery returns nil when the parameter is absent.
func floatQuery(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", errBadQuery, key)
	}
	return &v, nil
}

func requiredRange(c *fiber.Ctx, minKey, maxKey string) (float64, float64, error) {
	lo, err := floatQuery(c, minKey)
	if err != nil {
		return 0, 0, err
	}
	hi, err := floatQuery(c, maxKey)
	if err != nil {
		return 0, 0, err
	}
	if lo == nil || hi == nil {
		return 0, 0, fmt.Errorf("%w: %s and %s are required", errBadQuery, minKey, maxKey)
	}
	return *lo, *hi, nil
}

func classParam(c *fiber.Ctx) (int, error) {
	n, err := c.ParamsInt("classNumber")
	if err != nil {
		return 0, fmt.Errorf("%w: classNumber must be an integer", errBadQuery)
	}
	return n, nil
}
