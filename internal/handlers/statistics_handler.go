package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type StatisticsHandler struct {
	svc PassengerService
	log *zap.Logger
}

func NewStatisticsHandler(svc PassengerService, log *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{svc: svc, log: log}
}

func (h *StatisticsHandler) count(c *fiber.Ctx, key string, fn func(context.Context) (int64, error)) error {
	n, err := fn(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{key: n})
}

func (h *StatisticsHandler) TotalPassengers(c *fiber.Ctx) error {
	return h.count(c, "totalPassengers", h.svc.CountTotal)
}

func (h *StatisticsHandler) Men(c *fiber.Ctx) error {
	return h.count(c, "numberOfMen", h.svc.CountMen)
}

func (h *StatisticsHandler) Women(c *fiber.Ctx) error {
	return h.count(c, "numberOfWomen", h.svc.CountWomen)
}

func (h *StatisticsHandler) Boys(c *fiber.Ctx) error {
	return h.count(c, "numberOfBoys", h.svc.CountBoys)
}

func (h *StatisticsHandler) Girls(c *fiber.Ctx) error {
	return h.count(c, "numberOfGirls", h.svc.CountGirls)
}

func (h *StatisticsHandler) Adults(c *fiber.Ctx) error {
	return h.count(c, "numberOfAdults", h.svc.CountAdults)
}

func (h *StatisticsHandler) Children(c *fiber.Ctx) error {
	return h.count(c, "numberOfChildren", h.svc.CountChildren)
}

func (h *StatisticsHandler) ClassCount(c *fiber.Ctx) error {
	n, err := classParam(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	count, err := h.svc.CountByClass(c.UserContext(), n)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"classNumber": n, "numberOfPassengers": count})
}

func (h *StatisticsHandler) SurvivalRateByAgeRange(c *fiber.Ctx) error {
	lo, hi, err := requiredRange(c, "minAge", "maxAge")
	if err != nil {
		return writeError(c, h.log, err)
	}
	r, err := h.svc.SurvivalRateByAgeRange(c.UserContext(), lo, hi)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"minAge": lo, "maxAge": hi, "survivalRate": r})
}

func (h *StatisticsHandler) SurvivalRateByGender(c *fiber.Ctx) error {
	sex := c.Params("sex")
	r, err := h.svc.SurvivalRateByGender(c.UserContext(), sex)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"gender": sex, "survivalRate": r})
}

func (h *StatisticsHandler) SurvivalRateByClass(c *fiber.Ctx) error {
	n, err := classParam(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	r, err := h.svc.SurvivalRateByClass(c.UserContext(), n)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"classNumber": n, "survivalRate": r})
}
