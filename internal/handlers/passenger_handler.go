package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fathima-sithara/poseidon-service/internal/models"
	"github.com/fathima-sithara/poseidon-service/internal/utils"
)

type PassengerService interface {
	GetAll(ctx context.Context) ([]models.Passenger, error)
	GetByID(ctx context.Context, id string) (*models.Passenger, error)
	Create(ctx context.Context, p *models.Passenger) error
	Update(ctx context.Context, id string, p *models.Passenger) error
	Delete(ctx context.Context, id string) error

	GetByClass(ctx context.Context, pclass int) ([]models.Passenger, error)
	GetByGender(ctx context.Context, sex string) ([]models.Passenger, error)
	GetByAgeRange(ctx context.Context, minAge, maxAge float64) ([]models.Passenger, error)
	GetByFareRange(ctx context.Context, minFare, maxFare float64) ([]models.Passenger, error)
	GetSurvivors(ctx context.Context) ([]models.Passenger, error)
	Search(ctx context.Context, c models.PassengerSearchCriteria) ([]models.Passenger, error)

	SurvivalRate(ctx context.Context) (float64, error)
	SurvivalRateByClass(ctx context.Context, pclass int) (float64, error)
	SurvivalRateByGender(ctx context.Context, sex string) (float64, error)
	SurvivalRateByAgeRange(ctx context.Context, minAge, maxAge float64) (float64, error)

	CountTotal(ctx context.Context) (int64, error)
	CountMen(ctx context.Context) (int64, error)
	CountWomen(ctx context.Context) (int64, error)
	CountBoys(ctx context.Context) (int64, error)
	CountGirls(ctx context.Context) (int64, error)
	CountAdults(ctx context.Context) (int64, error)
	CountChildren(ctx context.Context) (int64, error)
	CountByClass(ctx context.Context, pclass int) (int64, error)
}

type PassengerHandler struct {
	svc      PassengerService
	validate *utils.Validator
	log      *zap.Logger
}

func NewPassengerHandler(svc PassengerService, v *utils.Validator, log *zap.Logger) *PassengerHandler {
	return &PassengerHandler{svc: svc, validate: v, log: log}
}

// list runs query and returns the requested page.
func (h *PassengerHandler) list(c *fiber.Ctx, query func(ctx context.Context) ([]models.Passenger, error)) error {
	page, size, err := pagination(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	all, err := query(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(utils.Paginate(all, page, size))
}

func (h *PassengerHandler) GetAll(c *fiber.Ctx) error {
	return h.list(c, h.svc.GetAll)
}

func (h *PassengerHandler) GetSurvivors(c *fiber.Ctx) error {
	return h.list(c, h.svc.GetSurvivors)
}

func (h *PassengerHandler) GetByClass(c *fiber.Ctx) error {
	n, err := classParam(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return h.list(c, func(ctx context.Context) ([]models.Passenger, error) {
		return h.svc.GetByClass(ctx, n)
	})
}

func (h *PassengerHandler) GetByGender(c *fiber.Ctx) error {
	sex := c.Params("sex")
	return h.list(c, func(ctx context.Context) ([]models.Passenger, error) {
		return h.svc.GetByGender(ctx, sex)
	})
}

func (h *PassengerHandler) GetByAgeRange(c *fiber.Ctx) error {
	lo, hi, err := requiredRange(c, "minAge", "maxAge")
	if err != nil {
		return writeError(c, h.log, err)
	}
	return h.list(c, func(ctx context.Context) ([]models.Passenger, error) {
		return h.svc.GetByAgeRange(ctx, lo, hi)
	})
}

func (h *PassengerHandler) GetByFareRange(c *fiber.Ctx) error {
	lo, hi, err := requiredRange(c, "minFare", "maxFare")
	if err != nil {
		return writeError(c, h.log, err)
	}
	return h.list(c, func(ctx context.Context) ([]models.Passenger, error) {
		return h.svc.GetByFareRange(ctx, lo, hi)
	})
}

func (h *PassengerHandler) Search(c *fiber.Ctx) error {
	crit, err := searchCriteria(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return h.list(c, func(ctx context.Context) ([]models.Passenger, error) {
		return h.svc.Search(ctx, crit)
	})
}

func (h *PassengerHandler) GetSurvivalRate(c *fiber.Ctx) error {
	r, err := h.svc.SurvivalRate(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(r)
}

func (h *PassengerHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.svc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(p)
}

func (h *PassengerHandler) Create(c *fiber.Ctx) error {
	p, err := h.parsePassenger(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.svc.Create(c.UserContext(), p); err != nil {
		return writeError(c, h.log, err)
	}
	c.Location("/api/passenger/" + p.ID.Hex())
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *PassengerHandler) Update(c *fiber.Ctx) error {
	p, err := h.parsePassenger(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.svc.Update(c.UserContext(), c.Params("id"), p); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PassengerHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PassengerHandler) parsePassenger(c *fiber.Ctx) (*models.Passenger, error) {
	var req models.PassengerRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errBadBody
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, err
	}
	return req.ToPassenger(), nil
}

func searchCriteria(c *fiber.Ctx) (models.PassengerSearchCriteria, error) {
	var crit models.PassengerSearchCriteria
	if name := c.Query("name"); name != "" {
		crit.Name = &name
	}
	if sex := c.Query("sex"); sex != "" {
		crit.Sex = &sex
	}
	if raw := c.Query("pclass"); raw != "" {
		n, err := intQuery(c, "pclass", 0)
		if err != nil {
			return crit, errBadQuery
		}
		crit.Pclass = &n
	}

	var err error
	if crit.MinAge, err = floatQuery(c, "minAge"); err != nil {
		return crit, err
	}
	if crit.MaxAge, err = floatQuery(c, "maxAge"); err != nil {
		return crit, err
	}
	if crit.MinFare, err = floatQuery(c, "minFare"); err != nil {
		return crit, err
	}
	if crit.MaxFare, err = floatQuery(c, "maxFare"); err != nil {
		return crit, err
	}
	return crit, nil
}
