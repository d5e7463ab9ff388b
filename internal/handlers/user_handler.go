package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fathima-sithara/poseidon-service/internal/errs"
	"github.com/fathima-sithara/poseidon-service/internal/middleware"
	"github.com/fathima-sithara/poseidon-service/internal/models"
	"github.com/fathima-sithara/poseidon-service/internal/services"
	"github.com/fathima-sithara/poseidon-service/internal/utils"
)

type UserService interface {
	Register(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (string, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, actorRole models.Role, id string, req models.UpdateUserRequest) error
	Delete(ctx context.Context, id string) error
}

type UserHandler struct {
	svc      UserService
	validate *utils.Validator
	log      *zap.Logger
}

func NewUserHandler(svc UserService, v *utils.Validator, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, validate: v, log: log}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.log, errBadBody)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeError(c, h.log, err)
	}

	u, err := h.svc.Register(c.UserContext(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Location("/api/user/" + u.ID.Hex())
	return c.Status(fiber.StatusCreated).JSON(u.ToResponse())
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.log, errBadBody)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeError(c, h.log, err)
	}

	token, err := h.svc.Login(c.UserContext(), req)
	if errors.Is(err, errs.ErrUnauthorized) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials. Please use your email and password.",
		})
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorize(c, id); err != nil {
		return writeError(c, h.log, err)
	}
	u, err := h.svc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(u.ToResponse())
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorize(c, id); err != nil {
		return writeError(c, h.log, err)
	}

	var req models.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, h.log, errBadBody)
	}
	if err := h.validate.Struct(req); err != nil {
		return writeError(c, h.log, err)
	}

	_, role := middleware.Identity(c)
	if err := h.svc.Update(c.UserContext(), role, id, req); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.authorize(c, id); err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserHandler) authorize(c *fiber.Ctx, targetID string) error {
	actorID, role := middleware.Identity(c)
	return services.CanAccess(actorID, role, targetID)
}
