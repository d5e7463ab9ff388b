package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fathima-sithara/poseidon-service/internal/models"
	"github.com/fathima-sithara/poseidon-service/internal/utils"
)

const (
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
)

type TokenValidator interface {
	ValidateToken(token string) (*utils.CustomClaims, bool)
}

func JWTMiddleware(validator TokenValidator, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization header"})
		}

		claims, ok := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserRole, claims.Role)

		logger.Debug("JWT validated", zap.String("user_id", claims.UserID), zap.String("role", claims.Role.String()))
		return c.Next()
	}
}

// RequireRoles must run after JWTMiddleware.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalUserRole).(models.Role)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}
}

// Identity returns the authenticated user id and role set by JWTMiddleware.
func Identity(c *fiber.Ctx) (string, models.Role) {
	id, _ := c.Locals(LocalUserID).(string)
	role, _ := c.Locals(LocalUserRole).(models.Role)
	return id, role
}
