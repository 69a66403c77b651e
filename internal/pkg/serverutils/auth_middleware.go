package serverutils

import (
	"strings"

	"lumenra-be/internal/pkg/token"
	"lumenra-be/internal/repository/specification"
	"lumenra-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	LocalsUser   = "user"
	LocalsUserId = "user_id"
)

// NewAuthMiddleware guards protected routes: it requires a Bearer token,
// verifies it, re-loads the embedded user, and stashes the result in Locals.
// A token for a deleted user is rejected the same way a bad token is.
func NewAuthMiddleware(tokenService *token.Service, uowFactory unitofwork.RepositoryFactory) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Unauthorized - No token provided",
			})
		}

		claims, err := tokenService.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid or expired token",
			})
		}

		userId, err := uuid.Parse(claims.Id)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid or expired token",
			})
		}

		uow := uowFactory.NewUnitOfWork(ctx.Context())
		user, err := uow.UserRepository().FindOne(ctx.Context(), specification.ByID{ID: userId})
		if err != nil || user == nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Unauthorized - User not found",
			})
		}

		ctx.Locals(LocalsUser, user)
		ctx.Locals(LocalsUserId, user.Id)
		return ctx.Next()
	}
}
