package serverutils

import (
	"strings"

	"lumenra-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware is the catch-all for errors that escape the
// controllers (body-parse failures, panics recovered by fiber, anything
// unmapped). Causes are logged server-side; clients only ever see the
// route family's generic envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		log.Error("http", "unhandled request error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})

		if strings.HasPrefix(ctx.Path(), "/api/ai") {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Internal server error",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}
