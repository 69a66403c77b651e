package controller

import (
	"lumenra-be/internal/dto"
	"lumenra-be/internal/pkg/apperror"
	"lumenra-be/internal/pkg/logger"
	"lumenra-be/internal/pkg/serverutils"
	"lumenra-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAiController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	Search(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
}

type aiController struct {
	service service.IAiService
	log     logger.ILogger
}

func NewAiController(service service.IAiService, log logger.ILogger) IAiController {
	return &aiController{service: service, log: log}
}

func (c *aiController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/ai")
	h.Post("/search", c.Search)
	h.Post("/chat", authMiddleware, c.Chat)
}

// fail maps a service error onto the AI routes' {success, error} envelope.
func (c *aiController) fail(ctx *fiber.Ctx, err error) error {
	appErr := apperror.From(err)
	if appErr.Err != nil {
		c.log.Error("ai", "request failed", map[string]interface{}{
			"path":  ctx.Path(),
			"error": appErr.Err.Error(),
		})
	}
	return ctx.Status(appErr.StatusCode).JSON(fiber.Map{
		"success": false,
		"error":   appErr.Message,
	})
}

func (c *aiController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	answer, err := c.service.Search(ctx.Context(), req.Query)
	if err != nil {
		return c.fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"data":    answer,
	})
}

func (c *aiController) Chat(ctx *fiber.Ctx) error {
	userId, ok := ctx.Locals(serverutils.LocalsUserId).(uuid.UUID)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Unauthorized - No token provided",
		})
	}

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.Context(), userId, req.SessionId, req.Message)
	if err != nil {
		return c.fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success":   true,
		"sessionId": res.SessionId,
		"assistant": res.Assistant,
	})
}
