package controller

import (
	"lumenra-be/internal/dto"
	"lumenra-be/internal/pkg/apperror"
	"lumenra-be/internal/pkg/logger"
	"lumenra-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	ForgotPassword(ctx *fiber.Ctx) error
	ResetPassword(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	log     logger.ILogger
}

func NewAuthController(service service.IAuthService, log logger.ILogger) IAuthController {
	return &authController{service: service, log: log}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/forgot-password", c.ForgotPassword)
	h.Post("/reset-password", c.ResetPassword)
}

// fail maps a service error onto the auth routes' {message} envelope and
// logs internal causes server-side.
func (c *authController) fail(ctx *fiber.Ctx, err error) error {
	appErr := apperror.From(err)
	if appErr.Err != nil {
		c.log.Error("auth", "request failed", map[string]interface{}{
			"path":  ctx.Path(),
			"error": appErr.Err.Error(),
		})
	}
	return ctx.Status(appErr.StatusCode).JSON(fiber.Map{
		"message": appErr.Message,
	})
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	user, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return c.fail(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user":    user,
	})
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		return c.fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"status":  "success",
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (c *authController) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	message, err := c.service.ForgotPassword(ctx.Context(), &req)
	if err != nil {
		return c.fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"message": message,
	})
}

func (c *authController) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.service.ResetPassword(ctx.Context(), &req); err != nil {
		return c.fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "Password reset successfully. Please login.",
	})
}
