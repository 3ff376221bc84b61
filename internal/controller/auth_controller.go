package controller

import (
	"errors"
	"time"

	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/pkg/serverutils"
	"notebooklm-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router, protected fiber.Handler)
	Refresh(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthRefreshService
}

func NewAuthController(service service.IAuthRefreshService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	h := r.Group("/auth")
	h.Post("/refresh", protected, c.Refresh)
}

func (c *authController) Refresh(ctx *fiber.Ctx) error {
	err := c.service.Refresh(ctx.UserContext())
	if errors.Is(err, service.ErrRefreshNotConfigured) {
		return serverutils.NewServiceUnavailableError(err.Error())
	}
	if err != nil {
		return serverutils.NewServiceUnavailableError("Auth refresh failed: " + err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Session refreshed", &dto.RefreshAuthResponse{
		Status:      "refreshed",
		RefreshedAt: time.Now().UTC().Format(time.RFC3339),
	}))
}
