package controller

import (
	"notebooklm-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IExportController interface {
	RegisterRoutes(r fiber.Router)
	Export(ctx *fiber.Ctx) error
}

type exportController struct {
	service service.IExportService
}

func NewExportController(service service.IExportService) IExportController {
	return &exportController{service: service}
}

func (c *exportController) RegisterRoutes(r fiber.Router) {
	r.Get("/notebooks/:notebookId/queries/:queryId/export", c.Export)
}

// Export returns the bare viewer document, without the response envelope.
func (c *exportController) Export(ctx *fiber.Ctx) error {
	queryId, err := queryIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Export(ctx.UserContext(), ctx.Params("notebookId"), queryId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
