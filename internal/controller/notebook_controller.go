package controller

import (
	"notebooklm-be/internal/pkg/serverutils"
	"notebooklm-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INotebookController interface {
	RegisterRoutes(r fiber.Router, protected fiber.Handler)
	List(ctx *fiber.Ctx) error
	Sync(ctx *fiber.Ctx) error
}

type notebookController struct {
	service service.INotebookService
}

func NewNotebookController(service service.INotebookService) INotebookController {
	return &notebookController{service: service}
}

func (c *notebookController) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	h := r.Group("/notebooks")
	h.Get("/", c.List)
	h.Post("/sync", protected, c.Sync)
}

func (c *notebookController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get notebooks", res))
}

func (c *notebookController) Sync(ctx *fiber.Ctx) error {
	res, err := c.service.Sync(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notebooks synced", res))
}
