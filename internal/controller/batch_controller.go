package controller

import (
	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/pkg/serverutils"
	"notebooklm-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBatchController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type batchController struct {
	service service.IBatchService
}

func NewBatchController(service service.IBatchService) IBatchController {
	return &batchController{service: service}
}

func (c *batchController) RegisterRoutes(r fiber.Router) {
	r.Post("/notebooks/:notebookId/batch-query", c.Submit)
	r.Get("/batches/:batchId", c.Status)
}

func (c *batchController) Submit(ctx *fiber.Ctx) error {
	var req dto.BatchQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Submit(ctx.UserContext(), ctx.Params("notebookId"), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Batch accepted", res))
}

func (c *batchController) Status(ctx *fiber.Ctx) error {
	res, err := c.service.Status(ctx.UserContext(), ctx.Params("batchId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get batch status", res))
}
