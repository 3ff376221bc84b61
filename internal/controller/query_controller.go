package controller

import (
	"notebooklm-be/internal/dto"
	"notebooklm-be/internal/pkg/serverutils"
	"notebooklm-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type queryController struct {
	service service.IQueryService
}

func NewQueryController(service service.IQueryService) IQueryController {
	return &queryController{service: service}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notebooks/:notebookId")
	h.Post("/query", c.Ask)
	h.Get("/queries", c.List)
	h.Get("/queries/:queryId", c.Show)
}

func (c *queryController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequestError("Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.UserContext(), ctx.Params("notebookId"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ask question", res))
}

func (c *queryController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", service.DefaultQueryListLimit)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.List(ctx.UserContext(), ctx.Params("notebookId"), limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get queries", res))
}

func (c *queryController) Show(ctx *fiber.Ctx) error {
	queryId, err := queryIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), ctx.Params("notebookId"), queryId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show query", res))
}

func queryIdParam(ctx *fiber.Ctx) (uint, error) {
	id, err := ctx.ParamsInt("queryId")
	if err != nil || id <= 0 {
		return 0, serverutils.NewBadRequestError("Invalid query id")
	}
	return uint(id), nil
}
