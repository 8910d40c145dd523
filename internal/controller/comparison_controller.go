package controller

import (
	"finverse-be/internal/dto"
	"finverse-be/internal/pkg/serverutils"
	"finverse-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IComparisonController interface {
	RegisterRoutes(r fiber.Router)
	AddProduct(ctx *fiber.Ctx) error
	RemoveProduct(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
	Matrix(ctx *fiber.Ctx) error
	Summary(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type comparisonController struct {
	comparisonService service.IComparisonService
}

func NewComparisonController(comparisonService service.IComparisonService) IComparisonController {
	return &comparisonController{
		comparisonService: comparisonService,
	}
}

func (c *comparisonController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/comparison/v1")
	h.Post("products", c.AddProduct)
	h.Delete("products/:id", c.RemoveProduct)
	h.Delete("products", c.Clear)
	h.Get("matrix", c.Matrix)
	h.Post("summary", c.Summary)
	h.Get("export", c.Export)
}

func (c *comparisonController) AddProduct(ctx *fiber.Ctx) error {
	var req dto.AddProductRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.comparisonService.AddProduct(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add product", res))
}

func (c *comparisonController) RemoveProduct(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	res, err := c.comparisonService.RemoveProduct(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success remove product", res))
}

func (c *comparisonController) Clear(ctx *fiber.Ctx) error {
	if err := c.comparisonService.ClearSet(ctx.Context()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear comparison", nil))
}

func (c *comparisonController) Matrix(ctx *fiber.Ctx) error {
	res, err := c.comparisonService.GetMatrix(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get comparison matrix", res))
}

func (c *comparisonController) Summary(ctx *fiber.Ctx) error {
	var req dto.SummaryRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	res, err := c.comparisonService.RegenerateSummary(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate summary", res))
}

func (c *comparisonController) Export(ctx *fiber.Ctx) error {
	data, filename, err := c.comparisonService.ExportComparison(ctx.Context())
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/csv")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Send(data)
}
