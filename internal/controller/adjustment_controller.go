package controller

import (
	"cooksession-be/internal/dto"
	"cooksession-be/internal/pkg/serverutils"
	"cooksession-be/internal/service"
	"cooksession-be/pkg/idempotency"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdjustmentController interface {
	RegisterRoutes(r fiber.Router)
	Preview(ctx *fiber.Ctx) error
	Apply(ctx *fiber.Ctx) error
	Undo(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type adjustmentController struct {
	adjustmentService service.IAdjustmentService
	guard             *idempotency.Guard
}

func NewAdjustmentController(adjustmentService service.IAdjustmentService, guard *idempotency.Guard) IAdjustmentController {
	return &adjustmentController{
		adjustmentService: adjustmentService,
		guard:             guard,
	}
}

func (c *adjustmentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/cooking/v1/sessions/:id/adjust")
	h.Use(serverutils.JwtMiddleware)
	h.Use(idempotency.Middleware(c.guard))
	h.Post("preview", c.Preview)
	h.Post("apply", c.Apply)
	h.Post("undo", c.Undo)
	h.Get("", c.List)
}

func (c *adjustmentController) Preview(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.PreviewAdjustmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.adjustmentService.Preview(ctx.Context(), householdId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success preview adjustment", res))
}

func (c *adjustmentController) Apply(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.ApplyAdjustmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.adjustmentService.Apply(ctx.Context(), householdId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success apply adjustment", res))
}

func (c *adjustmentController) Undo(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	// An empty body means "undo the latest".
	var req dto.UndoAdjustmentRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	res, err := c.adjustmentService.Undo(ctx.Context(), householdId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success undo adjustment", res))
}

func (c *adjustmentController) List(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.adjustmentService.List(ctx.Context(), householdId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list adjustments", res))
}
