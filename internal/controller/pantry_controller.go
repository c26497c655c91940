package controller

import (
	"cooksession-be/internal/dto"
	"cooksession-be/internal/pkg/serverutils"
	"cooksession-be/internal/service"
	"cooksession-be/pkg/idempotency"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPantryController interface {
	RegisterRoutes(r fiber.Router)
	Preview(ctx *fiber.Ctx) error
	Apply(ctx *fiber.Ctx) error
	Undo(ctx *fiber.Ctx) error
}

type pantryController struct {
	pantryService service.IPantryService
	guard         *idempotency.Guard
}

func NewPantryController(pantryService service.IPantryService, guard *idempotency.Guard) IPantryController {
	return &pantryController{
		pantryService: pantryService,
		guard:         guard,
	}
}

func (c *pantryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/cooking/v1/sessions/:id/pantry")
	h.Use(serverutils.JwtMiddleware)
	h.Use(idempotency.Middleware(c.guard))
	h.Get("preview", c.Preview)
	h.Post("apply", c.Apply)
	h.Post("undo", c.Undo)
}

func (c *pantryController) Preview(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.pantryService.Preview(ctx.Context(), householdId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success preview pantry decrement", res))
}

func (c *pantryController) Apply(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.PantryApplyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.pantryService.Apply(ctx.Context(), householdId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success apply pantry decrement", res))
}

func (c *pantryController) Undo(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.pantryService.Undo(ctx.Context(), householdId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success undo pantry decrement", res))
}
