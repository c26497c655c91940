package controller

import (
	"cooksession-be/internal/dto"
	"cooksession-be/internal/pkg/serverutils"
	"cooksession-be/internal/service"
	"cooksession-be/pkg/idempotency"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	GetActive(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Mutate(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
	Complete(ctx *fiber.Ctx) error
	Why(ctx *fiber.Ctx) error
	Events(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
	guard          *idempotency.Guard
}

func NewSessionController(sessionService service.ISessionService, guard *idempotency.Guard) ISessionController {
	return &sessionController{
		sessionService: sessionService,
		guard:          guard,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/cooking/v1/sessions")
	h.Use(serverutils.JwtMiddleware)
	h.Use(idempotency.Middleware(c.guard))
	h.Post("", c.Start)
	h.Get("active", c.GetActive)
	h.Get(":id", c.Show)
	h.Patch(":id", c.Mutate)
	h.Post(":id/end", c.End)
	h.Post(":id/complete", c.Complete)
	h.Get(":id/why", c.Why)
	h.Get(":id/events", c.Events)
}

func (c *sessionController) Start(ctx *fiber.Ctx) error {
	householdId, userId := identity(ctx)

	var req dto.StartSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Start(ctx.Context(), householdId, userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success start session", res))
}

func (c *sessionController) GetActive(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)

	res, err := c.sessionService.GetActive(ctx.Context(), householdId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show active session", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.Show(ctx.Context(), householdId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Mutate(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.MutateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Mutate(ctx.Context(), householdId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update session", res))
}

func (c *sessionController) End(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.EndSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.End(ctx.Context(), householdId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success end session", res))
}

func (c *sessionController) Complete(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.CompleteSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Complete(ctx.Context(), householdId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success complete session", res))
}

func (c *sessionController) Why(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.Why(ctx.Context(), householdId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success explain suggestion", res))
}

func (c *sessionController) Events(ctx *fiber.Ctx) error {
	householdId, _ := identity(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))
	limit := ctx.QueryInt("limit", 50)

	res, err := c.sessionService.EventTail(ctx.Context(), householdId, id, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list events", res))
}

// identity pulls the household and user ids set by the JWT middleware.
func identity(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID) {
	householdStr, _ := ctx.Locals("household_id").(string)
	userStr, _ := ctx.Locals("user_id").(string)
	householdId, _ := uuid.Parse(householdStr)
	userId, _ := uuid.Parse(userStr)
	return householdId, userId
}
