package idempotency

import (
	"github.com/gofiber/fiber/v2"
)

const HeaderKey = "Idempotency-Key"

// Middleware wraps mutating routes with the guard. Requests without the
// header pass through untouched. Replayed requests get the recorded response
// without re-running the handler; a reused key with a different body is a 409.
func Middleware(guard *Guard) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := ctx.Get(HeaderKey)
		if token == "" {
			return ctx.Next()
		}

		household, _ := ctx.Locals("household_id").(string)
		hash := BodyHash(household, ctx.Path(), ctx.Body())

		rec, err := guard.Check(token, hash)
		if err != nil {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"code":    "CONFLICT",
				"message": "Idempotency key was already used with a different request body",
			})
		}
		if rec != nil {
			ctx.Set("X-Idempotent-Replay", "true")
			ctx.Set("Content-Type", "application/json")
			return ctx.Status(rec.StatusCode).Send(rec.Body)
		}

		if err := ctx.Next(); err != nil {
			return err
		}

		// Only successful outcomes are replayable; failed mutations may be
		// retried for real.
		status := ctx.Response().StatusCode()
		if status < 300 {
			guard.Store(token, hash, status, ctx.Response().Body())
		}
		return nil
	}
}
