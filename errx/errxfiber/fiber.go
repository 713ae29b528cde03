package errxfiber

import (
	"errors"

	"github.com/Abraxas-365/wacloud/errx"
	"github.com/Abraxas-365/wacloud/logx"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler returns a fiber.ErrorHandler that renders errx.Error values as
//
//	{"error": {"code": ..., "type": ..., "message": ..., "details": ...}}
//
// Register it on the app:
//
//	app := fiber.New(fiber.Config{ErrorHandler: errxfiber.ErrorHandler()})
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var xerr *errx.Error
		if errors.As(err, &xerr) {
			logx.Warn("%s %s failed: %v", c.Method(), c.Path(), xerr)
			return c.Status(xerr.StatusOrDefault()).JSON(fiber.Map{"error": body(xerr)})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "FIBER_ERROR",
					"type":    errx.TypeInternal,
					"message": fiberErr.Message,
				},
			})
		}

		logx.Error("%s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_ERROR",
				"type":    errx.TypeInternal,
				"message": err.Error(),
			},
		})
	}
}

// ToFiber converts an errx.Error to a plain fiber.Error
func ToFiber(e *errx.Error) error {
	return fiber.NewError(e.StatusOrDefault(), e.Message)
}

func body(e *errx.Error) fiber.Map {
	m := fiber.Map{
		"code":    e.Code,
		"type":    e.Type,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		m["details"] = e.Details
	}
	return m
}
