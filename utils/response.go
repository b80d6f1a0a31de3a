package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var Validate = validator.New()

func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// InternalError hides storage and other server-side failures behind a
// generic message.
func InternalError(c *fiber.Ctx) error {
	return ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
}
