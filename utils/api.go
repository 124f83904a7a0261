package utils

import (
	"log"

	"github.com/campusadmit/admissions-api/database"
	fiber "github.com/gofiber/fiber/v2"
)

// MakeHTTPHandleFunc adapts a store-aware handler to a fiber.Handler.
// Errors bubbling out of the handler are logged and surfaced as a generic
// 500; anything more specific is the handler's job.
func MakeHTTPHandleFunc(handler func(c *fiber.Ctx, store database.Storage) error, store database.Storage) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if err := handler(c, store); err != nil {
			log.Println("handler error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error": fiber.Map{
					"code":    "INTERNAL_ERROR",
					"message": "Internal server error",
				},
			})
		}
		return nil
	}
}
