package handlers

import (
	"github.com/campusadmit/admissions-api/database"
	"github.com/gofiber/fiber/v2"
)

// HandleCheckHealth reports service and database health.
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"error":  "database unreachable",
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
