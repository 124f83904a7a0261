package institution

import (
	"github.com/campusadmit/admissions-api/database"
	"github.com/gofiber/fiber/v2"
)

// HandleGetCatalog handles GET /universities. The student-facing public
// projection of the institutions table, served through the store layer.
func HandleGetCatalog(c *fiber.Ctx, store database.Storage) error {
	entries, err := store.ListCatalog()
	if err != nil {
		return err
	}
	return c.JSON(entries)
}
