package user

import (
	"github.com/campusadmit/admissions-api/database"
	"github.com/gofiber/fiber/v2"
)

// HandleGetUsers handles GET /users. A legacy directory listing; password
// hashes never leave the store layer.
func HandleGetUsers(c *fiber.Ctx, store database.Storage) error {
	users, err := store.ListUsers()
	if err != nil {
		return err
	}
	return c.JSON(users)
}
