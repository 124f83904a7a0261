package auth

import (
	"errors"

	"github.com/campusadmit/admissions-api/model"
	"github.com/campusadmit/admissions-api/services/storage"
	authutil "github.com/campusadmit/admissions-api/utils/auth"
	"github.com/campusadmit/admissions-api/utils/middleware"
	"github.com/campusadmit/admissions-api/utils/response"
	"github.com/campusadmit/admissions-api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	return response.Success(c, toUserResponse(user))
}

// UpdateProfile handles PUT /profile. Multipart form; every field is
// optional and only the supplied ones change. A new profilePicture goes
// through the same sniff-and-store path as registration. Changing the
// password bumps the token version, which invalidates every outstanding
// token for the account.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	updates := map[string]interface{}{}

	if name := validation.SanitizeString(c.FormValue("name")); name != "" {
		updates["name"] = name
	}

	if email := validation.SanitizeString(c.FormValue("email")); email != "" && email != user.Email {
		if !validation.ValidateEmail(email) {
			return response.BadRequest(c, "Invalid email format")
		}
		var existing model.User
		if err := h.db.Where("email = ? AND id != ?", email, user.ID).First(&existing).Error; err == nil {
			return response.Conflict(c, "User with this email already exists")
		}
		updates["email"] = email
	}

	if fh, err := c.FormFile("profilePicture"); err == nil && fh != nil {
		location, err := storage.SaveImage(c.Context(), h.blobStore, fh)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidFileType) {
				return response.InvalidFileType(c, "")
			}
			return response.InternalServerError(c, "Failed to store profile picture")
		}
		updates["profile_picture"] = location
	}

	if password := c.FormValue("password"); password != "" {
		if !authutil.IsPasswordValid(password) {
			return response.BadRequest(c, "Password must be at least 8 characters long")
		}
		hashed, err := authutil.HashPassword(password)
		if err != nil {
			return response.InternalServerError(c, "Failed to process password")
		}
		updates["password_hash"] = hashed
		updates["token_version"] = user.TokenVersion + 1
	}

	if len(updates) == 0 {
		return response.BadRequest(c, "No fields to update")
	}

	if err := h.db.Model(&model.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	var updated model.User
	if err := h.db.First(&updated, user.ID).Error; err != nil {
		return response.InternalServerError(c, "Failed to load profile")
	}

	return response.SuccessWithMessage(c, "Profile updated successfully", toUserResponse(&updated))
}
