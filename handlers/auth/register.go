package auth

import (
	"errors"
	"time"

	"github.com/campusadmit/admissions-api/model"
	"github.com/campusadmit/admissions-api/services/storage"
	authutil "github.com/campusadmit/admissions-api/utils/auth"
	"github.com/campusadmit/admissions-api/utils/middleware"
	"github.com/campusadmit/admissions-api/utils/response"
	"github.com/campusadmit/admissions-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	blacklistService     *authutil.BlacklistService
	bruteForceProtection *middleware.BruteForceProtection
	blobStore            storage.Store
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bruteForceProtection *middleware.BruteForceProtection, blobStore storage.Store) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		blacklistService:     authutil.NewBlacklistService(db),
		bruteForceProtection: bruteForceProtection,
		blobStore:            blobStore,
		validator:            validation.NewValidator(),
	}
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"user_type"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		Role:           user.Role,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

// RegisterResponse represents a successful registration response
type RegisterResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

// Register handles POST /register. The request is multipart/form-data and
// every field including the profilePicture image is required. The picture
// is sniffed and stored before any account row is written, so a rejected
// upload leaves nothing behind.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	name := validation.SanitizeString(c.FormValue("name"))
	email := validation.SanitizeString(c.FormValue("email"))
	password := c.FormValue("password")
	role := validation.SanitizeString(c.FormValue("user_type"))

	if name == "" || email == "" || password == "" || role == "" {
		return response.BadRequest(c, "Name, email, password, and user type are required")
	}
	if !validation.ValidateEmail(email) {
		return response.BadRequest(c, "Invalid email format")
	}
	if !authutil.IsPasswordValid(password) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}
	if !model.IsValidRole(role) {
		return response.BadRequest(c, "Invalid user type")
	}

	fh, err := c.FormFile("profilePicture")
	if err != nil || fh == nil {
		return response.BadRequest(c, "Profile picture is required")
	}

	// Check if user already exists before touching the blob store
	var existingUser model.User
	err = h.db.Where("email = ?", email).First(&existingUser).Error
	if err == nil {
		return response.Conflict(c, "User with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "Failed to check existing accounts")
	}

	profilePicture, err := storage.SaveImage(c.Context(), h.blobStore, fh)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFileType) {
			return response.InvalidFileType(c, "")
		}
		return response.InternalServerError(c, "Failed to store profile picture")
	}

	hashedPassword, err := authutil.HashPassword(password)
	if err != nil {
		return response.InternalServerError(c, "Failed to process password")
	}

	user := model.User{
		Email:          email,
		PasswordHash:   hashedPassword,
		Name:           name,
		Role:           role,
		ProfilePicture: profilePicture,
		TokenVersion:   0,
	}

	if err := h.db.Create(&user).Error; err != nil {
		// A concurrent registration can still slip past the lookup above;
		// the unique index surfaces here as a duplicate-key error. Anything
		// else is a store failure, not a conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.Conflict(c, "User with this email already exists")
		}
		return response.InternalServerError(c, "Failed to create account")
	}

	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}

	refreshToken, _, err := h.jwtManager.GenerateRefreshToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate refresh token")
	}

	res := RegisterResponse{
		User:         toUserResponse(&user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    24 * 60 * 60, // 24 hours in seconds
	}

	return response.Created(c, res)
}
