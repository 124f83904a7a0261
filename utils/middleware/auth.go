package middleware

import (
	"errors"
	"strings"

	"github.com/campusadmit/admissions-api/model"
	"github.com/campusadmit/admissions-api/utils/auth"
	"github.com/campusadmit/admissions-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager       *auth.JWTManager
	blacklistService *auth.BlacklistService
	db               *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:       jwtManager,
		blacklistService: auth.NewBlacklistService(db),
		db:               db,
	}
}

// authFailure describes a rejected auth check. authenticate never writes to
// the connection itself; the middleware wrappers turn a failure into exactly
// one HTTP response and stop the chain there.
type authFailure struct {
	internal bool
	message  string
}

func unauthorizedFailure(message string) *authFailure {
	return &authFailure{message: message}
}

func internalFailure(message string) *authFailure {
	return &authFailure{internal: true, message: message}
}

func (f *authFailure) respond(c *fiber.Ctx) error {
	if f.internal {
		return response.InternalServerError(c, f.message)
	}
	return response.Unauthorized(c, f.message)
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*model.User, *auth.Claims, *authFailure) {
	// Get token from Authorization header
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, nil, unauthorizedFailure("Missing authorization token")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, nil, unauthorizedFailure("Invalid authorization format")
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, nil, unauthorizedFailure("Token has expired")
		}
		return nil, nil, unauthorizedFailure("Invalid token")
	}

	// Only access tokens grant access to routes
	if claims.TokenType != "access" {
		return nil, nil, unauthorizedFailure("Invalid token type")
	}

	// Check if token is revoked (blacklisted)
	isRevoked, err := m.blacklistService.IsTokenRevoked(c.Context(), claims.ID)
	if err != nil {
		return nil, nil, internalFailure("Failed to check token status")
	}
	if isRevoked {
		return nil, nil, unauthorizedFailure("Token has been revoked")
	}

	// Load user from database and verify token version
	var user model.User
	if err := m.db.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, unauthorizedFailure("User not found")
		}
		return nil, nil, internalFailure("Failed to load user")
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, unauthorizedFailure("Token has been invalidated")
	}

	return &user, claims, nil
}

func storeUser(c *fiber.Ctx, user *model.User, claims *auth.Claims) {
	c.Locals("user_id", claims.UserID)
	c.Locals("user_email", claims.Email)
	c.Locals("user_role", user.Role)
	c.Locals("claims", claims)
	c.Locals("user", user)
	c.Locals("token_jti", claims.ID)
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, fail := m.authenticate(c)
		if fail != nil {
			return fail.respond(c)
		}

		storeUser(c, user, claims)
		return c.Next()
	}
}

// RequireStaff requires a valid token belonging to an institution or admin
// account.
func (m *AuthMiddleware) RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, fail := m.authenticate(c)
		if fail != nil {
			return fail.respond(c)
		}

		if !user.IsStaff() {
			return response.Forbidden(c, "Institution or admin account required")
		}

		storeUser(c, user, claims)
		return c.Next()
	}
}

// RequireAdmin requires a valid token belonging to an admin account.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, fail := m.authenticate(c)
		if fail != nil {
			return fail.respond(c)
		}

		if user.Role != model.RoleAdmin {
			return response.Forbidden(c, "Admin account required")
		}

		storeUser(c, user, claims)
		return c.Next()
	}
}

// GetUser retrieves the authenticated user from the request context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals("user").(*model.User)
	return user, ok
}

// GetUserID retrieves the authenticated user's id from the request context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("user_id").(uint)
	return id, ok
}

// GetTokenJTI retrieves the current token's JTI from the request context
func GetTokenJTI(c *fiber.Ctx) (string, bool) {
	jti, ok := c.Locals("token_jti").(string)
	return jti, ok
}
