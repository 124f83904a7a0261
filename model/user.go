package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles. The original schema calls the column user_type, so the JSON
// name is kept for wire compatibility.
const (
	RoleAdmin       = "admin"
	RoleInstitution = "institution"
	RoleStudent     = "student"
)

// User represents a registered account: an applicant, an institution staff
// member, or an admin.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Name           string         `gorm:"not null" json:"name"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Role           string         `gorm:"type:varchar(20);default:'student'" json:"user_type"`
	ProfilePicture string         `gorm:"type:varchar(512)" json:"profile_picture"`
	TokenVersion   int            `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	Applications   []Application           `gorm:"foreignKey:ApplicantUserID" json:"-"`
	Notifications  []AdmissionNotification `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsValidRole reports whether role is one of the known role tags.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleInstitution, RoleStudent:
		return true
	}
	return false
}

// IsStaff reports whether the role may manage directory entries and
// admission decisions.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleInstitution
}
