package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType represents the type/severity of notification
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
)

// AdmissionNotification is written when an institution records a decision
// on an application. There is no push channel; the student sees it on the
// next fetch of their notification list.
type AdmissionNotification struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
	UserID        uint             `gorm:"index;not null" json:"user_id"`
	ApplicationID uint             `gorm:"index" json:"application_id"`
	Type          NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title         string           `gorm:"type:varchar(255);not null" json:"title"`
	Message       string           `gorm:"type:text" json:"message"`
	Read          bool             `gorm:"default:false" json:"read"`
	Metadata      datatypes.JSON   `json:"metadata,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// DecisionMetadata is the metadata payload attached to decision
// notifications.
type DecisionMetadata struct {
	ApplicationID uint              `json:"application_id"`
	CourseID      uint              `json:"course_id"`
	UniversityID  uint              `json:"university_id"`
	Status        ApplicationStatus `json:"status"`
}
