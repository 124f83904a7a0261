package model

import (
	"time"

	"gorm.io/gorm"
)

// JWTTokenBlacklist holds revoked token IDs until their natural expiry.
// Rows past expires_at are pruned by a scheduled job.
type JWTTokenBlacklist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Token     string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"` // JTI
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	Reason    string         `gorm:"type:varchar(64)" json:"reason"`
	ExpiresAt time.Time      `gorm:"index;not null" json:"expires_at"`
}

// CronJobLog records one run of a scheduled job.
type CronJobLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	JobName    string    `gorm:"type:varchar(64);index;not null" json:"job_name"`
	Status     string    `gorm:"type:varchar(20);not null" json:"status"` // started, completed, failed
	Message    string    `gorm:"type:text" json:"message"`
	DurationMs int64     `json:"duration_ms"`
}
