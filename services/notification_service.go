package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/campusadmit/admissions-api/model"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService writes and serves admission notifications. Delivery
// is pull-only: rows are created here and students fetch them.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotifyDecision records a notification for the applicant after a decision
// has been stored on their application.
func (s *NotificationService) NotifyDecision(ctx context.Context, app *model.Application) error {
	meta, err := json.Marshal(model.DecisionMetadata{
		ApplicationID: app.ID,
		CourseID:      app.CourseID,
		UniversityID:  app.UniversityID,
		Status:        app.Status,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification metadata: %w", err)
	}

	notif := model.AdmissionNotification{
		UserID:        app.ApplicantUserID,
		ApplicationID: app.ID,
		Metadata:      meta,
	}

	switch app.Status {
	case model.StatusAdmitted:
		notif.Type = model.NotificationTypeSuccess
		notif.Title = "Application admitted"
		notif.Message = fmt.Sprintf("Congratulations %s, your application has been admitted.", app.StudentName)
	case model.StatusRejected:
		notif.Type = model.NotificationTypeWarning
		notif.Title = "Application rejected"
		notif.Message = fmt.Sprintf("We are sorry %s, your application has been rejected.", app.StudentName)
	default:
		notif.Type = model.NotificationTypeInfo
		notif.Title = "Application updated"
		notif.Message = fmt.Sprintf("Your application status is now %s.", app.Status)
	}

	return s.db.WithContext(ctx).Create(&notif).Error
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]model.AdmissionNotification, error) {
	var notifs []model.AdmissionNotification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&notifs).Error
	return notifs, err
}

// MarkRead marks one of the user's notifications as read. Notifications
// belonging to other users are invisible, not forbidden.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).
		Model(&model.AdmissionNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// PruneRead deletes read notifications older than the retention window.
// Used by the scheduled cleanup job.
func (s *NotificationService) PruneRead(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res := s.db.WithContext(ctx).
		Unscoped().
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&model.AdmissionNotification{})
	return res.RowsAffected, res.Error
}
