package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/campusadmit/admissions-api/model"
	"gorm.io/gorm"
)

var (
	ErrStudentNameRequired = errors.New("student name is required")
	ErrTooManyGrades       = fmt.Errorf("at most %d subject/grade pairs are accepted", model.MaxGradeSlots)
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidDecision     = errors.New("decision must be admitted or rejected")
)

// ApplicationService owns the admission workflow: submission, listing for
// review, and decisions.
type ApplicationService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{
		db:            db,
		notifications: NewNotificationService(db),
	}
}

// SubmitApplicationInput carries the fields of a new application. Target
// references are not checked against the directory tables; only the
// student name is mandatory.
type SubmitApplicationInput struct {
	StudentName   string
	PhoneNumber   string
	StudentNumber string
	UniversityID  uint
	CourseID      uint
	FacultyID     uint
	MajorSubject  string
	Grades        []model.GradePair
}

// Submit stores a new application with status pending. The submission
// timestamp is taken from the server clock, never from the client. Grade
// pairs keep their submitted order; positions past the supplied count stay
// empty in the external shape.
func (s *ApplicationService) Submit(ctx context.Context, applicantUserID uint, in SubmitApplicationInput) (*model.Application, error) {
	if strings.TrimSpace(in.StudentName) == "" {
		return nil, ErrStudentNameRequired
	}
	if len(in.Grades) > model.MaxGradeSlots {
		return nil, ErrTooManyGrades
	}

	app := model.Application{
		ApplicantUserID: applicantUserID,
		StudentName:     strings.TrimSpace(in.StudentName),
		PhoneNumber:     in.PhoneNumber,
		StudentNumber:   in.StudentNumber,
		UniversityID:    in.UniversityID,
		CourseID:        in.CourseID,
		FacultyID:       in.FacultyID,
		MajorSubject:    in.MajorSubject,
		AppliedAt:       time.Now().UTC(),
		Status:          model.StatusPending,
	}

	for i, pair := range in.Grades {
		app.Grades = append(app.Grades, model.ApplicationGrade{
			Position: i + 1,
			Subject:  pair.Subject,
			Grade:    pair.Grade,
		})
	}

	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		return nil, err
	}

	return &app, nil
}

// Get loads one application with its grades.
func (s *ApplicationService) Get(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	err := s.db.WithContext(ctx).
		Preload("Grades", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&app, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

// ListForInstitution returns every application whose target chain resolves
// under the institution: either the application names the institution
// directly or its course belongs to it. Records that resolve nowhere never
// show up in any institution's queue. Insertion order.
func (s *ApplicationService) ListForInstitution(ctx context.Context, institutionID uint) ([]model.Application, error) {
	courseIDs := s.db.Model(&model.Course{}).
		Select("id").
		Where("institution_id = ?", institutionID)

	var apps []model.Application
	err := s.db.WithContext(ctx).
		Preload("Grades", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("university_id = ? OR course_id IN (?)", institutionID, courseIDs).
		Order("id ASC").
		Find(&apps).Error
	return apps, err
}

// ListForStudent returns the caller's own submissions with their current
// status, in insertion order.
func (s *ApplicationService) ListForStudent(ctx context.Context, applicantUserID uint) ([]model.Application, error) {
	var apps []model.Application
	err := s.db.WithContext(ctx).
		Preload("Grades", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("applicant_user_id = ?", applicantUserID).
		Order("id ASC").
		Find(&apps).Error
	return apps, err
}

// Decide records an admission decision. The status is overwritten
// unconditionally: deciding an already-decided application is not an
// error, the last write wins. The applicant gets a notification row they
// see on their next fetch.
func (s *ApplicationService) Decide(ctx context.Context, id uint, decision model.ApplicationStatus) (*model.Application, error) {
	if !decision.IsDecision() {
		return nil, ErrInvalidDecision
	}

	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("id = ?", id).
		Update("status", decision).Error; err != nil {
		return nil, err
	}
	app.Status = decision

	if app.ApplicantUserID != 0 {
		if err := s.notifications.NotifyDecision(ctx, app); err != nil {
			// The decision itself stands; the student still sees the
			// status on their applications list.
			log.Println("failed to write decision notification:", err)
		}
	}

	return app, nil
}
