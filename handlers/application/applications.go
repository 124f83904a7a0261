package application

import (
	"errors"
	"strconv"

	"github.com/campusadmit/admissions-api/model"
	"github.com/campusadmit/admissions-api/services"
	"github.com/campusadmit/admissions-api/utils/middleware"
	"github.com/campusadmit/admissions-api/utils/response"
	"github.com/campusadmit/admissions-api/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles admission application requests
type ApplicationHandler struct {
	applicationService  *services.ApplicationService
	notificationService *services.NotificationService
	validator           *validation.Validator
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService, notificationService *services.NotificationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService:  applicationService,
		notificationService: notificationService,
		validator:           validation.NewValidator(),
	}
}

// SubmitApplicationRequest represents the request body for submitting an
// application. Grades arrive either as the legacy fixed subject1..grade8
// fields or as a grades array; the array wins when both are present.
type SubmitApplicationRequest struct {
	StudentName   string `json:"student_name" validate:"required,max=255"`
	PhoneNumber   string `json:"phone_number" validate:"omitempty,max=32"`
	StudentNumber string `json:"student_id" validate:"omitempty,max=64"`
	UniversityID  uint   `json:"university_id"`
	CourseID      uint   `json:"course_id"`
	FacultyID     uint   `json:"faculty_id"`
	MajorSubject  string `json:"major_subject" validate:"omitempty,max=255"`

	Grades []model.GradePair `json:"grades" validate:"omitempty,max=8"`

	Subject1 string `json:"subject1"`
	Grade1   string `json:"grade1"`
	Subject2 string `json:"subject2"`
	Grade2   string `json:"grade2"`
	Subject3 string `json:"subject3"`
	Grade3   string `json:"grade3"`
	Subject4 string `json:"subject4"`
	Grade4   string `json:"grade4"`
	Subject5 string `json:"subject5"`
	Grade5   string `json:"grade5"`
	Subject6 string `json:"subject6"`
	Grade6   string `json:"grade6"`
	Subject7 string `json:"subject7"`
	Grade7   string `json:"grade7"`
	Subject8 string `json:"subject8"`
	Grade8   string `json:"grade8"`
}

// gradePairs normalizes the two input shapes into one ordered sequence.
// Fixed-slot input keeps its slot positions; trailing empty slots are
// dropped so they stay empty on the way back out.
func (r *SubmitApplicationRequest) gradePairs() []model.GradePair {
	if len(r.Grades) > 0 {
		return r.Grades
	}

	slots := []model.GradePair{
		{Subject: r.Subject1, Grade: r.Grade1},
		{Subject: r.Subject2, Grade: r.Grade2},
		{Subject: r.Subject3, Grade: r.Grade3},
		{Subject: r.Subject4, Grade: r.Grade4},
		{Subject: r.Subject5, Grade: r.Grade5},
		{Subject: r.Subject6, Grade: r.Grade6},
		{Subject: r.Subject7, Grade: r.Grade7},
		{Subject: r.Subject8, Grade: r.Grade8},
	}

	last := -1
	for i, p := range slots {
		if p.Subject != "" || p.Grade != "" {
			last = i
		}
	}
	return slots[:last+1]
}

// SubmitApplication handles POST /applications
func (h *ApplicationHandler) SubmitApplication(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req SubmitApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	app, err := h.applicationService.Submit(c.Context(), user.ID, services.SubmitApplicationInput{
		StudentName:   req.StudentName,
		PhoneNumber:   req.PhoneNumber,
		StudentNumber: req.StudentNumber,
		UniversityID:  req.UniversityID,
		CourseID:      req.CourseID,
		FacultyID:     req.FacultyID,
		MajorSubject:  req.MajorSubject,
		Grades:        req.gradePairs(),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStudentNameRequired),
			errors.Is(err, services.ErrTooManyGrades):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, app.ToResponse())
}

func toResponses(apps []model.Application) []model.ApplicationResponse {
	out := make([]model.ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, apps[i].ToResponse())
	}
	return out
}

// ListApplications handles GET /applications?institution_id=
// Staff review queue for one institution.
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	institutionID := c.QueryInt("institution_id")
	if institutionID <= 0 {
		return response.BadRequest(c, "institution_id query parameter is required")
	}

	apps, err := h.applicationService.ListForInstitution(c.Context(), uint(institutionID))
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Success(c, toResponses(apps))
}

// ListMyApplications handles GET /applications/mine
func (h *ApplicationHandler) ListMyApplications(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	apps, err := h.applicationService.ListForStudent(c.Context(), user.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Success(c, toResponses(apps))
}

// DecideRequest represents the request body for an admission decision
type DecideRequest struct {
	Status model.ApplicationStatus `json:"status" validate:"required"`
}

// DecideApplication handles PUT /applications/:id/decision
func (h *ApplicationHandler) DecideApplication(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req DecideRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	app, err := h.applicationService.Decide(c.Context(), uint(id), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDecision):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		default:
			return response.InternalServerError(c, "Failed to record decision")
		}
	}

	return response.SuccessWithMessage(c, "Decision recorded", app.ToResponse())
}

// GetNotifications handles GET /notifications
// Returns the authenticated user's notifications, newest first.
func (h *ApplicationHandler) GetNotifications(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	notifications, err := h.notificationService.ListForUser(c.Context(), user.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch notifications")
	}

	return response.Success(c, notifications)
}

// MarkNotificationRead handles POST /notifications/:id/read
func (h *ApplicationHandler) MarkNotificationRead(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid notification ID")
	}

	if err := h.notificationService.MarkRead(c.Context(), user.ID, uint(id)); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to mark notification as read")
	}

	return response.SuccessWithMessage(c, "Notification marked as read", nil)
}
