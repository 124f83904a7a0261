package course

import (
	"errors"

	"github.com/campusadmit/admissions-api/model"
	"github.com/campusadmit/admissions-api/utils/response"
	"github.com/campusadmit/admissions-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CourseHandler handles course directory requests
type CourseHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB) *CourseHandler {
	return &CourseHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	FacultyID uint   `json:"faculty_id" validate:"required"`
}

// ListCourses handles GET /courses. faculty_id and institution_id query
// parameters narrow the listing.
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	query := h.db.Order("id ASC")

	if facultyID := c.QueryInt("faculty_id"); facultyID > 0 {
		query = query.Where("faculty_id = ?", facultyID)
	}
	if institutionID := c.QueryInt("institution_id"); institutionID > 0 {
		query = query.Where("institution_id = ?", institutionID)
	}

	var courses []model.Course
	if err := query.Find(&courses).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch courses")
	}

	return response.Success(c, courses)
}

// CreateCourse handles POST /courses. The parent faculty must exist; the
// course inherits the faculty's institution so the two can never disagree.
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}
	req.Name = validation.SanitizeString(req.Name)

	var faculty model.Faculty
	if err := h.db.First(&faculty, req.FacultyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Faculty not found")
		}
		return response.InternalServerError(c, "Failed to fetch faculty")
	}

	course := model.Course{
		Name:          req.Name,
		FacultyID:     faculty.ID,
		InstitutionID: faculty.InstitutionID,
	}

	if err := h.db.Create(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to create course")
	}

	return response.Created(c, course)
}
