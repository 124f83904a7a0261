package faculty

import (
	"errors"

	"github.com/campusadmit/admissions-api/model"
	"github.com/campusadmit/admissions-api/utils/response"
	"github.com/campusadmit/admissions-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FacultyHandler handles faculty directory requests
type FacultyHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewFacultyHandler creates a new faculty handler
func NewFacultyHandler(db *gorm.DB) *FacultyHandler {
	return &FacultyHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateFacultyRequest represents the request body for creating a faculty
type CreateFacultyRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	InstitutionID uint   `json:"institution_id" validate:"required"`
}

// ListFaculties handles GET /faculties. An institution_id query filters to
// one institution's faculties.
func (h *FacultyHandler) ListFaculties(c *fiber.Ctx) error {
	query := h.db.Order("id ASC")

	if institutionID := c.QueryInt("institution_id"); institutionID > 0 {
		query = query.Where("institution_id = ?", institutionID)
	}

	var faculties []model.Faculty
	if err := query.Find(&faculties).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch faculties")
	}

	return response.Success(c, faculties)
}

// CreateFaculty handles POST /faculties. The parent institution must exist;
// faculties are the one directory level whose parent link is enforced.
func (h *FacultyHandler) CreateFaculty(c *fiber.Ctx) error {
	var req CreateFacultyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}
	req.Name = validation.SanitizeString(req.Name)

	var institution model.Institution
	if err := h.db.First(&institution, req.InstitutionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Institution not found")
		}
		return response.InternalServerError(c, "Failed to fetch institution")
	}

	faculty := model.Faculty{
		Name:          req.Name,
		InstitutionID: req.InstitutionID,
	}

	if err := h.db.Create(&faculty).Error; err != nil {
		return response.InternalServerError(c, "Failed to create faculty")
	}

	return response.Created(c, faculty)
}
