package institution

import (
	"errors"
	"strconv"

	"github.com/campusadmit/admissions-api/model"
	"github.com/campusadmit/admissions-api/services/storage"
	"github.com/campusadmit/admissions-api/utils/response"
	"github.com/campusadmit/admissions-api/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InstitutionHandler handles institution directory requests
type InstitutionHandler struct {
	db        *gorm.DB
	blobStore storage.Store
}

// NewInstitutionHandler creates a new institution handler
func NewInstitutionHandler(db *gorm.DB, blobStore storage.Store) *InstitutionHandler {
	return &InstitutionHandler{
		db:        db,
		blobStore: blobStore,
	}
}

// ListInstitutions handles GET /institutions
func (h *InstitutionHandler) ListInstitutions(c *fiber.Ctx) error {
	var institutions []model.Institution
	if err := h.db.Order("id ASC").Find(&institutions).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch institutions")
	}
	return response.Success(c, institutions)
}

// GetInstitution handles GET /institutions/:id
func (h *InstitutionHandler) GetInstitution(c *fiber.Ctx) error {
	id := c.Params("id")

	var institution model.Institution
	err := h.db.Preload("Faculties").Preload("Courses").First(&institution, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Institution not found")
		}
		return response.InternalServerError(c, "Failed to fetch institution")
	}

	return response.Success(c, institution)
}

func parseCount(c *fiber.Ctx, field string) (int, error) {
	raw := c.FormValue(field)
	if raw == "" {
		return 0, errors.New(field + " is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(field + " must be a non-negative integer")
	}
	return n, nil
}

// CreateInstitution handles POST /institutions. Multipart form; every
// field including the logo image is required. The logo is sniffed and
// stored before the row is written, so a rejected upload leaves the
// directory unchanged.
func (h *InstitutionHandler) CreateInstitution(c *fiber.Ctx) error {
	name := validation.SanitizeString(c.FormValue("name"))
	if name == "" {
		return response.BadRequest(c, "Name is required")
	}

	students, err := parseCount(c, "number_of_students")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	departments, err := parseCount(c, "number_of_departments")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	courses, err := parseCount(c, "number_of_courses")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	fh, err := c.FormFile("logo")
	if err != nil || fh == nil {
		return response.BadRequest(c, "Logo image is required")
	}

	location, err := storage.SaveImage(c.Context(), h.blobStore, fh)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFileType) {
			return response.InvalidFileType(c, "")
		}
		return response.InternalServerError(c, "Failed to store logo")
	}

	institution := model.Institution{
		Name:                name,
		NumberOfStudents:    students,
		NumberOfDepartments: departments,
		NumberOfCourses:     courses,
		Logo:                location,
	}

	if err := h.db.Create(&institution).Error; err != nil {
		return response.InternalServerError(c, "Failed to create institution")
	}

	return response.Created(c, institution)
}

// DeleteInstitution handles DELETE /institutions/:id
// Cascade deletes the institution's faculties and courses.
func (h *InstitutionHandler) DeleteInstitution(c *fiber.Ctx) error {
	id := c.Params("id")

	var institution model.Institution
	if err := h.db.First(&institution, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Institution not found")
		}
		return response.InternalServerError(c, "Failed to fetch institution")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("institution_id = ?", institution.ID).Delete(&model.Course{}).Error; err != nil {
			return err
		}
		if err := tx.Where("institution_id = ?", institution.ID).Delete(&model.Faculty{}).Error; err != nil {
			return err
		}
		return tx.Delete(&institution).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete institution")
	}

	return response.SuccessWithMessage(c, "Institution and all related data deleted successfully", nil)
}
