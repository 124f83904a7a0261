package model

import (
	"time"

	"gorm.io/gorm"
)

// Institution is a top-level organization offering faculties and courses.
// The enrollment counts are reported metadata supplied at creation, not
// derived from the directory tables.
type Institution struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
	Name                string         `gorm:"not null" json:"name"`
	NumberOfStudents    int            `gorm:"default:0" json:"number_of_students"`
	NumberOfDepartments int            `gorm:"default:0" json:"number_of_departments"`
	NumberOfCourses     int            `gorm:"default:0" json:"number_of_courses"`
	Logo                string         `gorm:"type:varchar(512);not null" json:"logo"`

	// Relationships
	Faculties []Faculty `gorm:"foreignKey:InstitutionID;constraint:OnDelete:CASCADE" json:"faculties,omitempty"`
	Courses   []Course  `gorm:"foreignKey:InstitutionID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
}

// Faculty is a subdivision of an institution grouping courses.
type Faculty struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Name          string         `gorm:"not null" json:"name"`
	InstitutionID uint           `gorm:"not null;index" json:"institution_id"`

	// Relationships
	Institution Institution `gorm:"foreignKey:InstitutionID;constraint:OnDelete:CASCADE" json:"institution,omitempty"`
	Courses     []Course    `gorm:"foreignKey:FacultyID;constraint:OnDelete:CASCADE" json:"courses,omitempty"`
}

// Course is an academic program offered under a faculty.
type Course struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Name          string         `gorm:"not null" json:"name"`
	FacultyID     uint           `gorm:"not null;index" json:"faculty_id"`
	InstitutionID uint           `gorm:"not null;index" json:"institution_id"`

	// Relationships
	Faculty     Faculty     `gorm:"foreignKey:FacultyID;constraint:OnDelete:CASCADE" json:"faculty,omitempty"`
	Institution Institution `gorm:"foreignKey:InstitutionID;constraint:OnDelete:CASCADE" json:"institution,omitempty"`
}

// CatalogEntry is the public projection of an institution used by the
// student-facing catalog view.
type CatalogEntry struct {
	ID                  uint   `json:"id"`
	Name                string `json:"name"`
	NumberOfStudents    int    `json:"number_of_students"`
	NumberOfDepartments int    `json:"number_of_departments"`
	NumberOfCourses     int    `json:"number_of_courses"`
	Logo                string `json:"logo"`
}

// ToCatalogEntry projects an institution to its public catalog shape.
func (i *Institution) ToCatalogEntry() CatalogEntry {
	return CatalogEntry{
		ID:                  i.ID,
		Name:                i.Name,
		NumberOfStudents:    i.NumberOfStudents,
		NumberOfDepartments: i.NumberOfDepartments,
		NumberOfCourses:     i.NumberOfCourses,
		Logo:                i.Logo,
	}
}
