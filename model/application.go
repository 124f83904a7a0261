package model

import (
	"time"

	"gorm.io/gorm"
)

// ApplicationStatus is the admission decision state of an application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAdmitted ApplicationStatus = "admitted"
	StatusRejected ApplicationStatus = "rejected"
)

// IsDecision reports whether s is a valid terminal decision.
func (s ApplicationStatus) IsDecision() bool {
	return s == StatusAdmitted || s == StatusRejected
}

// MaxGradeSlots is the number of subject/grade slots an application carries
// on the wire. Grades are stored internally as an ordered sequence and
// flattened to the fixed slots at the boundary.
const MaxGradeSlots = 8

// Application is a student's submitted admission request for a course.
// Target references are accepted at face value; they are not validated
// against the directory tables at submission time.
type Application struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
	ApplicantUserID uint              `gorm:"index" json:"applicant_user_id"`
	StudentName     string            `gorm:"not null" json:"student_name"`
	PhoneNumber     string            `gorm:"type:varchar(32)" json:"phone_number"`
	StudentNumber   string            `gorm:"type:varchar(64)" json:"student_id"`
	UniversityID    uint              `gorm:"index" json:"university_id"`
	CourseID        uint              `gorm:"index" json:"course_id"`
	FacultyID       uint              `json:"faculty_id"`
	MajorSubject    string            `gorm:"type:varchar(255)" json:"major_subject"`
	AppliedAt       time.Time         `json:"application_date"`
	Status          ApplicationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	// Relationships
	Grades []ApplicationGrade `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
}

// ApplicationGrade is one (subject, grade) evidence pair. Position is
// 1-based and preserves the order the pairs were submitted in.
type ApplicationGrade struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ApplicationID uint   `gorm:"not null;index" json:"application_id"`
	Position      int    `gorm:"not null" json:"position"`
	Subject       string `gorm:"type:varchar(255)" json:"subject"`
	Grade         string `gorm:"type:varchar(16)" json:"grade"`
}

// GradePair is the boundary shape of a single grade entry.
type GradePair struct {
	Subject string `json:"subject"`
	Grade   string `json:"grade"`
}

// ApplicationResponse is the fixed-width wire shape of an application.
// All eight subject/grade slots are always present; unused trailing slots
// are empty strings.
type ApplicationResponse struct {
	ID              uint              `json:"id"`
	ApplicantUserID uint              `json:"applicant_user_id"`
	StudentName     string            `json:"student_name"`
	PhoneNumber     string            `json:"phone_number"`
	StudentNumber   string            `json:"student_id"`
	UniversityID    uint              `json:"university_id"`
	CourseID        uint              `json:"course_id"`
	FacultyID       uint              `json:"faculty_id"`
	MajorSubject    string            `json:"major_subject"`
	AppliedAt       time.Time         `json:"application_date"`
	Status          ApplicationStatus `json:"status"`

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

// GradeSlots returns the application's grades flattened into exactly
// MaxGradeSlots pairs, ordered by position, with empty trailing slots.
func (a *Application) GradeSlots() [MaxGradeSlots]GradePair {
	var slots [MaxGradeSlots]GradePair
	for _, g := range a.Grades {
		if g.Position < 1 || g.Position > MaxGradeSlots {
			continue
		}
		slots[g.Position-1] = GradePair{Subject: g.Subject, Grade: g.Grade}
	}
	return slots
}

// ToResponse serializes the application to its fixed-width external shape.
func (a *Application) ToResponse() ApplicationResponse {
	slots := a.GradeSlots()
	return ApplicationResponse{
		ID:              a.ID,
		ApplicantUserID: a.ApplicantUserID,
		StudentName:     a.StudentName,
		PhoneNumber:     a.PhoneNumber,
		StudentNumber:   a.StudentNumber,
		UniversityID:    a.UniversityID,
		CourseID:        a.CourseID,
		FacultyID:       a.FacultyID,
		MajorSubject:    a.MajorSubject,
		AppliedAt:       a.AppliedAt,
		Status:          a.Status,

		Subject1: slots[0].Subject, Grade1: slots[0].Grade,
		Subject2: slots[1].Subject, Grade2: slots[1].Grade,
		Subject3: slots[2].Subject, Grade3: slots[2].Grade,
		Subject4: slots[3].Subject, Grade4: slots[3].Grade,
		Subject5: slots[4].Subject, Grade5: slots[4].Grade,
		Subject6: slots[5].Subject, Grade6: slots[5].Grade,
		Subject7: slots[6].Subject, Grade7: slots[6].Grade,
		Subject8: slots[7].Subject, Grade8: slots[7].Grade,
	}
}
