package services

import (
	"context"
	"testing"
	"time"

	"github.com/campusadmit/admissions-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// In-memory sqlite lives and dies with a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Institution{},
		&model.Faculty{},
		&model.Course{},
		&model.Application{},
		&model.ApplicationGrade{},
		&model.AdmissionNotification{},
	))

	return db
}

func submitInput(name string, grades ...model.GradePair) SubmitApplicationInput {
	return SubmitApplicationInput{
		StudentName:  name,
		PhoneNumber:  "555-0100",
		UniversityID: 1,
		CourseID:     2,
		Grades:       grades,
	}
}

func TestSubmit_StoresPendingWithServerTimestamp(t *testing.T) {
	svc := NewApplicationService(newTestDB(t))

	before := time.Now().UTC().Add(-time.Second)
	app, err := svc.Submit(context.Background(), 10, submitInput("Jane Roe",
		model.GradePair{Subject: "Math", Grade: "A"},
		model.GradePair{Subject: "Physics", Grade: "B"},
	))
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, app.Status)
	assert.Equal(t, uint(10), app.ApplicantUserID)
	assert.True(t, app.AppliedAt.After(before), "applied_at should come from the server clock")

	require.Len(t, app.Grades, 2)
	assert.Equal(t, 1, app.Grades[0].Position)
	assert.Equal(t, "Math", app.Grades[0].Subject)
	assert.Equal(t, 2, app.Grades[1].Position)
}

func TestSubmit_StudentNameRequired(t *testing.T) {
	svc := NewApplicationService(newTestDB(t))

	_, err := svc.Submit(context.Background(), 10, submitInput("   "))
	assert.ErrorIs(t, err, ErrStudentNameRequired)
}

func TestSubmit_RejectsTooManyGrades(t *testing.T) {
	svc := NewApplicationService(newTestDB(t))

	grades := make([]model.GradePair, model.MaxGradeSlots+1)
	for i := range grades {
		grades[i] = model.GradePair{Subject: "S", Grade: "A"}
	}

	_, err := svc.Submit(context.Background(), 10, submitInput("Jane Roe", grades...))
	assert.ErrorIs(t, err, ErrTooManyGrades)
}

func TestSubmit_AcceptsDanglingTargets(t *testing.T) {
	svc := NewApplicationService(newTestDB(t))

	in := submitInput("Jane Roe")
	in.UniversityID = 9999
	in.CourseID = 8888

	app, err := svc.Submit(context.Background(), 10, in)
	require.NoError(t, err)
	assert.Equal(t, uint(9999), app.UniversityID)
}

func TestListForInstitution(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Institution{Name: "Woods", Logo: "x"}).Error)
	require.NoError(t, db.Create(&model.Institution{Name: "Other", Logo: "x"}).Error)
	require.NoError(t, db.Create(&model.Faculty{Name: "Science", InstitutionID: 1}).Error)
	require.NoError(t, db.Create(&model.Course{Name: "CS", FacultyID: 1, InstitutionID: 1}).Error)

	// Direct university reference
	direct := submitInput("Direct")
	direct.UniversityID = 1
	direct.CourseID = 0
	_, err := svc.Submit(ctx, 1, direct)
	require.NoError(t, err)

	// Reaches institution 1 through its course
	viaCourse := submitInput("Via Course")
	viaCourse.UniversityID = 0
	viaCourse.CourseID = 1
	_, err = svc.Submit(ctx, 2, viaCourse)
	require.NoError(t, err)

	// Belongs to institution 2
	other := submitInput("Elsewhere")
	other.UniversityID = 2
	other.CourseID = 0
	_, err = svc.Submit(ctx, 3, other)
	require.NoError(t, err)

	// Resolves nowhere
	dangling := submitInput("Dangling")
	dangling.UniversityID = 0
	dangling.CourseID = 7777
	_, err = svc.Submit(ctx, 4, dangling)
	require.NoError(t, err)

	apps, err := svc.ListForInstitution(ctx, 1)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "Direct", apps[0].StudentName)
	assert.Equal(t, "Via Course", apps[1].StudentName)

	empty, err := svc.ListForInstitution(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListForStudent(t *testing.T) {
	svc := NewApplicationService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Submit(ctx, 1, submitInput("Mine"))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 2, submitInput("Theirs"))
	require.NoError(t, err)

	apps, err := svc.ListForStudent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Mine", apps[0].StudentName)
}

func TestDecide_NotFound(t *testing.T) {
	svc := NewApplicationService(newTestDB(t))

	_, err := svc.Decide(context.Background(), 999, model.StatusAdmitted)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestDecide_InvalidDecision(t *testing.T) {
	svc := NewApplicationService(newTestDB(t))

	_, err := svc.Decide(context.Background(), 1, model.StatusPending)
	assert.ErrorIs(t, err, ErrInvalidDecision)

	_, err = svc.Decide(context.Background(), 1, model.ApplicationStatus("maybe"))
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestDecide_OverwritesAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	app, err := svc.Submit(ctx, 10, submitInput("Jane Roe"))
	require.NoError(t, err)

	decided, err := svc.Decide(ctx, app.ID, model.StatusAdmitted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAdmitted, decided.Status)

	// Same decision again is not an error
	decided, err = svc.Decide(ctx, app.ID, model.StatusAdmitted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAdmitted, decided.Status)

	// A later different decision wins
	decided, err = svc.Decide(ctx, app.ID, model.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, decided.Status)

	stored, err := svc.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, stored.Status)
}

func TestDecide_WritesNotification(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db)
	ctx := context.Background()

	app, err := svc.Submit(ctx, 10, submitInput("Jane Roe"))
	require.NoError(t, err)

	_, err = svc.Decide(ctx, app.ID, model.StatusAdmitted)
	require.NoError(t, err)

	var notifs []model.AdmissionNotification
	require.NoError(t, db.Where("user_id = ?", 10).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, app.ID, notifs[0].ApplicationID)
	assert.Equal(t, model.NotificationTypeSuccess, notifs[0].Type)
	assert.False(t, notifs[0].Read)
	assert.Contains(t, string(notifs[0].Metadata), `"status":"admitted"`)
}
