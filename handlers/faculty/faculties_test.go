package faculty

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusadmit/admissions-api/model"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Institution{}, &model.Faculty{}))

	h := NewFacultyHandler(db)

	app := fiber.New()
	app.Get("/faculties", h.ListFaculties)
	app.Post("/faculties", h.CreateFaculty)

	return app, db
}

func postFaculty(t *testing.T, app *fiber.App, body CreateFacultyRequest) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/faculties", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func TestCreateFaculty_Success(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&model.Institution{Name: "Woods", Logo: "x"}).Error)

	res := postFaculty(t, app, CreateFacultyRequest{Name: "Science", InstitutionID: 1})
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.Faculty{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateFaculty_MissingFields(t *testing.T) {
	app, db := newTestApp(t)

	res := postFaculty(t, app, CreateFacultyRequest{InstitutionID: 1})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res = postFaculty(t, app, CreateFacultyRequest{Name: "Science"})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.Faculty{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateFaculty_UnknownInstitution(t *testing.T) {
	app, db := newTestApp(t)

	res := postFaculty(t, app, CreateFacultyRequest{Name: "Science", InstitutionID: 42})
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.Faculty{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListFaculties_FilterByInstitution(t *testing.T) {
	app, db := newTestApp(t)

	require.NoError(t, db.Create(&model.Institution{Name: "Woods", Logo: "x"}).Error)
	require.NoError(t, db.Create(&model.Institution{Name: "Other", Logo: "x"}).Error)
	require.NoError(t, db.Create(&model.Faculty{Name: "Science", InstitutionID: 1}).Error)
	require.NoError(t, db.Create(&model.Faculty{Name: "Arts", InstitutionID: 2}).Error)

	req := httptest.NewRequest(http.MethodGet, "/faculties?institution_id=1", nil)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var envelope struct {
		Data []model.Faculty `json:"data"`
	}
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Science", envelope.Data[0].Name)
}
