package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campusadmit/admissions-api/model"
	"github.com/campusadmit/admissions-api/services/storage"
	authutil "github.com/campusadmit/admissions-api/utils/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.JWTTokenBlacklist{}))

	jwtManager := authutil.NewJWTManager(authutil.JWTConfig{
		Secret:        "test-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "admissions-api-test",
	})

	blobStore, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	h := NewAuthHandler(db, jwtManager, nil, blobStore)

	app := fiber.New()
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/auth/refresh", h.RefreshToken)

	return app, db
}

func registerForm(t *testing.T, fields map[string]string, fileField, filename string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func doRegister(t *testing.T, app *fiber.App, email string, fileData []byte, filename string) *http.Response {
	t.Helper()

	fields := map[string]string{
		"name":      "Jane Roe",
		"email":     email,
		"password":  "password123",
		"user_type": "student",
	}
	fileField := ""
	if fileData != nil {
		fileField = "profilePicture"
	}
	body, contentType := registerForm(t, fields, fileField, filename, fileData)

	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", contentType)

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func TestRegister_Success(t *testing.T) {
	app, db := newTestApp(t)

	res := doRegister(t, app, "jane@example.com", pngBytes, "me.png")
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var user model.User
	require.NoError(t, db.First(&user).Error)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.NotEmpty(t, user.ProfilePicture)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app, db := newTestApp(t)

	res := doRegister(t, app, "jane@example.com", pngBytes, "me.png")
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = doRegister(t, app, "jane@example.com", pngBytes, "me.png")
	assert.Equal(t, fiber.StatusConflict, res.StatusCode)

	// No second row was written
	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_PDFRejectedBeforeUserInsert(t *testing.T) {
	app, db := newTestApp(t)

	res := doRegister(t, app, "jane@example.com", []byte("%PDF-1.4 fake document"), "cv.pdf")
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "rejected upload must not create a user")
}

func TestRegister_ShortPassword(t *testing.T) {
	app, _ := newTestApp(t)

	body, contentType := registerForm(t, map[string]string{
		"name":     "Jane Roe",
		"email":    "jane@example.com",
		"password": "short",
	}, "", "", nil)

	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", contentType)

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestRegister_MissingUserType(t *testing.T) {
	app, db := newTestApp(t)

	body, contentType := registerForm(t, map[string]string{
		"name":     "Jane Roe",
		"email":    "jane@example.com",
		"password": "password123",
	}, "profilePicture", "me.png", pngBytes)

	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", contentType)

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegister_MissingProfilePicture(t *testing.T) {
	app, db := newTestApp(t)

	res := doRegister(t, app, "jane@example.com", nil, "")
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegister_StoreFailureIsNotConflict(t *testing.T) {
	app, db := newTestApp(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	res := doRegister(t, app, "jane@example.com", pngBytes, "me.png")
	assert.Equal(t, fiber.StatusInternalServerError, res.StatusCode)
}

func doLogin(t *testing.T, app *fiber.App, email, password string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(LoginRequest{Email: email, Password: password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func TestLogin_Success(t *testing.T) {
	app, _ := newTestApp(t)

	require.Equal(t, fiber.StatusCreated, doRegister(t, app, "jane@example.com", pngBytes, "me.png").StatusCode)

	res := doLogin(t, app, "jane@example.com", "password123")
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "access_token")
	assert.Contains(t, string(raw), "refresh_token")
}

func TestLogin_FailureCasesIndistinguishable(t *testing.T) {
	app, _ := newTestApp(t)

	require.Equal(t, fiber.StatusCreated, doRegister(t, app, "jane@example.com", pngBytes, "me.png").StatusCode)

	unknownRes := doLogin(t, app, "nobody@example.com", "password123")
	wrongRes := doLogin(t, app, "jane@example.com", "wrongpassword")

	assert.Equal(t, fiber.StatusUnauthorized, unknownRes.StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, wrongRes.StatusCode)

	unknownBody, err := io.ReadAll(unknownRes.Body)
	require.NoError(t, err)
	wrongBody, err := io.ReadAll(wrongRes.Body)
	require.NoError(t, err)
	assert.Equal(t, string(unknownBody), string(wrongBody),
		"unknown email and wrong password must be indistinguishable")
}

func TestLogin_MalformedEmailRejected(t *testing.T) {
	app, _ := newTestApp(t)

	res := doLogin(t, app, "not-an-email", "password123")
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res = doLogin(t, app, "jane@example.com", "")
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestRefreshToken_RotatesAndRevokesOld(t *testing.T) {
	app, _ := newTestApp(t)

	require.Equal(t, fiber.StatusCreated, doRegister(t, app, "jane@example.com", pngBytes, "me.png").StatusCode)

	res := doLogin(t, app, "jane@example.com", "password123")
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var envelope struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	refreshToken := envelope.Data.RefreshToken
	require.NotEmpty(t, refreshToken)

	refresh := func() *http.Response {
		payload := `{"refresh_token":"` + refreshToken + `"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r, err := app.Test(req, -1)
		require.NoError(t, err)
		return r
	}

	first := refresh()
	assert.Equal(t, fiber.StatusOK, first.StatusCode)

	// The same refresh token cannot be used twice
	second := refresh()
	assert.Equal(t, fiber.StatusUnauthorized, second.StatusCode)
}
