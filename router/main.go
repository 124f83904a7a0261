package router

import (
	"log"
	"time"

	"github.com/campusadmit/admissions-api/config"
	"github.com/campusadmit/admissions-api/database"
	"github.com/campusadmit/admissions-api/handlers"
	application_handlers "github.com/campusadmit/admissions-api/handlers/application"
	auth_handlers "github.com/campusadmit/admissions-api/handlers/auth"
	course_handlers "github.com/campusadmit/admissions-api/handlers/course"
	faculty_handlers "github.com/campusadmit/admissions-api/handlers/faculty"
	institution_handlers "github.com/campusadmit/admissions-api/handlers/institution"
	user_handlers "github.com/campusadmit/admissions-api/handlers/user"
	"github.com/campusadmit/admissions-api/services"
	"github.com/campusadmit/admissions-api/services/storage"
	"github.com/campusadmit/admissions-api/utils"
	"github.com/campusadmit/admissions-api/utils/auth"
	"github.com/campusadmit/admissions-api/utils/cache"
	"github.com/campusadmit/admissions-api/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func newBlobStore(env *config.EnviornmentVariable) (storage.Store, error) {
	if env.STORAGE_DRIVER == "spaces" {
		return storage.NewSpacesStore(storage.SpacesConfig{
			AccessKey: env.SPACES_ACCESS_KEY,
			SecretKey: env.SPACES_SECRET_KEY,
			Bucket:    env.SPACES_BUCKET,
			Region:    env.SPACES_REGION,
			Endpoint:  env.SPACES_ENDPOINT,
			CDNURL:    env.SPACES_CDN_URL,
		})
	}
	return storage.NewDiskStore(env.UPLOAD_DIR)
}

func SetupRoutes(app *fiber.App, store database.Storage) {
	env, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "admissions-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs the login lockout; without it logins still work,
	// just without the lockout.
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	blobStore, err := newBlobStore(env)
	if err != nil {
		log.Fatal("Failed to initialize upload storage:", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection, blobStore)
	institutionHandler := institution_handlers.NewInstitutionHandler(db, blobStore)
	facultyHandler := faculty_handlers.NewFacultyHandler(db)
	courseHandler := course_handlers.NewCourseHandler(db)

	applicationService := services.NewApplicationService(db)
	notificationService := services.NewNotificationService(db)
	applicationHandler := application_handlers.NewApplicationHandler(applicationService, notificationService)

	allowedOrigins := env.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoints (public)
	app.Get("/", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// Legacy directory listings served through the store layer
	app.Get("/users", utils.MakeHTTPHandleFunc(user_handlers.HandleGetUsers, store))
	app.Get("/universities", utils.MakeHTTPHandleFunc(institution_handlers.HandleGetCatalog, store))

	// Account routes at the server root for wire compatibility
	app.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		app.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		app.Post("/login", authHandler.Login)
	}
	app.Get("/profile", authMiddleware.Required(), authHandler.GetProfile)
	app.Put("/profile", authMiddleware.Required(), authHandler.UpdateProfile)

	// Session management
	authGroup := app.Group("/auth")
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/logout-all", authMiddleware.Required(), authHandler.LogoutAll)

	// Institution directory
	app.Get("/institutions", institutionHandler.ListInstitutions)
	app.Get("/institutions/:id", institutionHandler.GetInstitution)
	app.Post("/institutions", authMiddleware.RequireStaff(), institutionHandler.CreateInstitution)
	app.Delete("/institutions/:id", authMiddleware.RequireStaff(), institutionHandler.DeleteInstitution)

	app.Get("/faculties", facultyHandler.ListFaculties)
	app.Post("/faculties", authMiddleware.RequireStaff(), facultyHandler.CreateFaculty)

	app.Get("/courses", courseHandler.ListCourses)
	app.Post("/courses", authMiddleware.RequireStaff(), courseHandler.CreateCourse)

	// Admission workflow
	app.Post("/applications", authMiddleware.Required(), applicationHandler.SubmitApplication)
	app.Get("/applications", authMiddleware.RequireStaff(), applicationHandler.ListApplications)
	app.Get("/applications/mine", authMiddleware.Required(), applicationHandler.ListMyApplications)
	app.Put("/applications/:id/decision", authMiddleware.RequireStaff(), applicationHandler.DecideApplication)

	// Notifications (pull-only)
	app.Get("/notifications", authMiddleware.Required(), applicationHandler.GetNotifications)
	app.Post("/notifications/:id/read", authMiddleware.Required(), applicationHandler.MarkNotificationRead)
}
