package routes

import (
	"eventpass/internal/adapters/http/handlers"
	"eventpass/internal/adapters/http/middleware"
	"eventpass/internal/adapters/persistence/repositories"
	"eventpass/internal/config"
	"eventpass/internal/core/services"
	"eventpass/internal/pkg/dedup"
	"eventpass/internal/pkg/eventcal"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the cron
// service so main can manage its lifecycle.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, guard *dedup.Guard) *services.CronService {
	// Initialize repositories
	studentRepo := repositories.NewStudentRepository(db)
	allowlistRepo := repositories.NewAllowlistRepository(db)
	hallRepo := repositories.NewHallRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	foodRepo := repositories.NewFoodRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	// Event calendar: one timezone for every day-key decision
	cal := eventcal.New(cfg.Event.Timezone)

	// Initialize services
	auditService := services.NewAuditService(auditRepo)
	authService := services.NewAuthService(staffRepo, refreshTokenRepo, cfg)
	scanService := services.NewScanService(studentRepo, hallRepo, sessionRepo, foodRepo, guard, auditService, cal, cfg.Event.DedupTTL)
	registrationService := services.NewRegistrationService(studentRepo, allowlistRepo, auditService)
	studentService := services.NewStudentService(studentRepo, auditService)
	hallService := services.NewHallService(hallRepo)
	reportService := services.NewReportService(studentRepo, sessionRepo, foodRepo, auditRepo, cal)
	notificationService := services.NewNotificationService(cfg.Event.SummaryWebhookURL)
	cronService := services.NewCronService(reportService, notificationService, authService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	scanHandler := handlers.NewScanHandler(scanService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	studentHandler := handlers.NewStudentHandler(studentService)
	hallHandler := handlers.NewHallHandler(hallService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, scanHandler,
		registrationHandler, studentHandler, hallHandler, reportHandler, cfg)

	return cronService
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	scanHandler *handlers.ScanHandler,
	registrationHandler *handlers.RegistrationHandler,
	studentHandler *handlers.StudentHandler,
	hallHandler *handlers.HallHandler,
	reportHandler *handlers.ReportHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Public self-registration (rate limited, roster gated)
	router.Post("/register", middleware.RegistrationRateLimiter(), registrationHandler.Register)

	// Auth routes
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", middleware.AuthRateLimiter(), authHandler.RefreshToken)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	authRoutes.Post("/staff", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), authHandler.CreateStaff)
	authRoutes.Get("/staff", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), authHandler.ListStaff)

	// Scan routes (any authenticated staff, never cached)
	scanRoutes := router.Group("/scan", middleware.AuthMiddleware(cfg), middleware.StaffOnly(), middleware.NoCacheHeaders())
	scanRoutes.Post("/hall", scanHandler.ScanHall)
	scanRoutes.Post("/food", scanHandler.ScanFood)

	// Student routes
	studentRoutes := router.Group("/students", middleware.AuthMiddleware(cfg))
	studentRoutes.Get("/", middleware.StaffOnly(), studentHandler.List)
	studentRoutes.Get("/lookup/:eventId", middleware.StaffOnly(), studentHandler.Lookup)
	studentRoutes.Get("/:id", middleware.StaffOnly(), studentHandler.Get)
	studentRoutes.Post("/", middleware.AdminOnly(), studentHandler.Create)
	studentRoutes.Post("/import", middleware.AdminOnly(), studentHandler.Import)
	studentRoutes.Patch("/:id", middleware.AdminOnly(), studentHandler.Update)
	studentRoutes.Delete("/:id", middleware.AdminOnly(), studentHandler.Delete)

	// Hall routes
	hallRoutes := router.Group("/halls", middleware.AuthMiddleware(cfg))
	hallRoutes.Get("/", middleware.StaffOnly(), hallHandler.List)
	hallRoutes.Get("/:id", middleware.StaffOnly(), hallHandler.Get)
	hallRoutes.Post("/", middleware.AdminOnly(), hallHandler.Create)
	hallRoutes.Patch("/:id", middleware.AdminOnly(), hallHandler.Update)
	hallRoutes.Delete("/:id", middleware.AdminOnly(), hallHandler.Delete)

	// Report routes
	reportRoutes := router.Group("/reports", middleware.AuthMiddleware(cfg))
	reportRoutes.Get("/occupancy", middleware.StaffOnly(), reportHandler.Occupancy)
	reportRoutes.Get("/summary", middleware.StaffOnly(), reportHandler.TodaySummary)
	reportRoutes.Get("/audit", middleware.AdminOnly(), reportHandler.AuditLog)
}
