package routes

import (
	"time"

	"bto-flathub/internal/adapters/http/handlers"
	"bto-flathub/internal/adapters/http/middleware"
	"bto-flathub/internal/adapters/persistence/repositories"
	"bto-flathub/internal/config"
	"bto-flathub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	regRepo := repositories.NewRegistrationRepository(db)
	enquiryRepo := repositories.NewEnquiryRepository(db)

	// Initialize services
	eligibilityService := services.NewEligibilityService()
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, appRepo, userRepo, eligibilityService)
	applicationService := services.NewApplicationService(appRepo, projectRepo, userRepo, regRepo, eligibilityService)
	registrationService := services.NewRegistrationService(regRepo, projectRepo, userRepo, appRepo)
	enquiryService := services.NewEnquiryService(enquiryRepo, projectRepo, userRepo, eligibilityService)
	reportService := services.NewReportService(appRepo)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	enquiryHandler := handlers.NewEnquiryHandler(enquiryService)
	reportHandler := handlers.NewReportHandler(reportService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, projectHandler,
		applicationHandler, registrationHandler, enquiryHandler,
		reportHandler, dashboardHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	applicationHandler *handlers.ApplicationHandler,
	registrationHandler *handlers.RegistrationHandler,
	enquiryHandler *handlers.EnquiryHandler,
	reportHandler *handlers.ReportHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public, never cached)
	authRoutes := router.Group("/auth")
	authRoutes.Use(middleware.NoCacheHeaders())
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (Manager only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.ManagerOnly())
	userRoutes.Get("/", userHandler.List)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	profileRoutes.Use(middleware.PrivateCacheHeaders(30 * time.Second))
	setupProfileRoutes(profileRoutes, userHandler)

	// Project routes
	projectRoutes := router.Group("/projects")
	projectRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProjectRoutes(projectRoutes, projectHandler, registrationHandler, enquiryHandler)

	// Application routes
	applicationRoutes := router.Group("/applications")
	applicationRoutes.Use(middleware.AuthMiddleware(cfg))
	setupApplicationRoutes(applicationRoutes, applicationHandler)

	// Registration routes (Officer submits, Manager decides)
	registrationRoutes := router.Group("/registrations")
	registrationRoutes.Use(middleware.AuthMiddleware(cfg))
	setupRegistrationRoutes(registrationRoutes, registrationHandler)

	// Enquiry routes
	enquiryRoutes := router.Group("/enquiries")
	enquiryRoutes.Use(middleware.AuthMiddleware(cfg))
	setupEnquiryRoutes(enquiryRoutes, enquiryHandler)

	// Report routes (Manager only)
	reportRoutes := router.Group("/reports")
	reportRoutes.Use(middleware.AuthMiddleware(cfg))
	reportRoutes.Use(middleware.ManagerOnly())
	reportRoutes.Get("/bookings", reportHandler.Bookings)

	// Dashboard routes (Manager only)
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.ManagerOnly())
	dashboardRoutes.Get("/", dashboardHandler.Get)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against brute force)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/password", middleware.StrictRateLimiter(), handler.ChangePassword)
}

// setupProjectRoutes configures project routes. Listing and reads are open to
// every authenticated role (the service narrows visibility); mutations are
// manager only.
func setupProjectRoutes(
	router fiber.Router,
	handler *handlers.ProjectHandler,
	registrationHandler *handlers.RegistrationHandler,
	enquiryHandler *handlers.EnquiryHandler,
) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)

	// Staff-facing subresources
	router.Get("/:id/registrations", middleware.ManagerOnly(), registrationHandler.ListByProject)
	router.Get("/:id/enquiries", middleware.OfficerOrManager(), enquiryHandler.ListByProject)

	// Manager mutations
	router.Post("/", middleware.ManagerOnly(), handler.Create)
	router.Put("/:id", middleware.ManagerOnly(), handler.Update)
	router.Delete("/:id", middleware.ManagerOnly(), handler.Delete)
	router.Patch("/:id/visibility", middleware.ManagerOnly(), handler.SetVisibility)
}

// setupApplicationRoutes configures application routes
func setupApplicationRoutes(router fiber.Router, handler *handlers.ApplicationHandler) {
	// Applicant-facing
	router.Post("/", handler.Submit)
	router.Get("/me", handler.GetMine)
	router.Get("/me/availability", handler.Availability)
	router.Post("/me/withdrawal", handler.RequestWithdrawal)

	// Manager decisions
	router.Get("/", middleware.ManagerOnly(), handler.List)
	router.Post("/:id/approve", middleware.ManagerOnly(), handler.Approve)
	router.Post("/:id/reject", middleware.ManagerOnly(), handler.Reject)
	router.Post("/:id/withdrawal/approve", middleware.ManagerOnly(), handler.ApproveWithdrawal)
	router.Post("/:id/withdrawal/reject", middleware.ManagerOnly(), handler.RejectWithdrawal)

	// Officer booking flow
	router.Post("/:id/book", middleware.OfficerOnly(), handler.Book)
	router.Get("/:id/receipt", middleware.OfficerOnly(), handler.Receipt)
}

// setupRegistrationRoutes configures officer registration routes
func setupRegistrationRoutes(router fiber.Router, handler *handlers.RegistrationHandler) {
	router.Post("/", middleware.OfficerOnly(), handler.Submit)
	router.Get("/me", middleware.OfficerOnly(), handler.ListMine)
	router.Post("/:id/approve", middleware.ManagerOnly(), handler.Approve)
	router.Post("/:id/reject", middleware.ManagerOnly(), handler.Reject)
}

// setupEnquiryRoutes configures enquiry routes
func setupEnquiryRoutes(router fiber.Router, handler *handlers.EnquiryHandler) {
	router.Post("/", handler.Submit)
	router.Get("/me", handler.ListMine)
	router.Put("/:id", handler.Edit)
	router.Delete("/:id", handler.Delete)
	router.Post("/:id/reply", middleware.OfficerOrManager(), handler.Reply)
}
