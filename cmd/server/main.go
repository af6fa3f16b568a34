package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"bto-flathub/internal/adapters/http/middleware"
	"bto-flathub/internal/adapters/http/routes"
	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/adapters/persistence/repositories"
	"bto-flathub/internal/config"
	"bto-flathub/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "bto-flathub/docs" // Swagger docs
)

// @title BTO FlatHub API
// @version 1.0
// @description Build-To-Order flat application and booking workflow API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@hdb.gov.sg

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.flathub.hdb.gov.sg
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed accounts (sample catalog only in dev)
	seeder := config.NewSeeder(db)
	if err := seeder.Run(cfg.IsDev()); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Start scheduled housekeeping (delist closed projects, purge expired tokens)
	maintenanceService := services.NewMaintenanceService(
		repositories.NewProjectRepository(db),
		repositories.NewRefreshTokenRepository(db),
	)
	maintenanceService.Start()
	defer maintenanceService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "BTO FlatHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
