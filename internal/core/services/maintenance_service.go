package services

import (
	"context"
	"log"
	"time"

	"bto-flathub/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// MaintenanceService runs scheduled housekeeping jobs
type MaintenanceService struct {
	projectRepo      repositories.ProjectRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cron             *cron.Cron
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	projectRepo repositories.ProjectRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *MaintenanceService {
	return &MaintenanceService{
		projectRepo:      projectRepo,
		refreshTokenRepo: refreshTokenRepo,
		cron:             cron.New(),
	}
}

// Start schedules the housekeeping jobs
func (s *MaintenanceService) Start() {
	// Shortly after midnight: hide projects whose application window closed.
	s.cron.AddFunc("10 0 * * *", s.delistClosedProjects)

	// Daily at 03:00: purge expired refresh tokens.
	s.cron.AddFunc("0 3 * * *", s.purgeExpiredTokens)

	s.cron.Start()
	log.Println("🚀 MaintenanceService started")
}

// Stop stops the scheduler and waits for running jobs
func (s *MaintenanceService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 MaintenanceService stopped")
}

func (s *MaintenanceService) delistClosedProjects() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.projectRepo.DelistClosed(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Delist closed projects error: %v", err)
		return
	}
	if count > 0 {
		log.Printf("📅 Delisted %d closed projects", count)
	}
}

func (s *MaintenanceService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Purge expired tokens error: %v", err)
	}
}
