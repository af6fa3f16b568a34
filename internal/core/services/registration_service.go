package services

import (
	"context"
	"errors"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/adapters/persistence/repositories"
	"bto-flathub/internal/core/domain"

	"gorm.io/gorm"
)

// RegistrationService handles officer registrations to administer projects
type RegistrationService struct {
	regRepo     repositories.RegistrationRepository
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
	appRepo     repositories.ApplicationRepository
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	regRepo repositories.RegistrationRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	appRepo repositories.ApplicationRepository,
) *RegistrationService {
	return &RegistrationService{
		regRepo:     regRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		appRepo:     appRepo,
	}
}

// Submit creates a PENDING registration for the officer. An officer may not
// hold two commitments (handling assignment, live registration, or active
// application) whose project windows overlap.
func (s *RegistrationService) Submit(ctx context.Context, officerID, projectID uint) (*models.Registration, error) {
	officer, err := s.userRepo.GetByID(ctx, officerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if !officer.IsOfficer() {
		return nil, domain.ErrNotOfficer
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}
	window := project.Window()

	// An officer who applied for a flat in this project cannot also run it.
	applied, err := s.appRepo.ExistsActiveByUserAndProject(ctx, officerID, projectID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, domain.ErrAppliedToProject
	}

	// Current handling assignment.
	if officer.HandlingProjectID != nil {
		handling := officer.HandlingProject
		if handling == nil {
			handling, err = s.projectRepo.GetByID(ctx, *officer.HandlingProjectID)
			if err != nil {
				return nil, err
			}
		}
		if handling.Window().Overlaps(window) {
			return nil, domain.ErrOverlappingCommitment
		}
	}

	// Live registrations. A repeat registration for the same project always
	// overlaps itself and is caught here too.
	regs, err := s.regRepo.ListNonRejectedByUserID(ctx, officerID)
	if err != nil {
		return nil, err
	}
	for _, reg := range regs {
		if reg.Project != nil && reg.Project.Window().Overlaps(window) {
			return nil, domain.ErrOverlappingCommitment
		}
	}

	// Active flat applications.
	apps, err := s.appRepo.ListActiveByUserID(ctx, officerID)
	if err != nil {
		return nil, err
	}
	for _, app := range apps {
		if app.Project != nil && app.Project.Window().Overlaps(window) {
			return nil, domain.ErrOverlappingCommitment
		}
	}

	reg := &models.Registration{
		UserID:    officerID,
		ProjectID: projectID,
		Status:    domain.RegistrationPending,
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, err
	}
	reg.User = officer
	reg.Project = project
	return reg, nil
}

// GetByID gets a registration by ID
func (s *RegistrationService) GetByID(ctx context.Context, id uint) (*models.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

// ListMy lists the officer's registrations
func (s *RegistrationService) ListMy(ctx context.Context, officerID uint) ([]*models.Registration, error) {
	return s.regRepo.ListByUserID(ctx, officerID)
}

// ListByProject lists registrations for a project the manager owns
func (s *RegistrationService) ListByProject(ctx context.Context, projectID, managerID uint, status domain.RegistrationStatus, offset, limit int) ([]*models.Registration, int64, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, 0, domain.ErrProjectNotFound
	}
	if project.ManagerID != managerID {
		return nil, 0, domain.ErrNotProjectManager
	}
	return s.regRepo.ListByProject(ctx, projectID, status, offset, limit)
}

// managedRegistration loads a registration and checks the acting manager owns
// its project.
func (s *RegistrationService) managedRegistration(ctx context.Context, regID, managerID uint) (*models.Registration, error) {
	reg, err := s.GetByID(ctx, regID)
	if err != nil {
		return nil, err
	}
	if reg.Project == nil || reg.Project.ManagerID != managerID {
		return nil, domain.ErrNotProjectManager
	}
	return reg, nil
}

// Approve grants a PENDING registration. The slot decrement, the status
// change and the handling assignment commit atomically; a project with no
// slots left fails the whole group.
func (s *RegistrationService) Approve(ctx context.Context, regID, managerID uint) (*models.Registration, error) {
	reg, err := s.managedRegistration(ctx, regID, managerID)
	if err != nil {
		return nil, err
	}
	if reg.Status != domain.RegistrationPending {
		return nil, domain.ErrRegistrationNotPending
	}

	if err := s.regRepo.Approve(ctx, reg); err != nil {
		return nil, err
	}
	reg.Status = domain.RegistrationApproved
	return reg, nil
}

// Reject denies a PENDING registration. No slot was consumed, so only the
// status changes; the window the registration covered frees up for the
// officer's other commitments.
func (s *RegistrationService) Reject(ctx context.Context, regID, managerID uint) (*models.Registration, error) {
	reg, err := s.managedRegistration(ctx, regID, managerID)
	if err != nil {
		return nil, err
	}
	if reg.Status != domain.RegistrationPending {
		return nil, domain.ErrRegistrationNotPending
	}

	if err := s.regRepo.UpdateStatus(ctx, reg.ID, domain.RegistrationRejected); err != nil {
		return nil, err
	}
	reg.Status = domain.RegistrationRejected
	return reg, nil
}
