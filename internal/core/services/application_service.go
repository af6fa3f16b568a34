package services

import (
	"context"
	"errors"
	"time"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/adapters/persistence/repositories"
	"bto-flathub/internal/core/domain"

	"gorm.io/gorm"
)

// ApplicationService handles the flat application lifecycle
type ApplicationService struct {
	appRepo     repositories.ApplicationRepository
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
	regRepo     repositories.RegistrationRepository
	eligibility *EligibilityService
	now         func() time.Time
}

// NewApplicationService creates a new application service
func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	regRepo repositories.RegistrationRepository,
	eligibility *EligibilityService,
) *ApplicationService {
	return &ApplicationService{
		appRepo:     appRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		regRepo:     regRepo,
		eligibility: eligibility,
		now:         time.Now,
	}
}

// SubmitInput represents application submission input
type SubmitInput struct {
	ProjectID uint            `json:"project_id" validate:"required"`
	FlatType  domain.FlatType `json:"flat_type" validate:"required"`
}

// Submit creates a PENDING application for the user. Eligibility is
// re-validated here rather than trusted from the listing, which may be stale.
func (s *ApplicationService) Submit(ctx context.Context, userID uint, input *SubmitInput) (*models.Application, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.Role.CanApply() {
		return nil, domain.ErrRoleCannotApply
	}

	project, err := s.projectRepo.GetByID(ctx, input.ProjectID)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}

	if !input.FlatType.Valid() {
		return nil, domain.ErrInvalidFlatType
	}
	if !s.eligibility.IsEligible(user, project, s.now()) {
		return nil, domain.ErrNotEligible
	}
	if !s.eligibility.CanRequestFlatType(user, input.FlatType) {
		return nil, domain.ErrFlatTypeNotAllowed
	}

	// One active engagement at a time.
	_, err = s.appRepo.GetActiveByUserID(ctx, userID)
	if err == nil {
		return nil, domain.ErrActiveApplication
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// An officer cannot apply to the project they administer, whether the
	// registration is already approved or still pending.
	if user.IsOfficer() {
		if user.Handles(project.ID) {
			return nil, domain.ErrOfficerOwnProject
		}
		registered, err := s.regRepo.ExistsNonRejectedByUserAndProject(ctx, userID, project.ID)
		if err != nil {
			return nil, err
		}
		if registered {
			return nil, domain.ErrOfficerOwnProject
		}
	}

	app := &models.Application{
		UserID:    userID,
		ProjectID: project.ID,
		FlatType:  input.FlatType,
		Status:    domain.ApplicationPending,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	app.User = user
	app.Project = project
	return app, nil
}

// GetMyApplication returns the user's active application
func (s *ApplicationService) GetMyApplication(ctx context.Context, userID uint) (*models.Application, error) {
	app, err := s.appRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// GetByID gets an application by ID
func (s *ApplicationService) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// ListInput represents application list input
type ListInput struct {
	Page                int
	Limit               int
	ProjectID           *uint
	ManagerID           *uint
	Status              domain.ApplicationStatus
	WithdrawalRequested *bool
}

// List lists applications with pagination
func (s *ApplicationService) List(ctx context.Context, input *ListInput) ([]*models.Application, int64, error) {
	offset := (input.Page - 1) * input.Limit
	filter := repositories.ApplicationFilter{
		ProjectID:           input.ProjectID,
		ManagerID:           input.ManagerID,
		Status:              input.Status,
		WithdrawalRequested: input.WithdrawalRequested,
	}
	return s.appRepo.List(ctx, filter, offset, input.Limit)
}

// managedApplication loads an application and checks the acting manager owns
// its project.
func (s *ApplicationService) managedApplication(ctx context.Context, appID, managerID uint) (*models.Application, error) {
	app, err := s.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.Project == nil || app.Project.ManagerID != managerID {
		return nil, domain.ErrNotProjectManager
	}
	return app, nil
}

// Approve marks a PENDING application SUCCESSFUL. No unit is consumed here;
// inventory moves only at booking.
func (s *ApplicationService) Approve(ctx context.Context, appID, managerID uint) (*models.Application, error) {
	app, err := s.managedApplication(ctx, appID, managerID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationPending {
		return nil, domain.ErrNotPending
	}

	app.Status = domain.ApplicationSuccessful
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Reject marks a PENDING application UNSUCCESSFUL
func (s *ApplicationService) Reject(ctx context.Context, appID, managerID uint) (*models.Application, error) {
	app, err := s.managedApplication(ctx, appID, managerID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationPending {
		return nil, domain.ErrNotPending
	}

	app.Status = domain.ApplicationUnsuccessful
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// RequestWithdrawal flags the user's active application for withdrawal. The
// status itself only changes once a manager decides on the request.
func (s *ApplicationService) RequestWithdrawal(ctx context.Context, userID uint) (*models.Application, error) {
	app, err := s.GetMyApplication(ctx, userID)
	if err != nil {
		return nil, err
	}

	app.WithdrawalRequested = true
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// ApproveWithdrawal grants a pending withdrawal request: the application
// becomes UNSUCCESSFUL and, if it had been booked, the unit returns to the
// project's inventory in the same transaction.
func (s *ApplicationService) ApproveWithdrawal(ctx context.Context, appID, managerID uint) (*models.Application, error) {
	app, err := s.managedApplication(ctx, appID, managerID)
	if err != nil {
		return nil, err
	}
	if !app.WithdrawalRequested {
		return nil, domain.ErrNoWithdrawalRequested
	}

	if err := s.appRepo.ApproveWithdrawal(ctx, app); err != nil {
		return nil, err
	}
	app.Status = domain.ApplicationUnsuccessful
	app.WithdrawalRequested = false
	return app, nil
}

// RejectWithdrawal denies a pending withdrawal request, clearing the flag
func (s *ApplicationService) RejectWithdrawal(ctx context.Context, appID, managerID uint) (*models.Application, error) {
	app, err := s.managedApplication(ctx, appID, managerID)
	if err != nil {
		return nil, err
	}
	if !app.WithdrawalRequested {
		return nil, domain.ErrNoWithdrawalRequested
	}

	app.WithdrawalRequested = false
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// AvailableToBook reports whether the user's application is ready for booking:
// status SUCCESSFUL, and for officers the target project must not be the one
// they currently handle (a handling assignment picked up after approval still
// disqualifies the booking).
func (s *ApplicationService) AvailableToBook(ctx context.Context, userID uint) (bool, error) {
	app, err := s.appRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if app.Status != domain.ApplicationSuccessful {
		return false, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return !user.Handles(app.ProjectID), nil
}

// Book finalizes a SUCCESSFUL application on behalf of the applicant. Only
// the officer handling the project may book; the unit decrement and the
// status change commit atomically.
func (s *ApplicationService) Book(ctx context.Context, appID, officerID uint) (*models.Application, error) {
	officer, err := s.userRepo.GetByID(ctx, officerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	app, err := s.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !officer.Handles(app.ProjectID) {
		return nil, domain.ErrNotHandlingProject
	}
	if app.Status != domain.ApplicationSuccessful {
		return nil, domain.ErrNotSuccessful
	}

	// The applicant may themselves be an officer who took on the project
	// after their application was approved.
	applicant, err := s.userRepo.GetByID(ctx, app.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if applicant.Handles(app.ProjectID) {
		return nil, domain.ErrOfficerOwnProject
	}

	if err := s.appRepo.Book(ctx, app, officerID); err != nil {
		return nil, err
	}
	app.Status = domain.ApplicationBooked
	app.BookedBy = &officerID
	return app, nil
}

// Receipt represents a booking receipt snapshot
type Receipt struct {
	ApplicationID uint                     `json:"application_id"`
	ApplicantName string                   `json:"applicant_name"`
	ApplicantNRIC string                   `json:"applicant_nric"`
	Age           int                      `json:"age"`
	MaritalStatus domain.MaritalStatus     `json:"marital_status"`
	FlatType      domain.FlatType          `json:"flat_type"`
	Price         float64                  `json:"price"`
	ProjectName   string                   `json:"project_name"`
	Neighbourhood string                   `json:"neighbourhood"`
	BookedAt      *time.Time               `json:"booked_at"`
	Status        domain.ApplicationStatus `json:"status"`
}

// BookingReceipt builds the receipt for a booked application. Only the
// officer handling the project may generate it.
func (s *ApplicationService) BookingReceipt(ctx context.Context, appID, officerID uint) (*Receipt, error) {
	officer, err := s.userRepo.GetByID(ctx, officerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	app, err := s.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !officer.Handles(app.ProjectID) {
		return nil, domain.ErrNotHandlingProject
	}
	if app.Status != domain.ApplicationBooked {
		return nil, domain.ErrNotBooked
	}

	return &Receipt{
		ApplicationID: app.ID,
		ApplicantName: app.User.Name,
		ApplicantNRIC: app.User.NRIC,
		Age:           app.User.Age,
		MaritalStatus: app.User.MaritalStatus,
		FlatType:      app.FlatType,
		Price:         app.Project.PriceFor(app.FlatType),
		ProjectName:   app.Project.Name,
		Neighbourhood: app.Project.Neighbourhood,
		BookedAt:      app.BookedAt,
		Status:        app.Status,
	}, nil
}
