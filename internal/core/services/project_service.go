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

const dateLayout = "2006-01-02"

// ProjectService handles the project catalog
type ProjectService struct {
	projectRepo repositories.ProjectRepository
	appRepo     repositories.ApplicationRepository
	userRepo    repositories.UserRepository
	eligibility *EligibilityService
	now         func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	appRepo repositories.ApplicationRepository,
	userRepo repositories.UserRepository,
	eligibility *EligibilityService,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		appRepo:     appRepo,
		userRepo:    userRepo,
		eligibility: eligibility,
		now:         time.Now,
	}
}

// CreateProjectInput represents project creation input
type CreateProjectInput struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Neighbourhood  string  `json:"neighbourhood" validate:"required,max=100"`
	TwoRoomUnits   int     `json:"two_room_units"`
	TwoRoomPrice   float64 `json:"two_room_price"`
	ThreeRoomUnits int     `json:"three_room_units"`
	ThreeRoomPrice float64 `json:"three_room_price"`
	OpeningDate    string  `json:"opening_date" validate:"required"`
	ClosingDate    string  `json:"closing_date" validate:"required"`
	OfficerSlots   int     `json:"officer_slots"`
	Visible        bool    `json:"visible"`
}

func parseWindow(opening, closing string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, opening)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidProjectDates
	}
	to, err := time.Parse(dateLayout, closing)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidProjectDates
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, domain.ErrInvalidProjectDates
	}
	return from, to, nil
}

// Create creates a new project owned by the manager. A manager runs at most
// one visible project per application window.
func (s *ProjectService) Create(ctx context.Context, managerID uint, input *CreateProjectInput) (*models.Project, error) {
	from, to, err := parseWindow(input.OpeningDate, input.ClosingDate)
	if err != nil {
		return nil, err
	}
	if input.TwoRoomUnits < 0 || input.ThreeRoomUnits < 0 || input.TwoRoomPrice < 0 || input.ThreeRoomPrice < 0 {
		return nil, domain.ErrInvalidUnits
	}
	if input.OfficerSlots < 0 || input.OfficerSlots > domain.MaxOfficerSlots {
		return nil, domain.ErrInvalidOfficerSlots
	}

	taken, err := s.projectRepo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrProjectNameTaken
	}

	if input.Visible {
		overlapping, err := s.projectRepo.ListByManagerOverlapping(ctx, managerID, from, to)
		if err != nil {
			return nil, err
		}
		if len(overlapping) > 0 {
			return nil, domain.ErrManagerWindowOverlap
		}
	}

	project := &models.Project{
		Name:           input.Name,
		Neighbourhood:  input.Neighbourhood,
		TwoRoomUnits:   input.TwoRoomUnits,
		TwoRoomPrice:   input.TwoRoomPrice,
		ThreeRoomUnits: input.ThreeRoomUnits,
		ThreeRoomPrice: input.ThreeRoomPrice,
		OpeningDate:    from,
		ClosingDate:    to,
		ManagerID:      managerID,
		OfficerSlots:   input.OfficerSlots,
		Visible:        input.Visible,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// managedProject loads a project and checks the acting manager owns it.
func (s *ProjectService) managedProject(ctx context.Context, projectID, managerID uint) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	if project.ManagerID != managerID {
		return nil, domain.ErrNotProjectManager
	}
	return project, nil
}

// UpdateProjectInput represents project update input; nil fields are kept
type UpdateProjectInput struct {
	Name           *string  `json:"name"`
	Neighbourhood  *string  `json:"neighbourhood"`
	TwoRoomUnits   *int     `json:"two_room_units"`
	TwoRoomPrice   *float64 `json:"two_room_price"`
	ThreeRoomUnits *int     `json:"three_room_units"`
	ThreeRoomPrice *float64 `json:"three_room_price"`
	OpeningDate    *string  `json:"opening_date"`
	ClosingDate    *string  `json:"closing_date"`
	OfficerSlots   *int     `json:"officer_slots"`
}

// Update edits a project the manager owns
func (s *ProjectService) Update(ctx context.Context, projectID, managerID uint, input *UpdateProjectInput) (*models.Project, error) {
	project, err := s.managedProject(ctx, projectID, managerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != project.Name {
		taken, err := s.projectRepo.ExistsByName(ctx, *input.Name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrProjectNameTaken
		}
		project.Name = *input.Name
	}
	if input.Neighbourhood != nil {
		project.Neighbourhood = *input.Neighbourhood
	}
	if input.TwoRoomUnits != nil {
		if *input.TwoRoomUnits < 0 {
			return nil, domain.ErrInvalidUnits
		}
		project.TwoRoomUnits = *input.TwoRoomUnits
	}
	if input.TwoRoomPrice != nil {
		if *input.TwoRoomPrice < 0 {
			return nil, domain.ErrInvalidUnits
		}
		project.TwoRoomPrice = *input.TwoRoomPrice
	}
	if input.ThreeRoomUnits != nil {
		if *input.ThreeRoomUnits < 0 {
			return nil, domain.ErrInvalidUnits
		}
		project.ThreeRoomUnits = *input.ThreeRoomUnits
	}
	if input.ThreeRoomPrice != nil {
		if *input.ThreeRoomPrice < 0 {
			return nil, domain.ErrInvalidUnits
		}
		project.ThreeRoomPrice = *input.ThreeRoomPrice
	}

	opening := project.OpeningDate.Format(dateLayout)
	closing := project.ClosingDate.Format(dateLayout)
	if input.OpeningDate != nil {
		opening = *input.OpeningDate
	}
	if input.ClosingDate != nil {
		closing = *input.ClosingDate
	}
	from, to, err := parseWindow(opening, closing)
	if err != nil {
		return nil, err
	}
	project.OpeningDate = from
	project.ClosingDate = to

	if input.OfficerSlots != nil {
		if *input.OfficerSlots < 0 || *input.OfficerSlots > domain.MaxOfficerSlots {
			return nil, domain.ErrInvalidOfficerSlots
		}
		project.OfficerSlots = *input.OfficerSlots
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project the manager owns. Projects with booked
// applications hold allocated inventory and cannot be deleted.
func (s *ProjectService) Delete(ctx context.Context, projectID, managerID uint) error {
	project, err := s.managedProject(ctx, projectID, managerID)
	if err != nil {
		return err
	}

	booked := false
	filter := repositories.ApplicationFilter{ProjectID: &project.ID, Status: domain.ApplicationBooked}
	_, total, err := s.appRepo.List(ctx, filter, 0, 1)
	if err != nil {
		return err
	}
	booked = total > 0
	if booked {
		return domain.ErrProjectHasBookings
	}

	return s.projectRepo.Delete(ctx, project.ID)
}

// SetVisibility toggles a project the manager owns on or off the public list
func (s *ProjectService) SetVisibility(ctx context.Context, projectID, managerID uint, visible bool) (*models.Project, error) {
	project, err := s.managedProject(ctx, projectID, managerID)
	if err != nil {
		return nil, err
	}

	if visible && !project.Visible {
		overlapping, err := s.projectRepo.ListByManagerOverlapping(ctx, managerID, project.OpeningDate, project.ClosingDate)
		if err != nil {
			return nil, err
		}
		for _, other := range overlapping {
			if other.ID != project.ID {
				return nil, domain.ErrManagerWindowOverlap
			}
		}
	}

	if err := s.projectRepo.SetVisibility(ctx, project.ID, visible); err != nil {
		return nil, err
	}
	project.Visible = visible
	return project, nil
}

// GetForUser returns a project subject to the viewer's access: staff running
// the project and its manager always see it, applicants see visible projects
// or a hidden one they still hold an application for.
func (s *ProjectService) GetForUser(ctx context.Context, projectID, viewerID uint) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}

	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	if viewer.Role == domain.RoleManager || viewer.Handles(project.ID) || project.Visible {
		return project, nil
	}

	applied, err := s.appRepo.ExistsActiveByUserAndProject(ctx, viewerID, project.ID)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, domain.ErrProjectNotFound
	}
	return project, nil
}

// ProjectListInput represents project list input
type ProjectListInput struct {
	Page          int
	Limit         int
	Neighbourhood string
	FlatType      domain.FlatType
	ManagedOnly   bool
}

// ListForUser lists projects for the viewer's role. Managers browse the full
// catalog (or just their own); applicants and officers get visible projects
// they are eligible for, filtered per request.
func (s *ProjectService) ListForUser(ctx context.Context, viewerID uint, input *ProjectListInput) ([]*models.Project, int64, error) {
	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, 0, domain.ErrUserNotFound
	}

	offset := (input.Page - 1) * input.Limit
	filter := repositories.ProjectFilter{
		Neighbourhood: input.Neighbourhood,
		FlatType:      input.FlatType,
	}

	if viewer.Role == domain.RoleManager {
		if input.ManagedOnly {
			filter.ManagerID = &viewer.ID
		}
		return s.projectRepo.List(ctx, filter, offset, input.Limit)
	}

	visible := true
	filter.Visible = &visible
	projects, _, err := s.projectRepo.List(ctx, filter, 0, pagingCeiling)
	if err != nil {
		return nil, 0, err
	}

	today := s.now()
	eligible := make([]*models.Project, 0, len(projects))
	for _, p := range projects {
		if s.eligibility.IsEligible(viewer, p, today) {
			eligible = append(eligible, p)
		}
	}

	total := int64(len(eligible))
	if offset >= len(eligible) {
		return []*models.Project{}, total, nil
	}
	end := offset + input.Limit
	if end > len(eligible) {
		end = len(eligible)
	}
	return eligible[offset:end], total, nil
}

// pagingCeiling bounds the in-memory eligibility filter pass. The catalog is
// a few dozen projects in practice.
const pagingCeiling = 1000
