package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/adapters/persistence/repositories"
	"bto-flathub/internal/core/domain"

	"gorm.io/gorm"
)

// EnquiryService handles the enquiry exchange between applicants and the
// staff running a project
type EnquiryService struct {
	enquiryRepo repositories.EnquiryRepository
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
	eligibility *EligibilityService
	now         func() time.Time
}

// NewEnquiryService creates a new enquiry service
func NewEnquiryService(
	enquiryRepo repositories.EnquiryRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	eligibility *EligibilityService,
) *EnquiryService {
	return &EnquiryService{
		enquiryRepo: enquiryRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		eligibility: eligibility,
		now:         time.Now,
	}
}

// Submit creates an enquiry against a project the user is eligible for
func (s *EnquiryService) Submit(ctx context.Context, userID, projectID uint, message string) (*models.Enquiry, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrEmptyMessage
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}

	if !s.eligibility.IsEligible(user, project, s.now()) {
		return nil, domain.ErrNotEligible
	}

	enq := &models.Enquiry{
		UserID:    userID,
		ProjectID: projectID,
		Message:   message,
	}
	if err := s.enquiryRepo.Create(ctx, enq); err != nil {
		return nil, err
	}
	enq.User = user
	enq.Project = project
	return enq, nil
}

// GetByID gets an enquiry by ID
func (s *EnquiryService) GetByID(ctx context.Context, id uint) (*models.Enquiry, error) {
	enq, err := s.enquiryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEnquiryNotFound
		}
		return nil, err
	}
	return enq, nil
}

// ListMy lists the user's own enquiries
func (s *EnquiryService) ListMy(ctx context.Context, userID uint, offset, limit int) ([]*models.Enquiry, int64, error) {
	return s.enquiryRepo.ListByUserID(ctx, userID, offset, limit)
}

// ListByProject lists a project's enquiries for the staff running it
func (s *EnquiryService) ListByProject(ctx context.Context, projectID, viewerID uint, offset, limit int) ([]*models.Enquiry, int64, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, 0, domain.ErrProjectNotFound
	}

	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, 0, domain.ErrUserNotFound
	}
	if !s.mayAnswer(viewer, project) {
		return nil, 0, domain.ErrCannotReply
	}

	return s.enquiryRepo.ListByProject(ctx, projectID, offset, limit)
}

// Edit rewrites the message of an unanswered enquiry. Only the author may
// edit, and only while no response exists.
func (s *EnquiryService) Edit(ctx context.Context, enquiryID, userID uint, newMessage string) (*models.Enquiry, error) {
	if strings.TrimSpace(newMessage) == "" {
		return nil, domain.ErrEmptyMessage
	}

	enq, err := s.GetByID(ctx, enquiryID)
	if err != nil {
		return nil, err
	}
	if enq.UserID != userID {
		return nil, domain.ErrNotEnquiryAuthor
	}
	if enq.Answered() {
		return nil, domain.ErrEnquiryAnswered
	}

	enq.Message = newMessage
	if err := s.enquiryRepo.Update(ctx, enq); err != nil {
		return nil, err
	}
	return enq, nil
}

// Delete removes an unanswered enquiry. Answered enquiries carry a staff
// reply and stay on record.
func (s *EnquiryService) Delete(ctx context.Context, enquiryID, userID uint) error {
	enq, err := s.GetByID(ctx, enquiryID)
	if err != nil {
		return err
	}
	if enq.UserID != userID {
		return domain.ErrNotEnquiryAuthor
	}
	if enq.Answered() {
		return domain.ErrEnquiryAnswered
	}

	return s.enquiryRepo.Delete(ctx, enq.ID)
}

// Reply records the one-time response. Only the manager owning the project or
// the officer currently handling it may reply, and never twice.
func (s *EnquiryService) Reply(ctx context.Context, enquiryID, replierID uint, responseText string) (*models.Enquiry, error) {
	if strings.TrimSpace(responseText) == "" {
		return nil, domain.ErrEmptyResponse
	}

	enq, err := s.GetByID(ctx, enquiryID)
	if err != nil {
		return nil, err
	}
	if enq.Answered() {
		return nil, domain.ErrEnquiryAnswered
	}

	replier, err := s.userRepo.GetByID(ctx, replierID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	project := enq.Project
	if project == nil {
		project, err = s.projectRepo.GetByID(ctx, enq.ProjectID)
		if err != nil {
			return nil, domain.ErrProjectNotFound
		}
	}
	if !s.mayAnswer(replier, project) {
		return nil, domain.ErrCannotReply
	}

	now := s.now()
	enq.Response = &responseText
	enq.RepliedBy = &replierID
	enq.RepliedAt = &now
	if err := s.enquiryRepo.Update(ctx, enq); err != nil {
		return nil, err
	}
	return enq, nil
}

// mayAnswer reports whether the user runs the project: its owning manager or
// its handling officer.
func (s *EnquiryService) mayAnswer(user *models.User, project *models.Project) bool {
	if user.Role == domain.RoleManager && project.ManagerID == user.ID {
		return true
	}
	return user.IsOfficer() && user.Handles(project.ID)
}
