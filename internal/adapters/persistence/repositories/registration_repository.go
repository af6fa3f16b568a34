package repositories

import (
	"context"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/core/domain"

	"gorm.io/gorm"
)

// registrationRepository implements RegistrationRepository interface
type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

// Create creates a new registration
func (r *registrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

// GetByID gets a registration with officer and project preloaded
func (r *registrationRepository) GetByID(ctx context.Context, id uint) (*models.Registration, error) {
	var reg models.Registration
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Project").
		Where("id = ?", id).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListByUserID lists all registrations of an officer
func (r *registrationRepository) ListByUserID(ctx context.Context, userID uint) ([]*models.Registration, error) {
	var regs []*models.Registration
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// ListNonRejectedByUserID lists the officer's pending and approved registrations
func (r *registrationRepository) ListNonRejectedByUserID(ctx context.Context, userID uint) ([]*models.Registration, error) {
	var regs []*models.Registration
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Where("status <> ?", domain.RegistrationRejected).
		Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// ListByProject lists registrations for a project, optionally by status
func (r *registrationRepository) ListByProject(ctx context.Context, projectID uint, status domain.RegistrationStatus, offset, limit int) ([]*models.Registration, int64, error) {
	var regs []*models.Registration
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Registration{}).Where("project_id = ?", projectID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Preload("Project").
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&regs).Error
	if err != nil {
		return nil, 0, err
	}

	return regs, total, nil
}

// ExistsNonRejectedByUserAndProject checks for a live registration against a project
func (r *registrationRepository) ExistsNonRejectedByUserAndProject(ctx context.Context, userID, projectID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Where("status <> ?", domain.RegistrationRejected).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatus sets a registration's status
func (r *registrationRepository) UpdateStatus(ctx context.Context, id uint, status domain.RegistrationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Approve performs the approval compound mutation in one transaction: the
// guarded slot decrement keeps officer_slots from going negative, then the
// registration flips to APPROVED and the officer picks up the handling
// assignment. All three land together or not at all.
func (r *registrationRepository) Approve(ctx context.Context, reg *models.Registration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Project{}).
			Where("id = ? AND officer_slots > 0", reg.ProjectID).
			UpdateColumn("officer_slots", gorm.Expr("officer_slots - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNoOfficerSlots
		}

		if err := tx.Model(&models.Registration{}).
			Where("id = ?", reg.ID).
			Update("status", domain.RegistrationApproved).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", reg.UserID).
			Update("handling_project_id", reg.ProjectID).Error
	})
}
