package repositories

import (
	"context"

	"bto-flathub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// enquiryRepository implements EnquiryRepository interface
type enquiryRepository struct {
	db *gorm.DB
}

// NewEnquiryRepository creates a new enquiry repository
func NewEnquiryRepository(db *gorm.DB) EnquiryRepository {
	return &enquiryRepository{db: db}
}

// Create creates a new enquiry
func (r *enquiryRepository) Create(ctx context.Context, enq *models.Enquiry) error {
	return r.db.WithContext(ctx).Create(enq).Error
}

// GetByID gets an enquiry with author, project and replier preloaded
func (r *enquiryRepository) GetByID(ctx context.Context, id uint) (*models.Enquiry, error) {
	var enq models.Enquiry
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Project").
		Preload("Replier").
		Where("id = ?", id).
		First(&enq).Error
	if err != nil {
		return nil, err
	}
	return &enq, nil
}

// ListByUserID lists an author's enquiries with pagination
func (r *enquiryRepository) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*models.Enquiry, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.Enquiry{}).Where("user_id = ?", userID), offset, limit)
}

// ListByProject lists a project's enquiries with pagination
func (r *enquiryRepository) ListByProject(ctx context.Context, projectID uint, offset, limit int) ([]*models.Enquiry, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.Enquiry{}).Where("project_id = ?", projectID), offset, limit)
}

func (r *enquiryRepository) list(ctx context.Context, query *gorm.DB, offset, limit int) ([]*models.Enquiry, int64, error) {
	var enqs []*models.Enquiry
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Preload("Project").
		Preload("Replier").
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&enqs).Error
	if err != nil {
		return nil, 0, err
	}

	return enqs, total, nil
}

// Update updates an enquiry
func (r *enquiryRepository) Update(ctx context.Context, enq *models.Enquiry) error {
	return r.db.WithContext(ctx).Save(enq).Error
}

// Delete removes an enquiry
func (r *enquiryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Enquiry{}, id).Error
}
