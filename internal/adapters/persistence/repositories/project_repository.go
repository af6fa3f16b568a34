package repositories

import (
	"context"
	"time"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/core/domain"

	"gorm.io/gorm"
)

// projectRepository implements ProjectRepository interface
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create creates a new project
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// GetByID gets a project by ID with manager and officer set preloaded
func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Preload("Officers").
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByName gets a project by its unique name
func (r *projectRepository) GetByName(ctx context.Context, name string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Where("name = ?", name).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update updates a project
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete soft deletes a project
func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Project{}, id).Error
}

// List lists projects matching the filter with pagination
func (r *projectRepository) List(ctx context.Context, filter ProjectFilter, offset, limit int) ([]*models.Project, int64, error) {
	var projects []*models.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Project{})
	if filter.ManagerID != nil {
		query = query.Where("manager_id = ?", *filter.ManagerID)
	}
	if filter.Visible != nil {
		query = query.Where("visible = ?", *filter.Visible)
	}
	if filter.Neighbourhood != "" {
		query = query.Where("neighbourhood = ?", filter.Neighbourhood)
	}
	switch filter.FlatType {
	case domain.TwoRoom:
		query = query.Where("two_room_units > 0")
	case domain.ThreeRoom:
		query = query.Where("three_room_units > 0")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Manager").
		Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// ExistsByName checks if a project name is taken
func (r *projectRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// ListByManagerOverlapping returns the manager's visible projects whose
// [opening, closing] window overlaps [from, to]
func (r *projectRepository) ListByManagerOverlapping(ctx context.Context, managerID uint, from, to time.Time) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Where("visible = ?", true).
		Where("opening_date <= ? AND closing_date >= ?", to, from).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// SetVisibility toggles project visibility
func (r *projectRepository) SetVisibility(ctx context.Context, id uint, visible bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Update("visible", visible)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DelistClosed hides visible projects whose closing date passed before the cutoff
func (r *projectRepository) DelistClosed(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("visible = ?", true).
		Where("closing_date < ?", cutoff).
		Update("visible", false)
	return result.RowsAffected, result.Error
}
