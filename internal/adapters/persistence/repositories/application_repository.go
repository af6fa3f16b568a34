package repositories

import (
	"context"
	"time"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/core/domain"

	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// unitsColumn maps a flat type to its unit counter column
func unitsColumn(ft domain.FlatType) string {
	if ft == domain.ThreeRoom {
		return "three_room_units"
	}
	return "two_room_units"
}

// Create creates a new application
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application with applicant and project preloaded
func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Project").
		Where("id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetActiveByUserID returns the applicant's single active application
func (r *applicationRepository) GetActiveByUserID(ctx context.Context, userID uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Where("status <> ?", domain.ApplicationUnsuccessful).
		Order("created_at DESC").
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListActiveByUserID lists all non-terminal applications of a user
func (r *applicationRepository) ListActiveByUserID(ctx context.Context, userID uint) ([]*models.Application, error) {
	var apps []*models.Application
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("user_id = ?", userID).
		Where("status <> ?", domain.ApplicationUnsuccessful).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// Update updates an application
func (r *applicationRepository) Update(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// List lists applications matching the filter with pagination
func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Application{})
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.ManagerID != nil {
		query = query.Where("project_id IN (?)",
			r.db.Model(&models.Project{}).Select("id").Where("manager_id = ?", *filter.ManagerID))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.WithdrawalRequested != nil {
		query = query.Where("withdrawal_requested = ?", *filter.WithdrawalRequested)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Preload("Project").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// ExistsActiveByUserAndProject checks for an active application against a project
func (r *applicationRepository) ExistsActiveByUserAndProject(ctx context.Context, userID, projectID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Where("status <> ?", domain.ApplicationUnsuccessful).
		Count(&count).Error
	return count > 0, err
}

// Book consumes one unit and marks the application BOOKED in one transaction.
// The guarded decrement serializes concurrent bookings at the database: the
// counter never goes negative and the last unit is never double-allocated.
func (r *applicationRepository) Book(ctx context.Context, app *models.Application, officerID uint) error {
	column := unitsColumn(app.FlatType)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Project{}).
			Where("id = ? AND "+column+" > 0", app.ProjectID).
			UpdateColumn(column, gorm.Expr(column+" - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNoUnitsLeft
		}

		now := time.Now()
		return tx.Model(&models.Application{}).
			Where("id = ?", app.ID).
			Updates(map[string]interface{}{
				"status":    domain.ApplicationBooked,
				"booked_by": officerID,
				"booked_at": now,
			}).Error
	})
}

// ApproveWithdrawal marks the application UNSUCCESSFUL and clears the flag.
// A booked application restocks its unit in the same transaction so the
// inventory and the status never diverge.
func (r *applicationRepository) ApproveWithdrawal(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if app.Status == domain.ApplicationBooked {
			column := unitsColumn(app.FlatType)
			result := tx.Model(&models.Project{}).
				Where("id = ?", app.ProjectID).
				UpdateColumn(column, gorm.Expr(column+" + 1"))
			if result.Error != nil {
				return result.Error
			}
		}

		return tx.Model(&models.Application{}).
			Where("id = ?", app.ID).
			Updates(map[string]interface{}{
				"status":               domain.ApplicationUnsuccessful,
				"withdrawal_requested": false,
			}).Error
	})
}

// ListBooked lists BOOKED applications for the report view
func (r *applicationRepository) ListBooked(ctx context.Context, filter BookingFilter, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Joins("JOIN users ON users.id = applications.user_id").
		Joins("JOIN projects ON projects.id = applications.project_id").
		Where("applications.status = ?", domain.ApplicationBooked)

	if filter.FlatType != "" {
		query = query.Where("applications.flat_type = ?", filter.FlatType)
	}
	if filter.ProjectName != "" {
		query = query.Where("projects.name = ?", filter.ProjectName)
	}
	if filter.MaritalStatus != "" {
		query = query.Where("users.marital_status = ?", filter.MaritalStatus)
	}
	if filter.MinAge != nil {
		query = query.Where("users.age >= ?", *filter.MinAge)
	}
	if filter.MaxAge != nil {
		query = query.Where("users.age <= ?", *filter.MaxAge)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Preload("Project").
		Order("applications.booked_at DESC").
		Offset(offset).Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}
