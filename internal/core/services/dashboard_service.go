package services

import (
	"context"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService aggregates manager-facing statistics straight off the
// database; read-only.
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// ManagerDashboard holds the aggregate view for one manager
type ManagerDashboard struct {
	Projects            int64            `json:"projects"`
	ApplicationsByState map[string]int64 `json:"applications_by_state"`
	PendingWithdrawals  int64            `json:"pending_withdrawals"`
	PendingRegistration int64            `json:"pending_registrations"`
	UnansweredEnquiries int64            `json:"unanswered_enquiries"`
	TwoRoomUnitsLeft    int64            `json:"two_room_units_left"`
	ThreeRoomUnitsLeft  int64            `json:"three_room_units_left"`
}

// ForManager builds the dashboard for the manager's projects
func (s *DashboardService) ForManager(ctx context.Context, managerID uint) (*ManagerDashboard, error) {
	dash := &ManagerDashboard{ApplicationsByState: map[string]int64{}}

	managed := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Select("id").
		Where("manager_id = ?", managerID)

	if err := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("manager_id = ?", managerID).
		Count(&dash.Projects).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := s.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Where("project_id IN (?)", managed).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		dash.ApplicationsByState[c.Status] = c.Count
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("project_id IN (?)", managed).
		Where("withdrawal_requested = ?", true).
		Count(&dash.PendingWithdrawals).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("project_id IN (?)", managed).
		Where("status = ?", domain.RegistrationPending).
		Count(&dash.PendingRegistration).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Enquiry{}).
		Where("project_id IN (?)", managed).
		Where("response IS NULL").
		Count(&dash.UnansweredEnquiries).Error; err != nil {
		return nil, err
	}

	type unitSums struct {
		TwoRoom   int64
		ThreeRoom int64
	}
	var sums unitSums
	if err := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Select("COALESCE(SUM(two_room_units),0) AS two_room, COALESCE(SUM(three_room_units),0) AS three_room").
		Where("manager_id = ?", managerID).
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	dash.TwoRoomUnitsLeft = sums.TwoRoom
	dash.ThreeRoomUnitsLeft = sums.ThreeRoom

	return dash, nil
}
