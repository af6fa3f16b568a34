package services

import (
	"context"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/adapters/persistence/repositories"
	"bto-flathub/internal/core/domain"
)

// ReportService builds the read-side report over booked applications. Pure
// filtering; no mutation.
type ReportService struct {
	appRepo repositories.ApplicationRepository
}

// NewReportService creates a new report service
func NewReportService(appRepo repositories.ApplicationRepository) *ReportService {
	return &ReportService{appRepo: appRepo}
}

// BookingReportInput represents booking report filters
type BookingReportInput struct {
	Page          int
	Limit         int
	FlatType      domain.FlatType
	ProjectName   string
	MaritalStatus domain.MaritalStatus
	MinAge        *int
	MaxAge        *int
}

// BookingRow is one line of the booking report
type BookingRow struct {
	ApplicantName string               `json:"applicant_name"`
	ApplicantNRIC string               `json:"applicant_nric"`
	Age           int                  `json:"age"`
	MaritalStatus domain.MaritalStatus `json:"marital_status"`
	FlatType      domain.FlatType      `json:"flat_type"`
	ProjectName   string               `json:"project_name"`
	Neighbourhood string               `json:"neighbourhood"`
}

// Bookings lists booked applications matching the filters
func (s *ReportService) Bookings(ctx context.Context, input *BookingReportInput) ([]*BookingRow, int64, error) {
	offset := (input.Page - 1) * input.Limit
	filter := repositories.BookingFilter{
		FlatType:      input.FlatType,
		ProjectName:   input.ProjectName,
		MaritalStatus: input.MaritalStatus,
		MinAge:        input.MinAge,
		MaxAge:        input.MaxAge,
	}

	apps, total, err := s.appRepo.ListBooked(ctx, filter, offset, input.Limit)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]*BookingRow, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, rowOf(app))
	}
	return rows, total, nil
}

func rowOf(app *models.Application) *BookingRow {
	row := &BookingRow{FlatType: app.FlatType}
	if app.User != nil {
		row.ApplicantName = app.User.Name
		row.ApplicantNRIC = app.User.NRIC
		row.Age = app.User.Age
		row.MaritalStatus = app.User.MaritalStatus
	}
	if app.Project != nil {
		row.ProjectName = app.Project.Name
		row.Neighbourhood = app.Project.Neighbourhood
	}
	return row
}
