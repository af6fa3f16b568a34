package services

import (
	"time"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/core/domain"
)

// EligibilityService evaluates whether an applicant may engage a project.
// All methods are pure predicates over their inputs.
type EligibilityService struct{}

// NewEligibilityService creates a new eligibility service
func NewEligibilityService() *EligibilityService {
	return &EligibilityService{}
}

// IsEligible reports whether the user may apply to or enquire about the
// project as of today. All three rules must hold: the project is visible,
// today falls inside the application window (inclusive), and the user clears
// the age floor for their marital status.
func (s *EligibilityService) IsEligible(user *models.User, project *models.Project, today time.Time) bool {
	if !project.Visible {
		return false
	}
	if !project.Window().Contains(today) {
		return false
	}
	return s.MeetsAgeRule(user)
}

// MeetsAgeRule applies the age/marital floor: singles from 35, married from 21.
func (s *EligibilityService) MeetsAgeRule(user *models.User) bool {
	switch user.MaritalStatus {
	case domain.Single:
		return user.Age >= domain.MinAgeSingle
	case domain.Married:
		return user.Age >= domain.MinAgeMarried
	default:
		return false
	}
}

// EligibleFlatTypes returns the flat types the user may request. Single
// applicants are restricted to 2-room flats by policy.
func (s *EligibilityService) EligibleFlatTypes(user *models.User) []domain.FlatType {
	if user.MaritalStatus == domain.Married {
		return []domain.FlatType{domain.TwoRoom, domain.ThreeRoom}
	}
	return []domain.FlatType{domain.TwoRoom}
}

// CanRequestFlatType reports whether the user may request the given flat type.
func (s *EligibilityService) CanRequestFlatType(user *models.User, ft domain.FlatType) bool {
	for _, allowed := range s.EligibleFlatTypes(user) {
		if allowed == ft {
			return true
		}
	}
	return false
}
