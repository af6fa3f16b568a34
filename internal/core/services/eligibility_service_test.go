package services

import (
	"testing"
	"time"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestMeetsAgeRule(t *testing.T) {
	svc := NewEligibilityService()

	cases := []struct {
		name    string
		age     int
		marital domain.MaritalStatus
		want    bool
	}{
		{"single at 34", 34, domain.Single, false},
		{"single at 35", 35, domain.Single, true},
		{"married at 20", 20, domain.Married, false},
		{"married at 21", 21, domain.Married, true},
		{"unknown marital status", 50, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := &models.User{Age: tc.age, MaritalStatus: tc.marital}
			assert.Equal(t, tc.want, svc.MeetsAgeRule(user))
		})
	}
}

func TestEligibleFlatTypes(t *testing.T) {
	svc := NewEligibilityService()

	single := &models.User{Age: 40, MaritalStatus: domain.Single}
	assert.Equal(t, []domain.FlatType{domain.TwoRoom}, svc.EligibleFlatTypes(single))
	assert.False(t, svc.CanRequestFlatType(single, domain.ThreeRoom))

	married := &models.User{Age: 25, MaritalStatus: domain.Married}
	assert.ElementsMatch(t,
		[]domain.FlatType{domain.TwoRoom, domain.ThreeRoom},
		svc.EligibleFlatTypes(married))
}

func TestIsEligibleWindow(t *testing.T) {
	svc := NewEligibilityService()
	user := &models.User{Age: 40, MaritalStatus: domain.Married}

	open := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	close := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	project := &models.Project{OpeningDate: open, ClosingDate: close, Visible: true}

	// Window bounds are inclusive, at day granularity.
	assert.True(t, svc.IsEligible(user, project, open))
	assert.True(t, svc.IsEligible(user, project, close.Add(23*time.Hour)))
	assert.False(t, svc.IsEligible(user, project, open.AddDate(0, 0, -1)))
	assert.False(t, svc.IsEligible(user, project, close.AddDate(0, 0, 1)))

	project.Visible = false
	assert.False(t, svc.IsEligible(user, project, open))
}
