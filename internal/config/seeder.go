package config

import (
	"log"
	"time"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/core/domain"
	"bto-flathub/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run(dev bool) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedManager(); err != nil {
		return err
	}

	if dev {
		if err := s.seedSampleUsers(); err != nil {
			return err
		}
		if err := s.seedSampleProjects(); err != nil {
			return err
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedManager creates a default manager account on an empty database. Accounts
// are provisioned centrally; there is no self-registration.
func (s *Seeder) seedManager() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleManager).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("password")
	if err != nil {
		return err
	}

	manager := &models.User{
		NRIC:          "S5678901G",
		Name:          "Michael",
		Password:      hashedPassword,
		Age:           36,
		MaritalStatus: domain.Single,
		Role:          domain.RoleManager,
		IsActive:      true,
	}

	if err := s.db.Create(manager).Error; err != nil {
		return err
	}

	log.Printf("✅ Manager account created: %s", manager.NRIC)
	return nil
}

// seedSampleUsers seeds applicant and officer accounts for development
func (s *Seeder) seedSampleUsers() error {
	var count int64
	s.db.Model(&models.User{}).Where("role <> ?", domain.RoleManager).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("password")
	if err != nil {
		return err
	}

	users := []*models.User{
		{NRIC: "S1234567A", Name: "John", Password: hashedPassword, Age: 35, MaritalStatus: domain.Single, Role: domain.RoleApplicant, IsActive: true},
		{NRIC: "T7654321B", Name: "Sarah", Password: hashedPassword, Age: 40, MaritalStatus: domain.Married, Role: domain.RoleApplicant, IsActive: true},
		{NRIC: "S9876543C", Name: "Grace", Password: hashedPassword, Age: 37, MaritalStatus: domain.Married, Role: domain.RoleApplicant, IsActive: true},
		{NRIC: "T2345678D", Name: "Daniel", Password: hashedPassword, Age: 36, MaritalStatus: domain.Single, Role: domain.RoleOfficer, IsActive: true},
		{NRIC: "S6543210E", Name: "Emily", Password: hashedPassword, Age: 28, MaritalStatus: domain.Single, Role: domain.RoleOfficer, IsActive: true},
	}

	for _, u := range users {
		if err := s.db.Create(u).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d sample users", len(users))
	return nil
}

// seedSampleProjects seeds a small catalog for development
func (s *Seeder) seedSampleProjects() error {
	var count int64
	s.db.Model(&models.Project{}).Count(&count)
	if count > 0 {
		return nil
	}

	var manager models.User
	if err := s.db.Where("role = ?", domain.RoleManager).First(&manager).Error; err != nil {
		return err
	}

	today := time.Now().Truncate(24 * time.Hour)
	projects := []*models.Project{
		{
			Name:           "Acacia Breeze",
			Neighbourhood:  "Yishun",
			TwoRoomUnits:   2,
			TwoRoomPrice:   350000,
			ThreeRoomUnits: 3,
			ThreeRoomPrice: 450000,
			OpeningDate:    today.AddDate(0, 0, -7),
			ClosingDate:    today.AddDate(0, 0, 21),
			ManagerID:      manager.ID,
			OfficerSlots:   3,
			Visible:        true,
		},
		{
			Name:           "Birch Grove",
			Neighbourhood:  "Tampines",
			TwoRoomUnits:   5,
			TwoRoomPrice:   380000,
			ThreeRoomUnits: 8,
			ThreeRoomPrice: 480000,
			OpeningDate:    today.AddDate(0, 1, 0),
			ClosingDate:    today.AddDate(0, 2, 0),
			ManagerID:      manager.ID,
			OfficerSlots:   5,
			Visible:        false,
		},
	}

	for _, p := range projects {
		if err := s.db.Create(p).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded %d sample projects", len(projects))
	return nil
}
