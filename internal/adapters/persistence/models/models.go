package models

import (
	"time"

	"gorm.io/gorm"

	"bto-flathub/internal/core/domain"
)

// User represents users table. Applicants, officers and managers share the
// table; the role column is the closed variant tag and HandlingProjectID is
// the officer-only payload (at most one handling assignment at a time).
type User struct {
	ID                uint                 `gorm:"primaryKey" json:"id"`
	NRIC              string               `gorm:"uniqueIndex;size:9;not null" json:"nric"`
	Name              string               `gorm:"size:100;not null" json:"name"`
	Age               int                  `gorm:"not null" json:"age"`
	MaritalStatus     domain.MaritalStatus `gorm:"size:10;not null" json:"marital_status"`
	Password          string               `gorm:"size:255;not null" json:"-"`
	Role              domain.Role          `gorm:"size:20;default:'APPLICANT'" json:"role"`
	HandlingProjectID *uint                `gorm:"index" json:"handling_project_id"`
	IsActive          bool                 `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt       `gorm:"index" json:"-"`

	HandlingProject *Project `gorm:"foreignKey:HandlingProjectID" json:"handling_project,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsOfficer reports whether the user carries officer duties.
func (u *User) IsOfficer() bool {
	return u.Role == domain.RoleOfficer
}

// Handles reports whether the user is the officer handling the given project.
func (u *User) Handles(projectID uint) bool {
	return u.HandlingProjectID != nil && *u.HandlingProjectID == projectID
}

// UserResponse DTO
type UserResponse struct {
	ID                uint                 `json:"id"`
	NRIC              string               `json:"nric"`
	Name              string               `json:"name"`
	Age               int                  `json:"age"`
	MaritalStatus     domain.MaritalStatus `json:"marital_status"`
	Role              domain.Role          `json:"role"`
	HandlingProjectID *uint                `json:"handling_project_id,omitempty"`
	HandlingProject   string               `json:"handling_project,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:                u.ID,
		NRIC:              u.NRIC,
		Name:              u.Name,
		Age:               u.Age,
		MaritalStatus:     u.MaritalStatus,
		Role:              u.Role,
		HandlingProjectID: u.HandlingProjectID,
		CreatedAt:         u.CreatedAt,
	}
	if u.HandlingProject != nil {
		resp.HandlingProject = u.HandlingProject.Name
	}
	return resp
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// Project represents projects table. Each project offers exactly two flat
// types; unit counters and remaining officer slots never go negative (all
// decrements run through guarded updates).
type Project struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Neighbourhood  string         `gorm:"size:100;not null" json:"neighbourhood"`
	TwoRoomUnits   int            `gorm:"not null" json:"two_room_units"`
	TwoRoomPrice   float64        `gorm:"type:decimal(12,2);not null" json:"two_room_price"`
	ThreeRoomUnits int            `gorm:"not null" json:"three_room_units"`
	ThreeRoomPrice float64        `gorm:"type:decimal(12,2);not null" json:"three_room_price"`
	OpeningDate    time.Time      `gorm:"type:date;not null" json:"opening_date"`
	ClosingDate    time.Time      `gorm:"type:date;not null" json:"closing_date"`
	ManagerID      uint           `gorm:"not null;index" json:"manager_id"`
	OfficerSlots   int            `gorm:"not null" json:"officer_slots"`
	Visible        bool           `gorm:"default:true" json:"visible"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Manager  *User  `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Officers []User `gorm:"foreignKey:HandlingProjectID" json:"officers,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}

// Window returns the project's application window.
func (p *Project) Window() domain.DateRange {
	return domain.DateRange{From: p.OpeningDate, To: p.ClosingDate}
}

// UnitsFor returns the available unit count for the flat type.
func (p *Project) UnitsFor(ft domain.FlatType) int {
	if ft == domain.ThreeRoom {
		return p.ThreeRoomUnits
	}
	return p.TwoRoomUnits
}

// PriceFor returns the selling price for the flat type.
func (p *Project) PriceFor(ft domain.FlatType) float64 {
	if ft == domain.ThreeRoom {
		return p.ThreeRoomPrice
	}
	return p.TwoRoomPrice
}

// ProjectResponse DTO
type ProjectResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Neighbourhood  string    `json:"neighbourhood"`
	TwoRoomUnits   int       `json:"two_room_units"`
	TwoRoomPrice   float64   `json:"two_room_price"`
	ThreeRoomUnits int       `json:"three_room_units"`
	ThreeRoomPrice float64   `json:"three_room_price"`
	OpeningDate    string    `json:"opening_date"`
	ClosingDate    string    `json:"closing_date"`
	ManagerID      uint      `json:"manager_id"`
	ManagerName    string    `json:"manager_name,omitempty"`
	OfficerSlots   int       `json:"officer_slots"`
	Officers       []string  `json:"officers,omitempty"`
	Visible        bool      `json:"visible"`
	CreatedAt      time.Time `json:"created_at"`
}

const dateLayout = "2006-01-02"

func (p *Project) ToResponse() *ProjectResponse {
	resp := &ProjectResponse{
		ID:             p.ID,
		Name:           p.Name,
		Neighbourhood:  p.Neighbourhood,
		TwoRoomUnits:   p.TwoRoomUnits,
		TwoRoomPrice:   p.TwoRoomPrice,
		ThreeRoomUnits: p.ThreeRoomUnits,
		ThreeRoomPrice: p.ThreeRoomPrice,
		OpeningDate:    p.OpeningDate.Format(dateLayout),
		ClosingDate:    p.ClosingDate.Format(dateLayout),
		ManagerID:      p.ManagerID,
		OfficerSlots:   p.OfficerSlots,
		Visible:        p.Visible,
		CreatedAt:      p.CreatedAt,
	}
	if p.Manager != nil {
		resp.ManagerName = p.Manager.Name
	}
	for _, o := range p.Officers {
		resp.Officers = append(resp.Officers, o.Name)
	}
	return resp
}

// Application represents applications table. Rows are never deleted, only
// superseded by status and withdrawal-flag changes.
type Application struct {
	ID                  uint                     `gorm:"primaryKey" json:"id"`
	UserID              uint                     `gorm:"not null;index" json:"user_id"`
	ProjectID           uint                     `gorm:"not null;index" json:"project_id"`
	FlatType            domain.FlatType          `gorm:"size:20;not null" json:"flat_type"`
	Status              domain.ApplicationStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	WithdrawalRequested bool                     `gorm:"default:false" json:"withdrawal_requested"`
	BookedBy            *uint                    `json:"booked_by"`
	BookedAt            *time.Time               `json:"booked_at"`
	CreatedAt           time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time                `gorm:"autoUpdateTime" json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Officer *User    `gorm:"foreignKey:BookedBy" json:"officer,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// Active reports whether the application still occupies the applicant's
// single allowed engagement: any non-terminal status without an approved
// withdrawal counts.
func (a *Application) Active() bool {
	return !a.Status.Terminal()
}

// ApplicationResponse DTO
type ApplicationResponse struct {
	ID                  uint                     `json:"id"`
	ApplicantNRIC       string                   `json:"applicant_nric,omitempty"`
	ApplicantName       string                   `json:"applicant_name,omitempty"`
	ProjectID           uint                     `json:"project_id"`
	ProjectName         string                   `json:"project_name,omitempty"`
	FlatType            domain.FlatType          `json:"flat_type"`
	Status              domain.ApplicationStatus `json:"status"`
	WithdrawalRequested bool                     `json:"withdrawal_requested"`
	BookedAt            *time.Time               `json:"booked_at,omitempty"`
	CreatedAt           time.Time                `json:"created_at"`
}

func (a *Application) ToResponse() *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:                  a.ID,
		ProjectID:           a.ProjectID,
		FlatType:            a.FlatType,
		Status:              a.Status,
		WithdrawalRequested: a.WithdrawalRequested,
		BookedAt:            a.BookedAt,
		CreatedAt:           a.CreatedAt,
	}
	if a.User != nil {
		resp.ApplicantNRIC = a.User.NRIC
		resp.ApplicantName = a.User.Name
	}
	if a.Project != nil {
		resp.ProjectName = a.Project.Name
	}
	return resp
}

// Registration represents registrations table (officer -> project). Rows are
// never deleted; the auto-increment primary key doubles as the monotonically
// assigned registration number.
type Registration struct {
	ID        uint                      `gorm:"primaryKey" json:"id"`
	UserID    uint                      `gorm:"not null;index" json:"user_id"`
	ProjectID uint                      `gorm:"not null;index" json:"project_id"`
	Status    domain.RegistrationStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	CreatedAt time.Time                 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                 `gorm:"autoUpdateTime" json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (Registration) TableName() string {
	return "registrations"
}

// RegistrationResponse DTO
type RegistrationResponse struct {
	ID          uint                      `json:"id"`
	OfficerNRIC string                    `json:"officer_nric,omitempty"`
	OfficerName string                    `json:"officer_name,omitempty"`
	ProjectID   uint                      `json:"project_id"`
	ProjectName string                    `json:"project_name,omitempty"`
	Status      domain.RegistrationStatus `json:"status"`
	CreatedAt   time.Time                 `json:"created_at"`
}

func (r *Registration) ToResponse() *RegistrationResponse {
	resp := &RegistrationResponse{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		resp.OfficerNRIC = r.User.NRIC
		resp.OfficerName = r.User.Name
	}
	if r.Project != nil {
		resp.ProjectName = r.Project.Name
	}
	return resp
}

// Enquiry represents enquiries table. The response is set at most once; the
// message is editable or deletable only while the response is null.
type Enquiry struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	ProjectID uint       `gorm:"not null;index" json:"project_id"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Response  *string    `gorm:"type:text" json:"response"`
	RepliedBy *uint      `json:"replied_by"`
	RepliedAt *time.Time `json:"replied_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Replier *User    `gorm:"foreignKey:RepliedBy" json:"replier,omitempty"`
}

func (Enquiry) TableName() string {
	return "enquiries"
}

// Answered reports whether a reply has been recorded.
func (e *Enquiry) Answered() bool {
	return e.Response != nil
}

// EnquiryResponse DTO
type EnquiryResponse struct {
	ID          uint       `json:"id"`
	AuthorName  string     `json:"author_name,omitempty"`
	ProjectID   uint       `json:"project_id"`
	ProjectName string     `json:"project_name,omitempty"`
	Message     string     `json:"message"`
	Response    *string    `json:"response"`
	ReplierName string     `json:"replier_name,omitempty"`
	RepliedAt   *time.Time `json:"replied_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (e *Enquiry) ToResponse() *EnquiryResponse {
	resp := &EnquiryResponse{
		ID:        e.ID,
		ProjectID: e.ProjectID,
		Message:   e.Message,
		Response:  e.Response,
		RepliedAt: e.RepliedAt,
		CreatedAt: e.CreatedAt,
	}
	if e.User != nil {
		resp.AuthorName = e.User.Name
	}
	if e.Project != nil {
		resp.ProjectName = e.Project.Name
	}
	if e.Replier != nil {
		resp.ReplierName = e.Replier.Name
	}
	return resp
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Project{},
		&Application{},
		&Registration{},
		&Enquiry{},
	)
}
