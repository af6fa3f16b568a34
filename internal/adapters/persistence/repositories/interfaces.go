package repositories

import (
	"context"
	"time"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByNRIC(ctx context.Context, nric string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByNRIC(ctx context.Context, nric string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	ManagerID     *uint
	Visible       *bool
	Neighbourhood string
	FlatType      domain.FlatType // only projects with units of this type left
}

// ProjectRepository defines project repository interface
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	GetByName(ctx context.Context, name string) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ProjectFilter, offset, limit int) ([]*models.Project, int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	// ListByManagerOverlapping returns the manager's visible projects whose
	// application window overlaps [from, to].
	ListByManagerOverlapping(ctx context.Context, managerID uint, from, to time.Time) ([]*models.Project, error)
	SetVisibility(ctx context.Context, id uint, visible bool) error
	// DelistClosed hides every visible project whose closing date lies before
	// the cutoff. Returns the number of projects delisted.
	DelistClosed(ctx context.Context, cutoff time.Time) (int64, error)
}

// ApplicationFilter narrows application listings.
type ApplicationFilter struct {
	ProjectID           *uint
	ManagerID           *uint // applications against projects owned by this manager
	Status              domain.ApplicationStatus
	WithdrawalRequested *bool
}

// BookingFilter narrows the booked-application report.
type BookingFilter struct {
	FlatType      domain.FlatType
	ProjectName   string
	MaritalStatus domain.MaritalStatus
	MinAge        *int
	MaxAge        *int
}

// ApplicationRepository defines application repository interface.
// Book and ApproveWithdrawal are compound mutations and run inside a single
// database transaction: the unit counter and the application row change
// together or not at all.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	// GetActiveByUserID returns the applicant's single active application
	// (status not UNSUCCESSFUL), or gorm.ErrRecordNotFound.
	GetActiveByUserID(ctx context.Context, userID uint) (*models.Application, error)
	ListActiveByUserID(ctx context.Context, userID uint) ([]*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	List(ctx context.Context, filter ApplicationFilter, offset, limit int) ([]*models.Application, int64, error)
	ExistsActiveByUserAndProject(ctx context.Context, userID, projectID uint) (bool, error)
	// Book atomically consumes one unit of the application's flat type and
	// marks the application BOOKED. Returns domain.ErrNoUnitsLeft when the
	// guarded decrement matches no row.
	Book(ctx context.Context, app *models.Application, officerID uint) error
	// ApproveWithdrawal atomically marks the application UNSUCCESSFUL and
	// clears the withdrawal flag; when the application was BOOKED the
	// consumed unit is restocked in the same transaction.
	ApproveWithdrawal(ctx context.Context, app *models.Application) error
	ListBooked(ctx context.Context, filter BookingFilter, offset, limit int) ([]*models.Application, int64, error)
}

// RegistrationRepository defines registration repository interface.
// Approve is a compound mutation (registration status, officer assignment,
// slot decrement) and runs inside a single database transaction.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByID(ctx context.Context, id uint) (*models.Registration, error)
	ListByUserID(ctx context.Context, userID uint) ([]*models.Registration, error)
	ListNonRejectedByUserID(ctx context.Context, userID uint) ([]*models.Registration, error)
	ListByProject(ctx context.Context, projectID uint, status domain.RegistrationStatus, offset, limit int) ([]*models.Registration, int64, error)
	ExistsNonRejectedByUserAndProject(ctx context.Context, userID, projectID uint) (bool, error)
	UpdateStatus(ctx context.Context, id uint, status domain.RegistrationStatus) error
	// Approve atomically sets the registration APPROVED, assigns the officer
	// to the project and decrements the remaining officer slots. Returns
	// domain.ErrNoOfficerSlots when the guarded decrement matches no row.
	Approve(ctx context.Context, reg *models.Registration) error
}

// EnquiryRepository defines enquiry repository interface
type EnquiryRepository interface {
	Create(ctx context.Context, enq *models.Enquiry) error
	GetByID(ctx context.Context, id uint) (*models.Enquiry, error)
	ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]*models.Enquiry, int64, error)
	ListByProject(ctx context.Context, projectID uint, offset, limit int) ([]*models.Enquiry, int64, error)
	Update(ctx context.Context, enq *models.Enquiry) error
	Delete(ctx context.Context, id uint) error
}
