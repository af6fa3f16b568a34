package services

import (
	"context"
	"strings"
	"time"

	"bto-flathub/internal/adapters/persistence/models"
	"bto-flathub/internal/adapters/persistence/repositories"
	"bto-flathub/internal/core/domain"

	"gorm.io/gorm"
)

// memStore backs all fake repositories with shared in-memory tables so the
// compound mutations (booking, registration approval) can touch several
// tables the way the real transactions do.
type memStore struct {
	users         map[uint]*models.User
	tokens        map[uint]*models.RefreshToken
	projects      map[uint]*models.Project
	applications  map[uint]*models.Application
	registrations map[uint]*models.Registration
	enquiries     map[uint]*models.Enquiry
	nextID        uint
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uint]*models.User{},
		tokens:        map[uint]*models.RefreshToken{},
		projects:      map[uint]*models.Project{},
		applications:  map[uint]*models.Application{},
		registrations: map[uint]*models.Registration{},
		enquiries:     map[uint]*models.Enquiry{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) addUser(u *models.User) *models.User {
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addProject(p *models.Project) *models.Project {
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.projects[p.ID] = p
	return p
}

// hydrate association pointers the way the real repos preload them.
func (s *memStore) hydrateApplication(a *models.Application) *models.Application {
	a.User = s.users[a.UserID]
	a.Project = s.projects[a.ProjectID]
	return a
}

func (s *memStore) hydrateRegistration(r *models.Registration) *models.Registration {
	r.User = s.users[r.UserID]
	r.Project = s.projects[r.ProjectID]
	return r
}

func (s *memStore) hydrateEnquiry(e *models.Enquiry) *models.Enquiry {
	e.User = s.users[e.UserID]
	e.Project = s.projects[e.ProjectID]
	return e
}

// ---- user repository ----

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.store.addUser(user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if user.HandlingProjectID != nil {
		user.HandlingProject = r.store.projects[*user.HandlingProjectID]
	}
	return user, nil
}

func (r *fakeUserRepo) GetByNRIC(_ context.Context, nric string) (*models.User, error) {
	for _, user := range r.store.users {
		if user.NRIC == nric {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.store.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	all := make([]*models.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		all = append(all, u)
	}
	return all, int64(len(all)), nil
}

func (r *fakeUserRepo) ExistsByNRIC(_ context.Context, nric string) (bool, error) {
	_, err := r.GetByNRIC(context.Background(), nric)
	return err == nil, nil
}

// ---- refresh token repository ----

type fakeRefreshTokenRepo struct{ store *memStore }

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	if token.ID == 0 {
		token.ID = r.store.id()
	}
	r.store.tokens[token.ID] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	for _, t := range r.store.tokens {
		if t.TokenHash == tokenHash {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	now := time.Now()
	for _, t := range r.store.tokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	now := time.Now()
	for _, t := range r.store.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	for id, t := range r.store.tokens {
		if t.IsExpired() {
			delete(r.store.tokens, id)
		}
	}
	return nil
}

// ---- project repository ----

type fakeProjectRepo struct{ store *memStore }

func (r *fakeProjectRepo) Create(_ context.Context, project *models.Project) error {
	r.store.addProject(project)
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id uint) (*models.Project, error) {
	p, ok := r.store.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeProjectRepo) GetByName(_ context.Context, name string) (*models.Project, error) {
	for _, p := range r.store.projects {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProjectRepo) Update(_ context.Context, project *models.Project) error {
	r.store.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id uint) error {
	delete(r.store.projects, id)
	return nil
}

func (r *fakeProjectRepo) List(_ context.Context, filter repositories.ProjectFilter, offset, limit int) ([]*models.Project, int64, error) {
	matched := make([]*models.Project, 0)
	for _, p := range r.store.projects {
		if filter.ManagerID != nil && p.ManagerID != *filter.ManagerID {
			continue
		}
		if filter.Visible != nil && p.Visible != *filter.Visible {
			continue
		}
		if filter.Neighbourhood != "" && !strings.EqualFold(p.Neighbourhood, filter.Neighbourhood) {
			continue
		}
		if filter.FlatType.Valid() && p.UnitsFor(filter.FlatType) <= 0 {
			continue
		}
		matched = append(matched, p)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []*models.Project{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeProjectRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	_, err := r.GetByName(context.Background(), name)
	return err == nil, nil
}

func (r *fakeProjectRepo) ListByManagerOverlapping(_ context.Context, managerID uint, from, to time.Time) ([]*models.Project, error) {
	window := domain.DateRange{From: from, To: to}
	matched := make([]*models.Project, 0)
	for _, p := range r.store.projects {
		if p.ManagerID == managerID && p.Visible && p.Window().Overlaps(window) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (r *fakeProjectRepo) SetVisibility(_ context.Context, id uint, visible bool) error {
	p, ok := r.store.projects[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Visible = visible
	return nil
}

func (r *fakeProjectRepo) DelistClosed(_ context.Context, cutoff time.Time) (int64, error) {
	var count int64
	for _, p := range r.store.projects {
		if p.Visible && p.ClosingDate.Before(cutoff.Truncate(24*time.Hour)) {
			p.Visible = false
			count++
		}
	}
	return count, nil
}

// ---- application repository ----

type fakeApplicationRepo struct{ store *memStore }

func (r *fakeApplicationRepo) Create(_ context.Context, app *models.Application) error {
	if app.ID == 0 {
		app.ID = r.store.id()
	}
	if app.Status == "" {
		app.Status = domain.ApplicationPending
	}
	r.store.applications[app.ID] = app
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id uint) (*models.Application, error) {
	app, ok := r.store.applications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.store.hydrateApplication(app), nil
}

func (r *fakeApplicationRepo) GetActiveByUserID(_ context.Context, userID uint) (*models.Application, error) {
	for _, app := range r.store.applications {
		if app.UserID == userID && app.Active() {
			return r.store.hydrateApplication(app), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeApplicationRepo) ListActiveByUserID(_ context.Context, userID uint) ([]*models.Application, error) {
	matched := make([]*models.Application, 0)
	for _, app := range r.store.applications {
		if app.UserID == userID && app.Active() {
			matched = append(matched, r.store.hydrateApplication(app))
		}
	}
	return matched, nil
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *models.Application) error {
	r.store.applications[app.ID] = app
	return nil
}

func (r *fakeApplicationRepo) List(_ context.Context, filter repositories.ApplicationFilter, offset, limit int) ([]*models.Application, int64, error) {
	matched := make([]*models.Application, 0)
	for _, app := range r.store.applications {
		app = r.store.hydrateApplication(app)
		if filter.ProjectID != nil && app.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.ManagerID != nil && (app.Project == nil || app.Project.ManagerID != *filter.ManagerID) {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.WithdrawalRequested != nil && app.WithdrawalRequested != *filter.WithdrawalRequested {
			continue
		}
		matched = append(matched, app)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []*models.Application{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeApplicationRepo) ExistsActiveByUserAndProject(_ context.Context, userID, projectID uint) (bool, error) {
	for _, app := range r.store.applications {
		if app.UserID == userID && app.ProjectID == projectID && app.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplicationRepo) Book(_ context.Context, app *models.Application, officerID uint) error {
	project, ok := r.store.projects[app.ProjectID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	// Mirrors the guarded decrement: no row matches when the counter is zero.
	if app.FlatType == domain.ThreeRoom {
		if project.ThreeRoomUnits <= 0 {
			return domain.ErrNoUnitsLeft
		}
		project.ThreeRoomUnits--
	} else {
		if project.TwoRoomUnits <= 0 {
			return domain.ErrNoUnitsLeft
		}
		project.TwoRoomUnits--
	}

	stored := r.store.applications[app.ID]
	now := time.Now()
	stored.Status = domain.ApplicationBooked
	stored.BookedBy = &officerID
	stored.BookedAt = &now
	return nil
}

func (r *fakeApplicationRepo) ApproveWithdrawal(_ context.Context, app *models.Application) error {
	stored, ok := r.store.applications[app.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Status == domain.ApplicationBooked {
		project := r.store.projects[stored.ProjectID]
		if stored.FlatType == domain.ThreeRoom {
			project.ThreeRoomUnits++
		} else {
			project.TwoRoomUnits++
		}
	}
	stored.Status = domain.ApplicationUnsuccessful
	stored.WithdrawalRequested = false
	return nil
}

func (r *fakeApplicationRepo) ListBooked(_ context.Context, filter repositories.BookingFilter, offset, limit int) ([]*models.Application, int64, error) {
	matched := make([]*models.Application, 0)
	for _, app := range r.store.applications {
		if app.Status != domain.ApplicationBooked {
			continue
		}
		app = r.store.hydrateApplication(app)
		if filter.FlatType.Valid() && app.FlatType != filter.FlatType {
			continue
		}
		if filter.ProjectName != "" && (app.Project == nil || app.Project.Name != filter.ProjectName) {
			continue
		}
		if filter.MaritalStatus != "" && (app.User == nil || app.User.MaritalStatus != filter.MaritalStatus) {
			continue
		}
		if filter.MinAge != nil && (app.User == nil || app.User.Age < *filter.MinAge) {
			continue
		}
		if filter.MaxAge != nil && (app.User == nil || app.User.Age > *filter.MaxAge) {
			continue
		}
		matched = append(matched, app)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []*models.Application{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// ---- registration repository ----

type fakeRegistrationRepo struct{ store *memStore }

func (r *fakeRegistrationRepo) Create(_ context.Context, reg *models.Registration) error {
	if reg.ID == 0 {
		reg.ID = r.store.id()
	}
	if reg.Status == "" {
		reg.Status = domain.RegistrationPending
	}
	r.store.registrations[reg.ID] = reg
	return nil
}

func (r *fakeRegistrationRepo) GetByID(_ context.Context, id uint) (*models.Registration, error) {
	reg, ok := r.store.registrations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.store.hydrateRegistration(reg), nil
}

func (r *fakeRegistrationRepo) ListByUserID(_ context.Context, userID uint) ([]*models.Registration, error) {
	matched := make([]*models.Registration, 0)
	for _, reg := range r.store.registrations {
		if reg.UserID == userID {
			matched = append(matched, r.store.hydrateRegistration(reg))
		}
	}
	return matched, nil
}

func (r *fakeRegistrationRepo) ListNonRejectedByUserID(_ context.Context, userID uint) ([]*models.Registration, error) {
	matched := make([]*models.Registration, 0)
	for _, reg := range r.store.registrations {
		if reg.UserID == userID && reg.Status != domain.RegistrationRejected {
			matched = append(matched, r.store.hydrateRegistration(reg))
		}
	}
	return matched, nil
}

func (r *fakeRegistrationRepo) ListByProject(_ context.Context, projectID uint, status domain.RegistrationStatus, offset, limit int) ([]*models.Registration, int64, error) {
	matched := make([]*models.Registration, 0)
	for _, reg := range r.store.registrations {
		if reg.ProjectID != projectID {
			continue
		}
		if status != "" && reg.Status != status {
			continue
		}
		matched = append(matched, r.store.hydrateRegistration(reg))
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeRegistrationRepo) ExistsNonRejectedByUserAndProject(_ context.Context, userID, projectID uint) (bool, error) {
	for _, reg := range r.store.registrations {
		if reg.UserID == userID && reg.ProjectID == projectID && reg.Status != domain.RegistrationRejected {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRegistrationRepo) UpdateStatus(_ context.Context, id uint, status domain.RegistrationStatus) error {
	reg, ok := r.store.registrations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	reg.Status = status
	return nil
}

func (r *fakeRegistrationRepo) Approve(_ context.Context, reg *models.Registration) error {
	project, ok := r.store.projects[reg.ProjectID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if project.OfficerSlots <= 0 {
		return domain.ErrNoOfficerSlots
	}
	project.OfficerSlots--

	stored := r.store.registrations[reg.ID]
	stored.Status = domain.RegistrationApproved

	officer := r.store.users[reg.UserID]
	projectID := reg.ProjectID
	officer.HandlingProjectID = &projectID
	return nil
}

// ---- enquiry repository ----

type fakeEnquiryRepo struct{ store *memStore }

func (r *fakeEnquiryRepo) Create(_ context.Context, enq *models.Enquiry) error {
	if enq.ID == 0 {
		enq.ID = r.store.id()
	}
	r.store.enquiries[enq.ID] = enq
	return nil
}

func (r *fakeEnquiryRepo) GetByID(_ context.Context, id uint) (*models.Enquiry, error) {
	enq, ok := r.store.enquiries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.store.hydrateEnquiry(enq), nil
}

func (r *fakeEnquiryRepo) ListByUserID(_ context.Context, userID uint, offset, limit int) ([]*models.Enquiry, int64, error) {
	matched := make([]*models.Enquiry, 0)
	for _, enq := range r.store.enquiries {
		if enq.UserID == userID {
			matched = append(matched, r.store.hydrateEnquiry(enq))
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeEnquiryRepo) ListByProject(_ context.Context, projectID uint, offset, limit int) ([]*models.Enquiry, int64, error) {
	matched := make([]*models.Enquiry, 0)
	for _, enq := range r.store.enquiries {
		if enq.ProjectID == projectID {
			matched = append(matched, r.store.hydrateEnquiry(enq))
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeEnquiryRepo) Update(_ context.Context, enq *models.Enquiry) error {
	r.store.enquiries[enq.ID] = enq
	return nil
}

func (r *fakeEnquiryRepo) Delete(_ context.Context, id uint) error {
	delete(r.store.enquiries, id)
	return nil
}

// ---- fixture ----

// fixture wires every service over one shared store with a frozen clock.
type fixture struct {
	store        *memStore
	userRepo     *fakeUserRepo
	tokenRepo    *fakeRefreshTokenRepo
	projectRepo  *fakeProjectRepo
	appRepo      *fakeApplicationRepo
	regRepo      *fakeRegistrationRepo
	enquiryRepo  *fakeEnquiryRepo
	today        time.Time
	eligibility  *EligibilityService
	applications *ApplicationService
	registration *RegistrationService
	projects     *ProjectService
	enquiries    *EnquiryService
	reports      *ReportService
}

func newFixture() *fixture {
	store := newMemStore()
	f := &fixture{
		store:       store,
		userRepo:    &fakeUserRepo{store: store},
		tokenRepo:   &fakeRefreshTokenRepo{store: store},
		projectRepo: &fakeProjectRepo{store: store},
		appRepo:     &fakeApplicationRepo{store: store},
		regRepo:     &fakeRegistrationRepo{store: store},
		enquiryRepo: &fakeEnquiryRepo{store: store},
		today:       time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
		eligibility: NewEligibilityService(),
	}

	f.applications = NewApplicationService(f.appRepo, f.projectRepo, f.userRepo, f.regRepo, f.eligibility)
	f.applications.now = func() time.Time { return f.today }

	f.registration = NewRegistrationService(f.regRepo, f.projectRepo, f.userRepo, f.appRepo)

	f.projects = NewProjectService(f.projectRepo, f.appRepo, f.userRepo, f.eligibility)
	f.projects.now = func() time.Time { return f.today }

	f.enquiries = NewEnquiryService(f.enquiryRepo, f.projectRepo, f.userRepo, f.eligibility)
	f.enquiries.now = func() time.Time { return f.today }

	f.reports = NewReportService(f.appRepo)
	return f
}

func (f *fixture) applicant(nric string, age int, status domain.MaritalStatus) *models.User {
	return f.store.addUser(&models.User{
		NRIC:          nric,
		Name:          "Applicant " + nric,
		Age:           age,
		MaritalStatus: status,
		Role:          domain.RoleApplicant,
		IsActive:      true,
	})
}

func (f *fixture) officer(nric string, age int) *models.User {
	return f.store.addUser(&models.User{
		NRIC:          nric,
		Name:          "Officer " + nric,
		Age:           age,
		MaritalStatus: domain.Single,
		Role:          domain.RoleOfficer,
		IsActive:      true,
	})
}

func (f *fixture) manager(nric string) *models.User {
	return f.store.addUser(&models.User{
		NRIC:          nric,
		Name:          "Manager " + nric,
		Age:           40,
		MaritalStatus: domain.Married,
		Role:          domain.RoleManager,
		IsActive:      true,
	})
}

// openProject creates a visible project whose window spans today.
func (f *fixture) openProject(name string, managerID uint, twoRoom, threeRoom int) *models.Project {
	return f.store.addProject(&models.Project{
		Name:           name,
		Neighbourhood:  "Yishun",
		TwoRoomUnits:   twoRoom,
		TwoRoomPrice:   350000,
		ThreeRoomUnits: threeRoom,
		ThreeRoomPrice: 450000,
		OpeningDate:    f.today.AddDate(0, 0, -7),
		ClosingDate:    f.today.AddDate(0, 0, 14),
		ManagerID:      managerID,
		OfficerSlots:   3,
		Visible:        true,
	})
}
