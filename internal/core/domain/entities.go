package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleApplicant Role = "APPLICANT"
	RoleOfficer   Role = "OFFICER"
	RoleManager   Role = "MANAGER"
)

// CanApply reports whether the role may submit flat applications.
// Officers are applicants with extra duties; managers are not.
func (r Role) CanApply() bool {
	return r == RoleApplicant || r == RoleOfficer
}

// MaritalStatus represents an applicant's marital status
type MaritalStatus string

const (
	Single  MaritalStatus = "SINGLE"
	Married MaritalStatus = "MARRIED"
)

// FlatType represents a flat type offered by a project
type FlatType string

const (
	TwoRoom   FlatType = "TWO_ROOM"
	ThreeRoom FlatType = "THREE_ROOM"
)

// Valid reports whether ft is a known flat type.
func (ft FlatType) Valid() bool {
	return ft == TwoRoom || ft == ThreeRoom
}

// ApplicationStatus represents the application lifecycle state
type ApplicationStatus string

const (
	ApplicationPending      ApplicationStatus = "PENDING"
	ApplicationSuccessful   ApplicationStatus = "SUCCESSFUL"
	ApplicationUnsuccessful ApplicationStatus = "UNSUCCESSFUL"
	ApplicationBooked       ApplicationStatus = "BOOKED"
)

// Terminal reports whether the status ends the lifecycle. BOOKED still ties
// up the applicant's single active engagement until a withdrawal is approved.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationUnsuccessful
}

// RegistrationStatus represents the officer registration lifecycle state
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "PENDING"
	RegistrationApproved RegistrationStatus = "APPROVED"
	RegistrationRejected RegistrationStatus = "REJECTED"
)

// DateRange is a closed [From, To] interval of project application dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls within the range, inclusive at both ends.
// Comparison is at day granularity in UTC, so a wall clock in another zone
// cannot shift the window boundary.
func (r DateRange) Contains(t time.Time) bool {
	day := truncateToDay(t)
	return !day.Before(truncateToDay(r.From)) && !day.After(truncateToDay(r.To))
}

// Overlaps reports whether two closed intervals share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !truncateToDay(r.From).After(truncateToDay(other.To)) &&
		!truncateToDay(other.From).After(truncateToDay(r.To))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Eligibility age floors per marital status
const (
	MinAgeSingle  = 35
	MinAgeMarried = 21
)

// MaxOfficerSlots caps how many officers a project may take on.
const MaxOfficerSlots = 10
