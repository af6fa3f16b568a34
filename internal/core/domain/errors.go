package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every service failure wraps exactly one of these so handlers
// can map it to an HTTP status with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrCapacity      = errors.New("capacity exhausted")
	ErrAuthorization = errors.New("not authorized")
	ErrNotFound      = errors.New("resource not found")
)

// Auth errors
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuthorization)
	ErrUserInactive       = fmt.Errorf("%w: user account is inactive", ErrAuthorization)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", ErrNotFound)
)

// Project errors
var (
	ErrProjectNotFound      = fmt.Errorf("%w: project not found", ErrNotFound)
	ErrProjectNameTaken     = fmt.Errorf("%w: project name already in use", ErrConflict)
	ErrInvalidProjectDates  = fmt.Errorf("%w: opening date must not be after closing date", ErrValidation)
	ErrInvalidOfficerSlots  = fmt.Errorf("%w: officer slots must be between 0 and 10", ErrValidation)
	ErrInvalidUnits         = fmt.Errorf("%w: unit counts and prices must not be negative", ErrValidation)
	ErrManagerWindowOverlap = fmt.Errorf("%w: manager already runs a project in this application window", ErrConflict)
	ErrProjectHasBookings   = fmt.Errorf("%w: project has booked applications", ErrConflict)
)

// Application errors
var (
	ErrApplicationNotFound   = fmt.Errorf("%w: application not found", ErrNotFound)
	ErrRoleCannotApply       = fmt.Errorf("%w: this role cannot apply for a flat", ErrAuthorization)
	ErrNotHandlingProject    = fmt.Errorf("%w: officer does not handle this project", ErrAuthorization)
	ErrNotEligible           = fmt.Errorf("%w: applicant is not eligible for this project", ErrValidation)
	ErrInvalidFlatType       = fmt.Errorf("%w: invalid flat type", ErrValidation)
	ErrFlatTypeNotAllowed    = fmt.Errorf("%w: flat type not available to this applicant", ErrValidation)
	ErrActiveApplication     = fmt.Errorf("%w: applicant already has an active application", ErrConflict)
	ErrOfficerOwnProject     = fmt.Errorf("%w: officer cannot apply to a project they administer", ErrConflict)
	ErrNotPending            = fmt.Errorf("%w: application is not pending", ErrConflict)
	ErrNotSuccessful         = fmt.Errorf("%w: application is not successful", ErrConflict)
	ErrNoWithdrawalRequested = fmt.Errorf("%w: no withdrawal has been requested", ErrConflict)
	ErrNoUnitsLeft           = fmt.Errorf("%w: no units left for the chosen flat type", ErrCapacity)
	ErrNotBooked             = fmt.Errorf("%w: application is not booked", ErrConflict)
)

// Registration errors
var (
	ErrRegistrationNotFound   = fmt.Errorf("%w: registration not found", ErrNotFound)
	ErrNotOfficer             = fmt.Errorf("%w: user is not an officer", ErrAuthorization)
	ErrOverlappingCommitment  = fmt.Errorf("%w: officer has an overlapping commitment in this window", ErrConflict)
	ErrAppliedToProject       = fmt.Errorf("%w: officer has applied to this project", ErrConflict)
	ErrRegistrationNotPending = fmt.Errorf("%w: registration is not pending", ErrConflict)
	ErrNoOfficerSlots         = fmt.Errorf("%w: project has no officer slots left", ErrCapacity)
	ErrNotProjectManager      = fmt.Errorf("%w: only the owning manager may decide this", ErrAuthorization)
)

// Enquiry errors
var (
	ErrEnquiryNotFound   = fmt.Errorf("%w: enquiry not found", ErrNotFound)
	ErrNotEnquiryAuthor  = fmt.Errorf("%w: only the author may change this enquiry", ErrAuthorization)
	ErrEnquiryAnswered   = fmt.Errorf("%w: enquiry has already been answered", ErrConflict)
	ErrCannotReply       = fmt.Errorf("%w: replier does not manage or handle this project", ErrAuthorization)
	ErrEmptyMessage      = fmt.Errorf("%w: enquiry message must not be empty", ErrValidation)
	ErrEmptyResponse     = fmt.Errorf("%w: enquiry response must not be empty", ErrValidation)
)
