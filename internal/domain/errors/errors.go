package errors

import (
	"errors"
)

var (
	// General errors.
	ErrInternal       = errors.New("internal server error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")

	// Registration errors.
	ErrDuplicateSubmission  = errors.New("an account with this email already exists")
	ErrPendingRegistration  = errors.New("a company registration is already pending for this email")
	ErrConfirmationMailFail = errors.New("account created but the confirmation email could not be sent")

	// Authentication errors.
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrEmailUnconfirmed  = errors.New("email address has not been confirmed")
	ErrInvalidOtp        = errors.New("invalid OTP")

	// Password errors.
	ErrReusedPassword = errors.New("new password must differ from the current password")

	// MFA errors.
	ErrMfaNotEnrolled = errors.New("two-factor authentication is not enrolled")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Collaborator errors.
	ErrDependencyFailure = errors.New("a dependent service is unavailable")
)

// IsNotFound reports whether err is a "not found" class error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAccountNotFound)
}

// IsConflict reports whether err is a duplicate-submission class error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateSubmission) ||
		errors.Is(err, ErrPendingRegistration)
}

// IsUnauthorized reports whether err should map to 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredential) ||
		errors.Is(err, ErrEmailUnconfirmed) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken)
}

// IsBadRequest reports whether err is caused by caller input.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidOtp) ||
		errors.Is(err, ErrReusedPassword) ||
		errors.Is(err, ErrMfaNotEnrolled)
}

// IsDependencyFailure reports whether err is a retryable collaborator outage.
func IsDependencyFailure(err error) bool {
	return errors.Is(err, ErrDependencyFailure)
}
