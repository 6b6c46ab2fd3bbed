package services

import "errors"

// Sentinel errors translated to response statuses at the handler
// boundary.
var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound    = errors.New("user not found")
	ErrPatientNotFound = errors.New("patient not found")
)
