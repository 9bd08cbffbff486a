// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidLabelRef is returned when a label reference is neither a
	// positive integer id nor an inline payload with a non-empty name.
	ErrInvalidLabelRef = errors.New("invalid label reference")

	// ErrAccessDenied is returned when an operation is not permitted for the
	// acting user.
	ErrAccessDenied = errors.New("access denied")
)
