package domain

import "errors"

var (
	// ErrInvalidCredentials covers every login failure. Callers must not
	// distinguish which part of the credential was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccessDenied is returned when the per-request email/password pair
	// does not authenticate, or when an authenticated user attempts an
	// action their roles do not permit.
	ErrAccessDenied = errors.New("access denied")

	// ErrResourceNotFound is returned when a targeted user does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrEmailExists is returned when a registration or an email change
	// collides with an existing account.
	ErrEmailExists = errors.New("email already exists")

	// ErrValidationFailed is returned when request data fails validation.
	ErrValidationFailed = errors.New("data validation failed")

	// ErrMissingParameter is returned when a required action parameter is
	// absent or unrecognised.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrDuplicateRequest is returned when an identical mutation is already
	// in flight inside the de-duplication window.
	ErrDuplicateRequest = errors.New("duplicate request in flight")
)
