// Package core defines the fundamental types and errors for TaskPulse.
package core

import "errors"

// Core errors that can occur across the system
var (
	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")

	// Storage errors
	ErrTaskNotFound    = errors.New("task not found")
	ErrMigrationFailed = errors.New("migration failed")
	ErrDatabaseLocked  = errors.New("database is locked")

	// Remote errors (swallowed at the fallback boundary, logged only)
	ErrRemoteUnavailable = errors.New("prediction service unavailable")
	ErrMalformedResponse = errors.New("malformed response")
)
