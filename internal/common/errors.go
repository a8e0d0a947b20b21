// Package common defines sentinel errors and constants shared by the server
// and the client. Callers should use errors.Is to match these values; the
// concrete errors returned by services wrap them with a human readable detail.
package common

import "errors"

var (
	// Input errors.
	ErrValidation = errors.New("validation error")

	// Repository-level errors.
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrVersionConflict = errors.New("version conflict")
	ErrStore           = errors.New("store error")

	// Upload collaborator errors.
	ErrUpload = errors.New("upload error")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Client-side errors.
	ErrUnavailable = errors.New("server unavailable")
	ErrNoSession   = errors.New("no active session")
	ErrInternal    = errors.New("internal error")
)
