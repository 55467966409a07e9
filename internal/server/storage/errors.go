package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username or email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrSessionNotFound indicates that session was not found or already revoked
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionRotated indicates that the presented refresh token is no longer
	// the current one for its session (already rotated or revoked)
	ErrSessionRotated = errors.New("session token already rotated")

	// ErrVideoNotFound indicates that video was not found
	ErrVideoNotFound = errors.New("video not found")
)
