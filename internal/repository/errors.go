// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow handlers to distinguish
// between failure scenarios with errors.Is.
package repository

import "errors"

// ErrEmailExists is returned when registering an email that is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidRefresh covers unknown, revoked and expired refresh tokens.
var ErrInvalidRefresh = errors.New("invalid refresh token")
