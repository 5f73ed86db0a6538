package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for handlers to map to HTTP status.
var (
	ErrUnauthenticated       = errors.New("unauthorized")
	ErrTokenInvalidStructure = errors.New("invalid token")
	ErrTokenMalformed        = fmt.Errorf("invalid token format: %w", ErrTokenInvalidStructure)
	ErrTokenExpired          = errors.New("token expired")
	ErrRateLimited           = errors.New("you have run out of credits")
	ErrValidation            = errors.New("validation failed")
	ErrProjectNotFound       = errors.New("project not found")
	ErrFragmentNotFound      = errors.New("fragment not found")
	ErrBookmarkNotFound      = errors.New("bookmark not found")
	ErrNoComponent           = errors.New("no component found in fragment")
)
