package service

import (
	"errors"
	"fmt"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidRole        = errors.New("role must be user or admin")
)

// ===== Token Errors =====
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
)

// ===== Authorization Errors =====
var (
	ErrNotAuthenticated = errors.New("authentication required")
	ErrAdminRequired    = errors.New("admin role required")
)

// ===== Event Errors =====
var (
	ErrEventNotFound = errors.New("event not found")
)

// ===== Reservation Errors =====
var (
	ErrAlreadyReserved  = errors.New("seat already reserved for this event")
	ErrCapacityExceeded = errors.New("event is fully booked")
	ErrInvalidCapacity  = errors.New("seat capacity below current attendee count")
	ErrContention       = errors.New("could not commit reservation, try again")
)

// InvalidCapacityError rejects a capacity shrink below the current roster.
// It unwraps to ErrInvalidCapacity so callers can match with errors.Is.
type InvalidCapacityError struct {
	SeatsTotal    int
	AttendeeCount int
}

func (e *InvalidCapacityError) Error() string {
	return fmt.Sprintf("seat capacity %d below current attendee count %d", e.SeatsTotal, e.AttendeeCount)
}

func (e *InvalidCapacityError) Unwrap() error {
	return ErrInvalidCapacity
}
