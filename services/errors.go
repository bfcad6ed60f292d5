package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Authentication and authorization failures.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionExpired      = errors.New("session expired")
	ErrInvalidSessionToken = errors.New("invalid session token")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrForbidden           = errors.New("insufficient permissions")
)

// Data failures surfaced to users with a specific message.
var (
	ErrNotFound            = errors.New("record not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrDependencyConflict  = errors.New("record is referenced by other records")
	ErrPolicyHasClaims     = errors.New("policy has existing claims")
	ErrInvalidResetToken   = errors.New("reset link is invalid or has expired")
	ErrCannotDeleteSelf    = errors.New("you cannot delete your own account")
	ErrPolicyNumberTaken   = errors.New("policy number already exists")
	ErrNotificationMissing = errors.New("notification not found")
)

// dependencyError reports a foreign-key violation as ErrDependencyConflict.
func dependencyError(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %v", ErrDependencyConflict, err)
	}
	return err
}

// Authorize returns ErrForbidden unless role is one of allowed. An empty role
// means there is no signed-in user.
func Authorize(role string, allowed ...string) error {
	if role == "" {
		return ErrSessionNotFound
	}
	for _, r := range allowed {
		if role == r {
			return nil
		}
	}
	return ErrForbidden
}
