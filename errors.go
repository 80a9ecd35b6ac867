package vesting

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// Authorization errors
	ErrUnauthorized = errors.New("vesting: unauthorized")
	ErrInvalidOwner = errors.New("vesting: invalid owner identity")

	// Schedule validation errors
	ErrInvalidBeneficiary = errors.New("vesting: invalid beneficiary identity")
	ErrInvalidAmount      = errors.New("vesting: invalid amount")
	ErrInvalidDuration    = errors.New("vesting: invalid duration")

	// Schedule state errors
	ErrScheduleAlreadyActive = errors.New("vesting: schedule already active for beneficiary")
	ErrNoActiveSchedule      = errors.New("vesting: no active schedule for beneficiary")
	ErrScheduleNotFound      = errors.New("vesting: schedule not found")
	ErrNothingToRelease      = errors.New("vesting: nothing to release")

	// Settlement errors
	ErrTransferFailed      = errors.New("vesting: token transfer failed")
	ErrInvalidTokenAddress = errors.New("vesting: invalid token address")

	// Store errors
	ErrStoreNotReady     = errors.New("vesting: store not ready")
	ErrStoreClosed       = errors.New("vesting: store is closed")
	ErrTransactionFailed = errors.New("vesting: transaction failed")
	ErrMigrationFailed   = errors.New("vesting: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("vesting: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if the error indicates a missing schedule.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrScheduleNotFound) ||
		errors.Is(err, ErrNoActiveSchedule)
}

// IsValidation returns true if the error is a parameter validation failure.
// Validation failures leave all state untouched.
func IsValidation(err error) bool {
	if errors.Is(err, ErrInvalidBeneficiary) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInvalidOwner) ||
		errors.Is(err, ErrInvalidTokenAddress) {
		return true
	}
	var ve ValidationError
	return errors.As(err, &ve)
}

// IsRetryable returns true if the error is temporary and the operation can
// be retried by the caller. The engine never retries automatically.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransferFailed) ||
		errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrTransactionFailed)
}
