package errs

import "errors"

// Domain-specific sentinel errors shared by the usecase and handler layers
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	// ErrCapacity is returned by the store when a delta would push committed outside [0, capacity]
	ErrCapacity = errors.New("capacity bounds violated")

	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrInvalidTransition   = errors.New("invalid reservation state transition")
	ErrNotPermitted        = errors.New("actor not permitted for reservation")

	// Concurrency errors
	ErrVersionConflict = errors.New("resource version conflict")
	ErrConcurrency     = errors.New("too much contention, try again")

	// Payment errors
	ErrPayment             = errors.New("payment gateway error")
	ErrPaymentNotCompleted = errors.New("payment not completed")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
