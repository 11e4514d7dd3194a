package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Ledger errors
	ErrGrantNotFound        = errors.New("grant not found")
	ErrLedgerEntryNotFound  = errors.New("ledger entry not found")
	ErrInsufficientBalance  = errors.New("insufficient cashback balance")
	ErrConcurrentConflict   = errors.New("concurrent balance conflict")
	ErrEntryAlreadyReversed = errors.New("ledger entry already reversed")

	// Sale errors
	ErrSaleNotFound = errors.New("sale not found")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
