package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates the caller could not be authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// Ledger failures. None of these leave a partial mutation behind.
var (
	ErrAccountNotFound   = fmt.Errorf("account %w", ErrNotFound)
	ErrInvalidAmount     = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrSameAccount       = fmt.Errorf("%w: sender and receiver must differ", ErrValidation)
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBusy              = errors.New("account busy, lock not acquired in time")
)

// ErrLedgerDivergence is reported when the stored balance and the journal disagree.
var ErrLedgerDivergence = errors.New("ledger divergence detected")

// AppError is an infrastructure failure annotated with a status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with a resource description.
func NewNotFoundError(resource string) error {
	return &AppError{Code: http.StatusNotFound, Message: resource + " not found", Err: ErrNotFound}
}

// IsRetryable reports whether the caller may safely retry the same request.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBusy)
}
