package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected failure inside the core, typically a
// storage fault. The originating atomic unit has been rolled back in full.
var ErrInternal = errors.New("internal error")

// Ledger error taxonomy. Every core operation resolves to exactly one of
// these kinds; callers match with errors.Is and render their own messages.
var (
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrAccountNotFound        = errors.New("account not found")
	ErrInsufficientBalance    = errors.New("insufficient account balance")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrTransactionAlreadyVoid = errors.New("transaction is already void")
	ErrWorkerNotFound         = errors.New("worker not found")
	ErrPayrollAlreadyPaid     = errors.New("payroll entry is already paid")
	ErrAccountHasDependents   = errors.New("account has dependent records")
	ErrEntryNotFound          = errors.New("journal entry not found")
)

// InsufficientBalanceError carries the structured context a caller needs to
// render its own message (attempted amount vs. what the account holds).
type InsufficientBalanceError struct {
	AccountID int64
	Attempted decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance on account %d: attempted %s, available %s",
		e.AccountID, e.Attempted.String(), e.Available.String())
}

// Unwrap makes the error match errors.Is(err, ErrInsufficientBalance).
func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// NewInsufficientBalanceError builds an InsufficientBalanceError for an account.
func NewInsufficientBalanceError(accountID int64, attempted, available decimal.Decimal) error {
	return &InsufficientBalanceError{AccountID: accountID, Attempted: attempted, Available: available}
}

// AppError wraps lower-level failures (usually storage faults) with a status
// code and a message. It unwraps to its cause, or ErrInternal when none is set.
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
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
