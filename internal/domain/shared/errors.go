package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Error codes surfaced by the ledger engine. Operations return these
// wrapped in a DomainError with entity identifiers in the message so
// callers can retry or report without re-reading state.
const (
	CodePreconditionFailed = "PRECONDITION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeLimitExceeded      = "LIMIT_EXCEEDED"
	CodeNotConfigured      = "NOT_CONFIGURED"
	CodeTypeMismatch       = "TYPE_MISMATCH"
	CodeContention         = "CONTENTION"
	CodeInvalidTransfer    = "INVALID_TRANSFER"
	CodeOutletMismatch     = "OUTLET_MISMATCH"
	CodeAlreadyReturned    = "ALREADY_RETURNED"
)

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}
