package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying datastore or collaborator error, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so wrapped variants compare equal to the sentinels
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
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
	ErrNotFound        = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists   = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput    = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrBadRequest      = NewDomainError("BAD_REQUEST", "Bad request")
	ErrUnauthenticated = NewDomainError("UNAUTHORIZED", "Authentication required")
	ErrServerError     = NewDomainError("INTERNAL_ERROR", "An unexpected error occurred")
)

// NewNotFound returns a NOT_FOUND error naming the missing resource
func NewNotFound(resource string, id fmt.Stringer) *DomainError {
	return NewDomainError(ErrNotFound.Code, fmt.Sprintf("%s %s not found", resource, id))
}

// NewBadRequest returns a BAD_REQUEST error with the given message
func NewBadRequest(format string, args ...any) *DomainError {
	return NewDomainError(ErrBadRequest.Code, fmt.Sprintf(format, args...))
}

// NewInvalidInput returns an INVALID_INPUT error with the given message
func NewInvalidInput(format string, args ...any) *DomainError {
	return NewDomainError(ErrInvalidInput.Code, fmt.Sprintf(format, args...))
}

// WrapServerError wraps a datastore failure. The message stays generic; the cause is kept for logging.
func WrapServerError(op string, err error) *DomainError {
	return &DomainError{
		Code:    ErrServerError.Code,
		Message: ErrServerError.Message,
		cause:   fmt.Errorf("%s: %w", op, err),
	}
}
