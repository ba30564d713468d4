package applier

import (
	"errors"
	"fmt"
)

// ApplierError represents an error raised by a carrier method applier.
type ApplierError struct {
	Carrier string
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ApplierError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Carrier, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Carrier, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ApplierError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for ApplierError.
func (e *ApplierError) Is(target error) bool {
	t, ok := target.(*ApplierError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewApplierError creates a new ApplierError.
func NewApplierError(carrier, code, message string) *ApplierError {
	return &ApplierError{
		Carrier: carrier,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *ApplierError) WithCause(err error) *ApplierError {
	e.Cause = err
	return e
}

// EvaluationError wraps an error raised while evaluating one applier,
// keeping the carrier code of the applier that failed so callers can
// attribute the failure without parsing the message.
type EvaluationError struct {
	Carrier string
	Err     error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Carrier, e.Err)
}

// Unwrap returns the wrapped evaluation error.
func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// Sentinel errors for common applier scenarios.
var (
	// ErrApplierNotFound indicates the requested applier is not registered.
	ErrApplierNotFound = errors.New("applier not found")

	// ErrLookupFailed indicates a remote carrier lookup call failed.
	// Validators convert it to "not found" rather than propagating it.
	ErrLookupFailed = errors.New("carrier lookup failed")

	// ErrAssignFailed indicates the platform could not assign the chosen
	// method code to the quote address.
	ErrAssignFailed = errors.New("method assignment failed")
)
