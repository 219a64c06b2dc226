package boundary

import (
	"errors"
	"fmt"
)

var (
	// ErrIntegrity matches errors raised when the boundary contract itself is
	// broken: null wrappers, empty results, malformed UTF-8 or refused frees.
	ErrIntegrity = errors.New("boundary integrity violation")
	// ErrApplication matches errors reported by the native component.
	ErrApplication = errors.New("native application error")
	// ErrValidation matches arguments rejected before any native call.
	ErrValidation = errors.New("invalid argument")
)

// IntegrityError reports a violation of the boundary contract. It is not
// recoverable for the call that produced it.
type IntegrityError struct {
	Op  string
	Err error
}

func integrityf(op, format string, args ...any) *IntegrityError {
	return &IntegrityError{Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *IntegrityError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("boundary: %v", e.Err)
	}
	return fmt.Sprintf("boundary: %s: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

// ApplicationError carries a failure reported by the native side. Structured
// payloads keep both fields; plain payloads only set Message.
type ApplicationError struct {
	Message string
	Context string
	// Structured is true when Message and Context came from a JSON payload.
	Structured bool
}

func (e *ApplicationError) Error() string {
	if e.Structured {
		return e.Message + ": " + e.Context
	}
	return e.Message
}

func (e *ApplicationError) Is(target error) bool { return target == ErrApplication }

// ValidationError reports a caller argument rejected locally.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

// Invalid builds a ValidationError for field.
func Invalid(field string, value any, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
