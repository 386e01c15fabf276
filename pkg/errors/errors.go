// Package errors provides a small typed error envelope shared by the
// ambient parts of the gateway (registry dispatch failures). It is
// deliberately independent of the sandbox's own ExecutionResult envelope
// (see pkg/gateway/validate), which is a narrower discriminated union used
// only for execute outcomes.
package errors

import "fmt"

// Type classifies an Error for callers that want to branch on failure kind
// without string-matching messages.
type Type string

// Error type constants used across the gateway.
const (
	ErrInvalidArgument    Type = "invalid_argument"
	ErrBackendNotFound    Type = "backend_not_found"
	ErrBackendUnavailable Type = "backend_unavailable"
	ErrBackendRejected    Type = "backend_rejected"
	ErrConfig             Type = "config"
	ErrInternal           Type = "internal"
)

// Error is a typed, wrappable error carrying an optional underlying cause.
type Error struct {
	Type    Type
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError constructs an Error of the given type.
func NewError(t Type, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Cause: cause}
}

// NewInvalidArgumentError builds an ErrInvalidArgument.
func NewInvalidArgumentError(message string, cause error) *Error {
	return NewError(ErrInvalidArgument, message, cause)
}

// NewBackendNotFoundError builds an ErrBackendNotFound.
func NewBackendNotFoundError(message string, cause error) *Error {
	return NewError(ErrBackendNotFound, message, cause)
}

// NewBackendUnavailableError builds an ErrBackendUnavailable.
func NewBackendUnavailableError(message string, cause error) *Error {
	return NewError(ErrBackendUnavailable, message, cause)
}

// NewBackendRejectedError builds an ErrBackendRejected.
func NewBackendRejectedError(message string, cause error) *Error {
	return NewError(ErrBackendRejected, message, cause)
}

// NewConfigError builds an ErrConfig.
func NewConfigError(message string, cause error) *Error {
	return NewError(ErrConfig, message, cause)
}

// NewInternalError builds an ErrInternal.
func NewInternalError(message string, cause error) *Error {
	return NewError(ErrInternal, message, cause)
}

func is(err error, t Type) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Type == t
}

// IsInvalidArgument reports whether err is an ErrInvalidArgument.
func IsInvalidArgument(err error) bool { return is(err, ErrInvalidArgument) }

// IsBackendNotFound reports whether err is an ErrBackendNotFound.
func IsBackendNotFound(err error) bool { return is(err, ErrBackendNotFound) }

// IsBackendUnavailable reports whether err is an ErrBackendUnavailable.
func IsBackendUnavailable(err error) bool { return is(err, ErrBackendUnavailable) }

// IsBackendRejected reports whether err is an ErrBackendRejected.
func IsBackendRejected(err error) bool { return is(err, ErrBackendRejected) }

// IsConfig reports whether err is an ErrConfig.
func IsConfig(err error) bool { return is(err, ErrConfig) }

// IsInternal reports whether err is an ErrInternal.
func IsInternal(err error) bool { return is(err, ErrInternal) }
