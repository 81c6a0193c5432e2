package shared

import (
	"errors"
	"fmt"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// ErrNoRouteFound is returned by callers that need an error value for an exhausted search.
// The search engine itself reports exhaustion as a result status, not as an error.
var ErrNoRouteFound = errors.New("no route found within jump range")

// System lookup errors

// UnresolvableSystemError means the directory did not return a complete coordinate for a system
type UnresolvableSystemError struct {
	*DomainError
	System string
}

func NewUnresolvableSystemError(system, reason string) *UnresolvableSystemError {
	return &UnresolvableSystemError{
		DomainError: &DomainError{Message: fmt.Sprintf("could not resolve coordinates for %s: %s", system, reason)},
		System:      system,
	}
}

// TransientFetchError wraps a network or service failure while talking to the directory.
// Callers treat it like an unresolvable system for the node being processed.
type TransientFetchError struct {
	*DomainError
	System string
	Err    error
}

func NewTransientFetchError(system string, err error) *TransientFetchError {
	return &TransientFetchError{
		DomainError: &DomainError{Message: fmt.Sprintf("directory lookup for %s failed: %v", system, err)},
		System:      system,
		Err:         err,
	}
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

// IsUnresolvable reports whether err means the system has no usable coordinate
func IsUnresolvable(err error) bool {
	var target *UnresolvableSystemError
	return errors.As(err, &target)
}

// IsTransient reports whether err is a recoverable directory failure
func IsTransient(err error) bool {
	var target *TransientFetchError
	return errors.As(err, &target)
}

// IsSkippable reports whether a lookup failure should skip a node instead of failing a search
func IsSkippable(err error) bool {
	return IsUnresolvable(err) || IsTransient(err)
}

// Input validation errors

// NoTargetsSuppliedError is returned before a search starts when the target set is empty
type NoTargetsSuppliedError struct {
	*DomainError
}

func NewNoTargetsSuppliedError() *NoTargetsSuppliedError {
	return &NoTargetsSuppliedError{DomainError: &DomainError{Message: "at least one target system is required"}}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
