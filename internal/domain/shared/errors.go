// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation   = errors.New("validation error")
	ErrInvalidID    = errors.New("invalid ID")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyValue   = errors.New("value cannot be empty")

	// Upstream platform errors
	ErrUpstreamUnavailable = errors.New("upstream platform unavailable")
	ErrUpstreamMalformed   = errors.New("upstream payload malformed")
	ErrInvalidHandle       = errors.New("platform handle not found")

	// Infrastructure errors
	ErrStoreUnavailable = errors.New("stats store unavailable")
	ErrTimeout          = errors.New("operation timeout")
	ErrRateLimited      = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "stats", "codeforces", "leetcode"
	Op      string // Operation that failed, e.g., "Fetch", "Upsert"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// UpstreamKind extracts the upstream error kind from an error chain.
// Returns nil if the error is not one of the known upstream kinds.
func UpstreamKind(err error) error {
	switch {
	case errors.Is(err, ErrInvalidHandle):
		return ErrInvalidHandle
	case errors.Is(err, ErrUpstreamMalformed):
		return ErrUpstreamMalformed
	case errors.Is(err, ErrUpstreamUnavailable):
		return ErrUpstreamUnavailable
	default:
		return nil
	}
}
