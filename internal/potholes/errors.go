package potholes

import (
	"errors"
	"fmt"
)

var (
	// ErrAddressNotFound: the resolver answered but had no candidate for the
	// address. User-correctable input, never retried.
	ErrAddressNotFound = errors.New("address could not be resolved to coordinates")

	// ErrGeocodingUnavailable: the resolver itself failed (network, HTTP 5xx).
	ErrGeocodingUnavailable = errors.New("geocoding service is unavailable")

	// ErrNotFound: the increment target vanished between match and update.
	ErrNotFound = errors.New("pothole record no longer exists")

	// ErrConfigurationMissing: the backend connection is not configured; the
	// ingestion surface refuses to operate.
	ErrConfigurationMissing = errors.New("backend is not configured")
)

// ValidationError reports a missing or malformed submission field. No side
// effect has been attempted when one is returned.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", e.Field)
}

// PersistenceError wraps a store rejection with the failed operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
