package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation so the caller can pick the right
// user-facing message and retry affordance.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConnectivity Kind = "connectivity"
	KindTimeout      Kind = "timeout"
	KindAuth         Kind = "auth"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindServer       Kind = "server"
)

// Error is the typed failure surfaced by every remote call and by local
// pre-network validation.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, 0 for local or transport-level failures
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind reports whether err carries the given failure kind anywhere in its
// chain.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// KindOf extracts the failure kind from err, defaulting to KindServer for
// untyped errors.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServer
}
