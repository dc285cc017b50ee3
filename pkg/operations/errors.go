package operations

import (
	"errors"
	"fmt"
	"strings"
)

// Error definitions for operation dispatch.
var (
	errUnknownOperation      = errors.New("unknown operation")
	errUnsupportedOnPlatform = errors.New("operation not supported on this platform")
	errMissingContext        = errors.New("missing context identifier")
	errInvalidArguments      = errors.New("invalid arguments")

	// ErrUnknownOperation is returned for operation names the table does not
	// contain; the dispatcher maps it to a method-not-found signal.
	ErrUnknownOperation = errUnknownOperation
	// ErrUnsupportedOnPlatform is returned when the configured platform has
	// no mapping for a known operation.
	ErrUnsupportedOnPlatform = errUnsupportedOnPlatform
	// ErrMissingContext is returned when neither the arguments nor the
	// configuration provide a workspace/project.
	ErrMissingContext = errMissingContext
	// ErrInvalidArguments is returned when required fields are absent.
	ErrInvalidArguments = errInvalidArguments
)

// ArgumentError is a caller-correctable validation failure, raised before any
// HTTP call. Either ContextKey is set (the workspace/project could not be
// resolved) or Missing lists the absent required fields.
type ArgumentError struct {
	Operation  string
	ContextKey string
	Missing    []string
}

func (e *ArgumentError) Error() string {
	if e.ContextKey != "" {
		return fmt.Sprintf("%s: no %q argument was given and no default is configured", e.Operation, e.ContextKey)
	}
	return fmt.Sprintf("%s: missing required arguments: %s", e.Operation, strings.Join(e.Missing, ", "))
}

// Unwrap lets callers distinguish the two validation failures with errors.Is.
func (e *ArgumentError) Unwrap() error {
	if e.ContextKey != "" {
		return errMissingContext
	}
	return errInvalidArguments
}
