package schema

import (
	"errors"
	"strings"
)

// ErrNoResult is returned when an asynchronous schema closes its result
// channel without sending a result.
var ErrNoResult = errors.New("schema: no validation result")

// ValidationError reports a payload that was received successfully but did
// not satisfy the caller's schema.
type ValidationError struct {
	// Issues lists every failure in the order the schema reported them.
	Issues []Issue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "schema validation error"
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return "schema validation error: " + strings.Join(parts, "; ")
}

// IsValidationError checks if err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// Issues returns the issues carried by err, or nil if err is not a
// *ValidationError.
func Issues(err error) []Issue {
	var e *ValidationError
	if errors.As(err, &e) {
		return e.Issues
	}
	return nil
}
