package rest

import (
	"github.com/kbukum/fetchkit/httpclient"
	"github.com/kbukum/fetchkit/schema"
)

// Convenience re-exports so REST callers don't need to import httpclient
// or schema for error checking.

// ErrNoStatusCode is returned when a response carries no status code.
var ErrNoStatusCode = httpclient.ErrNoStatusCode

// IsRequestError checks if the error is a non-2xx response.
func IsRequestError(err error) bool { return httpclient.IsRequestError(err) }

// IsSchemaValidation checks if a 2xx payload failed its schema.
func IsSchemaValidation(err error) bool { return schema.IsValidationError(err) }

// IsNotFound checks if the error is a 404 Not Found.
func IsNotFound(err error) bool { return httpclient.IsNotFound(err) }

// IsAuth checks if the error is a 401/403 authentication error.
func IsAuth(err error) bool { return httpclient.IsAuth(err) }

// IsRateLimit checks if the error is a 429 Too Many Requests.
func IsRateLimit(err error) bool { return httpclient.IsRateLimit(err) }

// IsServerError checks if the error is a 5xx server error.
func IsServerError(err error) bool { return httpclient.IsServerError(err) }

// IsRedirect checks if the error is an unfollowed 3xx response.
func IsRedirect(err error) bool { return httpclient.IsRedirect(err) }
