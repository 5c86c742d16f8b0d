package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoStatusCode is returned when a response arrives without a status code.
var ErrNoStatusCode = errors.New("httpclient: no status code")

// ErrorCode classifies a non-2xx status.
type ErrorCode int

const (
	// ErrCodeInformational is a 1xx status surfaced as a final response.
	ErrCodeInformational ErrorCode = iota
	// ErrCodeRedirect is a 3xx status that was not followed.
	ErrCodeRedirect
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeClient is any other 4xx status.
	ErrCodeClient
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInformational:
		return "informational"
	case ErrCodeRedirect:
		return "redirect"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeClient:
		return "client"
	case ErrCodeServer:
		return "server"
	default:
		return "unknown"
	}
}

// ClassifyStatusCode maps a status outside [200,299] to an ErrorCode.
func ClassifyStatusCode(statusCode int) ErrorCode {
	switch {
	case statusCode < 200:
		return ErrCodeInformational
	case statusCode < 400:
		return ErrCodeRedirect
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrCodeAuth
	case statusCode == http.StatusNotFound:
		return ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case statusCode < 500:
		return ErrCodeClient
	default:
		return ErrCodeServer
	}
}

// RequestError reports a response whose status is outside [200,299].
type RequestError struct {
	// StatusCode is the numeric HTTP status.
	StatusCode int
	// Status is the status text, e.g. "Not Found".
	Status string
	// Code classifies StatusCode.
	Code ErrorCode
	// Headers is a snapshot of the response headers.
	Headers http.Header
	// Body is the response body; for streams, a bounded prefix of it.
	Body []byte
	// Response is the underlying response. Its body has been closed.
	Response *http.Response
}

func newRequestError(resp *http.Response, body []byte) *RequestError {
	return &RequestError{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
		Code:       ClassifyStatusCode(resp.StatusCode),
		Headers:    headerSnapshot(resp),
		Body:       body,
		Response:   resp,
	}
}

// headerSnapshot copies the response headers and restores the
// Transfer-Encoding values net/http moves into resp.TransferEncoding.
func headerSnapshot(resp *http.Response) http.Header {
	h := resp.Header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	for _, te := range resp.TransferEncoding {
		h.Add("Transfer-Encoding", te)
	}
	return h
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("httpclient: %s (HTTP %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Status)
}

// statusText strips the numeric prefix net/http puts in resp.Status.
func statusText(resp *http.Response) string {
	prefix := fmt.Sprintf("%d ", resp.StatusCode)
	if len(resp.Status) > len(prefix) && resp.Status[:len(prefix)] == prefix {
		return resp.Status[len(prefix):]
	}
	if resp.Status == "" {
		return http.StatusText(resp.StatusCode)
	}
	return resp.Status
}

// AsRequestError returns the *RequestError in err's chain, if any.
func AsRequestError(err error) (*RequestError, bool) {
	var e *RequestError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsRequestError checks if an error is a bad-status error.
func IsRequestError(err error) bool {
	_, ok := AsRequestError(err)
	return ok
}

// StatusCode returns the status carried by a RequestError, or 0.
func StatusCode(err error) int {
	if e, ok := AsRequestError(err); ok {
		return e.StatusCode
	}
	return 0
}

func hasCode(err error, code ErrorCode) bool {
	e, ok := AsRequestError(err)
	return ok && e.Code == code
}

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool { return hasCode(err, ErrCodeAuth) }

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsRateLimit checks if an error is a rate-limit error.
func IsRateLimit(err error) bool { return hasCode(err, ErrCodeRateLimit) }

// IsServerError checks if an error is a server error.
func IsServerError(err error) bool { return hasCode(err, ErrCodeServer) }

// IsRedirect checks if an error is an unfollowed redirect.
func IsRedirect(err error) bool { return hasCode(err, ErrCodeRedirect) }
