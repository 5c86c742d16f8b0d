package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"mime"
	"net/http"

	"github.com/kbukum/fetchkit/httpclient/sse"
	"github.com/kbukum/fetchkit/search"
)

// Request describes an outbound HTTP request. Build one per call with
// NewRequest; options copy caller maps so a Request never aliases them.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, ...).
	Method string
	// URL is absolute, or relative to Config.BaseURL.
	URL string
	// Token is sent as "Authorization: Bearer <Token>" when non-empty.
	Token string
	// TokenSource supplies a token when Token is empty.
	TokenSource TokenSource
	// Headers are request-specific headers, merged over client defaults.
	Headers map[string]string
	// Body accepts nil, string, []byte, io.Reader, or any value that is
	// JSON-encoded.
	Body any
	// Search is appended to URL as a query string.
	Search search.Input
	// Profile selects the header defaults. Zero is ProfileRaw.
	Profile Profile
}

// RequestOption configures a single request.
type RequestOption func(*Request)

// NewRequest builds a Request for method and url.
func NewRequest(method, url string, opts ...RequestOption) Request {
	r := Request{Method: method, URL: url}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithToken sets the bearer token.
func WithToken(token string) RequestOption {
	return func(r *Request) { r.Token = token }
}

// WithTokenSource resolves the bearer token per call.
func WithTokenSource(src TokenSource) RequestOption {
	return func(r *Request) { r.TokenSource = src }
}

// WithHeader sets one request header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithHeaders merges headers into the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string, len(headers))
		}
		maps.Copy(r.Headers, headers)
	}
}

// WithBody sets the request body.
func WithBody(body any) RequestOption {
	return func(r *Request) { r.Body = body }
}

// WithSearch sets the query parameters appended to the URL.
func WithSearch(in search.Input) RequestOption {
	return func(r *Request) { r.Search = in }
}

// WithProfile selects the header profile.
func WithProfile(p Profile) RequestOption {
	return func(r *Request) { r.Profile = p }
}

// Response is a fully buffered 2xx response.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the status text, e.g. "OK".
	Status string
	// Headers are the response headers.
	Headers http.Header
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ContentType returns the media type of the response without parameters.
func (r *Response) ContentType() string {
	ct := r.Headers.Get(headerContentType)
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ct
	}
	return mt
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("httpclient: decode response: %w", err)
	}
	return nil
}

// StreamResponse is a 2xx response whose body is read incrementally.
type StreamResponse struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the status text.
	Status string
	// Headers are the response headers.
	Headers http.Header
	// Body is the raw body. It is nil when SSE is set.
	Body io.ReadCloser
	// SSE reads text/event-stream responses.
	SSE sse.Reader
	// rawResp holds the original response for cleanup.
	rawResp *http.Response
}

// Close releases all resources associated with the stream.
func (r *StreamResponse) Close() error {
	switch {
	case r.SSE != nil:
		return r.SSE.Close()
	case r.Body != nil:
		return r.Body.Close()
	case r.rawResp != nil && r.rawResp.Body != nil:
		return r.rawResp.Body.Close()
	}
	return nil
}
