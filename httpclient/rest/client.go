package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/kbukum/fetchkit/httpclient"
	"github.com/kbukum/fetchkit/schema"
)

// Doer sends a whole-body request. *httpclient.Client implements it.
type Doer interface {
	Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
}

var _ Doer = (*httpclient.Client)(nil)

// ErrNotJSON is returned when a non-JSON response cannot be stored in the
// requested type.
var ErrNotJSON = errors.New("rest: response is not JSON")

// Get performs a GET request and decodes the response into type T.
func Get[T any](ctx context.Context, c Doer, url string, opts ...httpclient.RequestOption) (T, error) {
	return run[T](ctx, c, http.MethodGet, url, nil, nil, opts)
}

// Post performs a POST request with a JSON body and decodes the response into type T.
func Post[T any](ctx context.Context, c Doer, url string, body any, opts ...httpclient.RequestOption) (T, error) {
	return run[T](ctx, c, http.MethodPost, url, body, nil, opts)
}

// Put performs a PUT request with a JSON body and decodes the response into type T.
func Put[T any](ctx context.Context, c Doer, url string, body any, opts ...httpclient.RequestOption) (T, error) {
	return run[T](ctx, c, http.MethodPut, url, body, nil, opts)
}

// Delete performs a DELETE request and decodes the response into type T.
func Delete[T any](ctx context.Context, c Doer, url string, opts ...httpclient.RequestOption) (T, error) {
	return run[T](ctx, c, http.MethodDelete, url, nil, nil, opts)
}

// Do performs a request with any method. Set the body with httpclient.WithBody.
func Do[T any](ctx context.Context, c Doer, method, url string, opts ...httpclient.RequestOption) (T, error) {
	return run[T](ctx, c, method, url, nil, nil, opts)
}

// GetValidated performs a GET request and passes the decoded payload through s.
func GetValidated[T any](ctx context.Context, c Doer, url string, s schema.Schema[T], opts ...httpclient.RequestOption) (T, error) {
	return run(ctx, c, http.MethodGet, url, nil, s, opts)
}

// PostValidated performs a POST request and passes the decoded payload through s.
func PostValidated[T any](ctx context.Context, c Doer, url string, body any, s schema.Schema[T], opts ...httpclient.RequestOption) (T, error) {
	return run(ctx, c, http.MethodPost, url, body, s, opts)
}

// PutValidated performs a PUT request and passes the decoded payload through s.
func PutValidated[T any](ctx context.Context, c Doer, url string, body any, s schema.Schema[T], opts ...httpclient.RequestOption) (T, error) {
	return run(ctx, c, http.MethodPut, url, body, s, opts)
}

// DeleteValidated performs a DELETE request and passes the decoded payload through s.
func DeleteValidated[T any](ctx context.Context, c Doer, url string, s schema.Schema[T], opts ...httpclient.RequestOption) (T, error) {
	return run(ctx, c, http.MethodDelete, url, nil, s, opts)
}

// DoValidated performs a request with any method and passes the decoded
// payload through s.
func DoValidated[T any](ctx context.Context, c Doer, method, url string, s schema.Schema[T], opts ...httpclient.RequestOption) (T, error) {
	return run(ctx, c, method, url, nil, s, opts)
}

// run is the shared JSON pipeline. A nil schema decodes straight into T.
func run[T any](ctx context.Context, c Doer, method, url string, body any, s schema.Schema[T], opts []httpclient.RequestOption) (T, error) {
	var zero T

	req := httpclient.NewRequest(method, url, opts...)
	if body != nil {
		req.Body = body
	}
	req.Profile = httpclient.ProfileJSON

	resp, err := c.Do(ctx, req)
	if err != nil {
		return zero, err
	}

	if s == nil {
		return decodeAs[T](resp)
	}
	payload, err := decodeAny(resp)
	if err != nil {
		return zero, err
	}
	return schema.Apply(ctx, s, payload)
}

// isJSON reports whether the response declares a JSON body.
func isJSON(resp *httpclient.Response) bool {
	ct := strings.ToLower(resp.Headers.Get("Content-Type"))
	return strings.HasPrefix(ct, "application/json") && len(resp.Body) > 0
}

// decodeAs decodes JSON into T, or stores the text body when T can hold it.
func decodeAs[T any](resp *httpclient.Response) (T, error) {
	var out T
	if len(resp.Body) == 0 {
		return out, nil
	}
	if isJSON(resp) {
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return out, fmt.Errorf("rest: decode response: %w", err)
		}
		return out, nil
	}

	switch p := any(&out).(type) {
	case *string:
		*p = string(resp.Body)
		return out, nil
	case *[]byte:
		*p = resp.Body
		return out, nil
	}

	text := reflect.ValueOf(string(resp.Body))
	target := reflect.ValueOf(&out).Elem()
	if target.Kind() == reflect.Interface && text.Type().AssignableTo(target.Type()) {
		target.Set(text)
		return out, nil
	}
	return out, fmt.Errorf("%w: content-type %q cannot decode into %T", ErrNotJSON, resp.Headers.Get("Content-Type"), out)
}

// decodeAny returns the parsed JSON value, or the body as text.
func decodeAny(resp *httpclient.Response) (any, error) {
	if !isJSON(resp) {
		return string(resp.Body), nil
	}
	var v any
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return nil, fmt.Errorf("rest: decode response: %w", err)
	}
	return v, nil
}
