package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
	}{
		{101, ErrCodeInformational},
		{301, ErrCodeRedirect},
		{304, ErrCodeRedirect},
		{400, ErrCodeClient},
		{401, ErrCodeAuth},
		{403, ErrCodeAuth},
		{404, ErrCodeNotFound},
		{422, ErrCodeClient},
		{429, ErrCodeRateLimit},
		{500, ErrCodeServer},
		{503, ErrCodeServer},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := ClassifyStatusCode(tt.status); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestRequestError_Message(t *testing.T) {
	resp := &http.Response{StatusCode: 429, Status: "429 Too Many Requests", Header: http.Header{}}
	err := newRequestError(resp, nil)
	if err.Status != "Too Many Requests" {
		t.Errorf("expected status text, got %q", err.Status)
	}
	want := "httpclient: rate_limit (HTTP 429): Too Many Requests"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	bare := newRequestError(&http.Response{StatusCode: 599, Header: http.Header{}}, nil)
	if bare.Error() != "httpclient: server (HTTP 599)" {
		t.Errorf("unexpected message %q", bare.Error())
	}
}

func TestRequestError_HeaderSnapshot(t *testing.T) {
	h := http.Header{"Set-Cookie": {"a=1", "b=2"}}
	err := newRequestError(&http.Response{StatusCode: 400, Header: h}, nil)
	h.Set("Set-Cookie", "changed")
	if got := err.Headers.Values("Set-Cookie"); len(got) != 2 || got[0] != "a=1" {
		t.Errorf("expected independent multi-valued snapshot, got %v", got)
	}
}

func TestPredicates_Wrapped(t *testing.T) {
	base := newRequestError(&http.Response{StatusCode: 401, Header: http.Header{}}, nil)
	err := fmt.Errorf("calling api: %w", base)

	if !IsRequestError(err) || !IsAuth(err) {
		t.Error("expected predicates to see through wrapping")
	}
	if IsNotFound(err) || IsRateLimit(err) || IsServerError(err) || IsRedirect(err) {
		t.Error("unexpected classification")
	}
	if StatusCode(errors.New("other")) != 0 {
		t.Error("expected 0 for non-request errors")
	}
}
