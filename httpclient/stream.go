package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/fetchkit/httpclient/sse"
	"github.com/kbukum/fetchkit/observability"
)

// maxErrorBody bounds how much of a failed stream's body is kept on the
// RequestError.
const maxErrorBody = 64 << 10

// GetStream sends a GET request and returns once response headers arrive.
// The caller must close the returned StreamResponse.
func (c *Client) GetStream(ctx context.Context, url string, opts ...RequestOption) (*StreamResponse, error) {
	req := NewRequest(http.MethodGet, url, opts...)
	req.Profile = ProfileStream
	req.Body = nil
	return c.DoStream(ctx, req)
}

// PostStream uploads src as the body of a POST request.
func (c *Client) PostStream(ctx context.Context, url string, src io.Reader, opts ...RequestOption) (*StreamResponse, error) {
	return c.upload(ctx, http.MethodPost, url, src, opts...)
}

// PutStream uploads src as the body of a PUT request.
func (c *Client) PutStream(ctx context.Context, url string, src io.Reader, opts ...RequestOption) (*StreamResponse, error) {
	return c.upload(ctx, http.MethodPut, url, src, opts...)
}

// DoStream sends req without buffering the response body. Retries and the
// client timeout do not apply; ctx governs cancellation.
func (c *Client) DoStream(ctx context.Context, req Request) (*StreamResponse, error) {
	ctx, call := c.begin(ctx, req)

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		call.end(ctx, 0, err)
		return nil, err
	}

	resp, err := c.roundTripStream(httpReq)
	if err != nil {
		call.end(ctx, statusOf(resp), err)
		return nil, err
	}

	call.end(ctx, resp.StatusCode, nil)
	return newStreamResponse(resp), nil
}

// upload pumps src into the request body through a pipe. Writes block until
// the transport reads, so src is consumed no faster than the connection
// accepts data. The call succeeds only when the response is 2xx and src
// was fully sent; the first failure on either side aborts the other.
func (c *Client) upload(ctx context.Context, method, url string, src io.Reader, opts ...RequestOption) (*StreamResponse, error) {
	req := NewRequest(method, url, opts...)
	req.Profile = ProfileStream

	pr, pw := io.Pipe()
	req.Body = pr

	ctx, call := c.begin(ctx, req)

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		_ = pr.Close()
		call.end(ctx, 0, err)
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, func() {
		_ = pr.CloseWithError(context.Cause(gctx))
	})
	defer stop()

	var (
		resp  *http.Response
		rtErr error
	)
	g.Go(func() error {
		resp, rtErr = c.roundTripStream(httpReq)
		return rtErr
	})
	g.Go(func() error {
		n, err := io.Copy(pw, src)
		call.bytes = int(n)
		_ = pw.CloseWithError(err)
		if err != nil {
			return fmt.Errorf("httpclient: upload aborted after %d bytes: %w", n, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		// A status failure explains an aborted pump better than the pipe error.
		if IsRequestError(rtErr) || errors.Is(rtErr, ErrNoStatusCode) {
			err = rtErr
		}
		outcome := outcomeOf(err)
		if resp != nil && isSuccess(resp.StatusCode) {
			_ = resp.Body.Close()
			outcome = observability.OutcomeStreamError
		}
		call.finish(ctx, statusOf(resp), err, outcome)
		return nil, err
	}

	call.end(ctx, resp.StatusCode, nil)
	return newStreamResponse(resp), nil
}

// roundTripStream sends httpReq and checks the status once headers arrive.
// On a bad status the returned response is non-nil and already closed.
func (c *Client) roundTripStream(httpReq *http.Request) (*http.Response, error) {
	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == 0 {
		_ = resp.Body.Close()
		return resp, ErrNoStatusCode
	}
	if !isSuccess(resp.StatusCode) {
		prefix, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		return resp, newRequestError(resp, prefix)
	}
	return resp, nil
}

func newStreamResponse(resp *http.Response) *StreamResponse {
	sr := &StreamResponse{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
		Headers:    headerSnapshot(resp),
		rawResp:    resp,
	}
	if mt, _, err := mime.ParseMediaType(resp.Header.Get(headerContentType)); err == nil && mt == "text/event-stream" {
		sr.SSE = sse.NewReader(resp.Body)
	} else {
		sr.Body = resp.Body
	}
	return sr
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
