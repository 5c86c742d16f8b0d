package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http2"

	"github.com/kbukum/fetchkit/logger"
	"github.com/kbukum/fetchkit/observability"
	"github.com/kbukum/fetchkit/search"
)

// Client sends requests with uniform header assembly, query encoding and
// error normalization.
type Client struct {
	httpClient   *http.Client
	streamClient *http.Client
	config       Config

	transport      http.RoundTripper
	log            *logger.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	tracer  trace.Tracer
	metrics *observability.ClientMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for per-call debug logs.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTransport replaces the default transport. TLS and HTTP2 settings are
// ignored when a custom transport is supplied.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracerProvider = tp }
}

// WithMeterProvider sets the meter provider. Defaults to the global one.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) { c.meterProvider = mp }
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		t, err := newTransport(cfg)
		if err != nil {
			return nil, err
		}
		c.transport = t
	}
	if c.log == nil {
		c.log = logger.WithComponent("httpclient")
	}
	c.log = c.log.WithFields(logger.Fields("client", cfg.Name))

	c.httpClient = &http.Client{Transport: c.transport, Timeout: cfg.Timeout}
	// Streams are bounded by the caller's context only.
	c.streamClient = &http.Client{Transport: c.transport}

	c.tracer = observability.Tracer(c.tracerProvider)
	metrics, err := observability.NewClientMetrics(c.meterProvider)
	if err != nil {
		c.log.Warn("client metrics disabled", logger.Fields(logger.FieldError, err.Error()))
	}
	c.metrics = metrics

	return c, nil
}

// newTransport builds a fresh transport so http2.ConfigureTransport never
// sees one that already negotiated protocols.
func newTransport(cfg Config) (*http.Transport, error) {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		t.TLSClientConfig = tlsCfg
	}

	if cfg.HTTP2 {
		if err := http2.ConfigureTransport(t); err != nil {
			return nil, fmt.Errorf("httpclient: configure http2: %w", err)
		}
	}
	return t, nil
}

// Config returns the effective client configuration.
func (c *Client) Config() Config {
	return c.config
}

// Close releases idle connections.
func (c *Client) Close(context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodGet, url, opts...))
}

// Post sends a POST request. Set the body with WithBody.
func (c *Client) Post(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodPost, url, opts...))
}

// Put sends a PUT request. Set the body with WithBody.
func (c *Client) Put(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodPut, url, opts...))
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, url string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, NewRequest(http.MethodDelete, url, opts...))
}

// Request sends a request with an arbitrary method.
func (c *Client) Request(ctx context.Context, method, url string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, NewRequest(method, url, opts...))
}

// Do sends req and buffers the whole response body.
//
// A status outside [200,299] returns *RequestError. Connection failures are
// returned as the transport reported them.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	ctx, call := c.begin(ctx, req)

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		call.end(ctx, 0, err)
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		call.end(ctx, 0, err)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		call.end(ctx, resp.StatusCode, err)
		return nil, err
	}
	call.bytes = len(body)

	if !isSuccess(resp.StatusCode) {
		rerr := newRequestError(resp, body)
		call.end(ctx, resp.StatusCode, rerr)
		return nil, rerr
	}

	call.end(ctx, resp.StatusCode, nil)
	return &Response{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// buildRequest resolves the URL and token, encodes the body and assembles
// headers for the request's profile.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	token, err := resolveToken(ctx, req.Token, req.TokenSource)
	if err != nil {
		return nil, err
	}

	body, kind, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	target := search.Append(c.config.resolveURL(req.URL), req.Search)
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	httpReq.Header = BuildHeaders(HeaderInput{
		Profile:   req.Profile,
		UserAgent: c.config.UserAgent,
		Defaults:  c.config.Headers,
		Caller:    req.Headers,
		Token:     token,
		Body:      kind,
	})
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and reports how it
// was produced.
func encodeBody(body any) (io.Reader, BodyKind, error) {
	if isNilValue(body) {
		return nil, BodyNone, nil
	}
	switch v := body.(type) {
	case nil:
		return nil, BodyNone, nil
	case string:
		return strings.NewReader(v), BodyEncoded, nil
	case []byte:
		return bytes.NewReader(v), BodyEncoded, nil
	case io.Reader:
		return v, BodyEncoded, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, BodyNone, fmt.Errorf("httpclient: encode body: %w", err)
		}
		return bytes.NewReader(data), BodySerialized, nil
	}
}

// isNilValue reports whether v is nil or a typed nil such as a nil map,
// slice or pointer stored in an interface.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

// call tracks one request for logging, tracing and metrics.
type call struct {
	c       *Client
	id      string
	method  string
	url     string
	profile string
	start   time.Time
	span    trace.Span
	bytes   int
}

func (c *Client) begin(ctx context.Context, req Request) (context.Context, *call) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	cl := &call{
		c:       c,
		id:      uuid.NewString(),
		method:  method,
		url:     redactURL(c.config.resolveURL(req.URL)),
		profile: req.Profile.String(),
		start:   time.Now(),
	}
	ctx, cl.span = c.tracer.Start(ctx, observability.SpanHTTPRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(observability.AttrMethod, cl.method),
			attribute.String(observability.AttrURL, cl.url),
			attribute.String(observability.AttrProfile, cl.profile),
			attribute.String(observability.AttrRequestID, cl.id),
		),
	)
	if c.metrics != nil {
		c.metrics.RecordStart(ctx, cl.profile)
	}
	return ctx, cl
}

func (cl *call) end(ctx context.Context, status int, err error) {
	cl.finish(ctx, status, err, outcomeOf(err))
}

func (cl *call) finish(ctx context.Context, status int, err error, outcome string) {
	d := time.Since(cl.start)
	if status > 0 {
		cl.span.SetAttributes(attribute.Int(observability.AttrStatusCode, status))
	}
	if err != nil {
		cl.span.SetAttributes(attribute.String(observability.AttrErrorType, outcome))
		cl.span.SetStatus(codes.Error, err.Error())
	}
	cl.span.End()

	if cl.c.metrics != nil {
		cl.c.metrics.RecordEnd(ctx, cl.method, cl.profile, outcome, status, d)
	}

	if !cl.c.log.Enabled("debug") {
		return
	}
	fields := logger.Fields(
		logger.FieldRequestID, cl.id,
		logger.FieldMethod, cl.method,
		logger.FieldURL, cl.url,
		logger.FieldProfile, cl.profile,
		logger.FieldStatus, status,
		logger.FieldDuration, d.Milliseconds(),
	)
	if cl.bytes > 0 {
		fields[logger.FieldBytes] = cl.bytes
	}
	if err != nil {
		fields[logger.FieldError] = err.Error()
		cl.c.log.Debug("request failed", fields)
		return
	}
	cl.c.log.Debug("request completed", fields)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case IsRequestError(err):
		return observability.OutcomeStatusError
	default:
		return observability.OutcomeTransportError
	}
}

// redactURL hides credentials and query values.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.RawQuery != "" {
		u.RawQuery = "redacted"
	}
	return u.Redacted()
}
