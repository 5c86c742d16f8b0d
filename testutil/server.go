package testutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/fetchkit/component"
)

// Recorded is a request as the server saw it.
type Recorded struct {
	Method        string
	URI           string
	Path          string
	Query         string
	Headers       http.Header
	ContentLength int64
	Body          []byte
}

// Reply describes how the server answers a route.
type Reply struct {
	Status  int
	Headers map[string]string
	Body    []byte
	// Chunks are flushed one by one after Body, with ChunkDelay between them.
	Chunks     [][]byte
	ChunkDelay time.Duration
	// Func, when set, replaces the canned reply.
	Func func(c *gin.Context, rec Recorded)
	// SkipRead replies without reading the request body.
	SkipRead bool
}

// JSON returns a reply with an application/json body.
func JSON(status int, body string) Reply {
	return Reply{
		Status:  status,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    []byte(body),
	}
}

// Text returns a reply with a text/plain body.
func Text(status int, body string) Reply {
	return Reply{
		Status:  status,
		Headers: map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:    []byte(body),
	}
}

// Server is a recording gin test server.
type Server struct {
	mu       sync.Mutex
	engine   *gin.Engine
	srv      *httptest.Server
	routes   map[string]Reply
	requests []Recorded
}

var _ TestComponent = (*Server)(nil)

// NewServer creates a server with no routes. Unknown routes answer 404.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		engine: gin.New(),
		routes: make(map[string]Reply),
	}
	s.engine.NoRoute(s.dispatch)
	return s
}

// Handle sets the reply for method and path, replacing any previous one.
func (s *Server) Handle(method, path string, reply Reply) *Server {
	s.mu.Lock()
	s.routes[method+" "+path] = reply
	s.mu.Unlock()
	return s
}

// Name returns the component name.
func (s *Server) Name() string { return "test-server" }

// Start begins serving on a loopback port.
func (s *Server) Start(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		s.srv = httptest.NewServer(s.engine)
	}
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop(context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()
	if srv != nil {
		srv.Close()
	}
	return nil
}

// Health reports whether the server is listening.
func (s *Server) Health(context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}

// Reset forgets recorded requests. Routes are kept.
func (s *Server) Reset(context.Context) error {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the recorded requests.
func (s *Server) Snapshot(context.Context) (interface{}, error) {
	return s.Requests(), nil
}

// Restore replaces the recorded requests with a snapshot.
func (s *Server) Restore(_ context.Context, snapshot interface{}) error {
	reqs, ok := snapshot.([]Recorded)
	if !ok {
		return fmt.Errorf("testutil: unexpected snapshot type %T", snapshot)
	}
	s.mu.Lock()
	s.requests = append([]Recorded(nil), reqs...)
	s.mu.Unlock()
	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return ""
	}
	return s.srv.URL
}

// Requests returns every recorded request in arrival order.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Last returns the most recent request, or nil if none arrived.
func (s *Server) Last() *Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	last := s.requests[len(s.requests)-1]
	return &last
}

func (s *Server) dispatch(c *gin.Context) {
	r := c.Request

	s.mu.Lock()
	reply, ok := s.routes[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	rec := Recorded{
		Method:        r.Method,
		URI:           r.RequestURI,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Headers:       r.Header.Clone(),
		ContentLength: r.ContentLength,
	}
	if !reply.SkipRead {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		rec.Body = body
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()

	if !ok {
		c.String(http.StatusNotFound, "no route for %s %s", r.Method, r.URL.Path)
		return
	}
	if reply.Func != nil {
		reply.Func(c, rec)
		return
	}
	write(c, reply)
}

func write(c *gin.Context, reply Reply) {
	for k, v := range reply.Headers {
		c.Header(k, v)
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	c.Status(status)
	if len(reply.Body) > 0 {
		_, _ = c.Writer.Write(reply.Body)
	}
	for _, chunk := range reply.Chunks {
		c.Writer.Flush()
		if reply.ChunkDelay > 0 {
			time.Sleep(reply.ChunkDelay)
		}
		_, _ = c.Writer.Write(chunk)
	}
	if len(reply.Body) == 0 && len(reply.Chunks) == 0 {
		c.Writer.WriteHeaderNow()
	}
}
