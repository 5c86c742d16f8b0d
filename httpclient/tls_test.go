package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/fetchkit/testutil/tlstest"
)

func newTLSServer(t *testing.T, certs *tlstest.Certs, requireClient bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Proto))
	}))
	srv.TLS = certs.ServerConfig(requireClient)
	srv.EnableHTTP2 = true
	srv.StartTLS()
	t.Cleanup(srv.Close)
	return srv
}

func TestTLS_TrustsConfiguredCA(t *testing.T) {
	certs := tlstest.Generate(t)
	srv := newTLSServer(t, certs, false)

	c, err := New(Config{TLS: &TLSConfig{CAFile: certs.CAFile}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(resp.Text(), "HTTP/") {
		t.Errorf("unexpected body %q", resp.Text())
	}
}

func TestTLS_UnknownAuthority(t *testing.T) {
	certs := tlstest.Generate(t)
	srv := newTLSServer(t, certs, false)

	c, err := New(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = c.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected certificate error")
	}
	if IsRequestError(err) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestTLS_MutualAndHTTP2(t *testing.T) {
	certs := tlstest.Generate(t)
	srv := newTLSServer(t, certs, true)

	c, err := New(Config{
		HTTP2: true,
		TLS:   &TLSConfig{CAFile: certs.CAFile, CertFile: certs.CertFile, KeyFile: certs.KeyFile},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "HTTP/2.0" {
		t.Errorf("expected HTTP/2.0, got %q", resp.Text())
	}

	stream, err := c.GetStream(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	_ = stream.Close()

	anon, _ := New(Config{TLS: &TLSConfig{CAFile: certs.CAFile}})
	if _, err := anon.Get(context.Background(), srv.URL); err == nil {
		t.Error("expected handshake failure without a client certificate")
	}
}

func TestTLS_InvalidCA(t *testing.T) {
	_, err := New(Config{TLS: &TLSConfig{CAFile: tlstest.InvalidPEM(t)}})
	if err == nil || !strings.Contains(err.Error(), "no certificates") {
		t.Errorf("expected no certificates error, got %v", err)
	}
	var rerr *RequestError
	if errors.As(err, &rerr) {
		t.Error("config errors must not be request errors")
	}
}
