package httpclient

import (
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Name != "http" {
		t.Errorf("expected name 'http', got %q", cfg.Name)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", cfg.UserAgent)
	}
	if cfg.Timeout != 0 {
		t.Errorf("expected no timeout by default, got %v", cfg.Timeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, false},
		{"timeout", Config{Timeout: time.Second}, false},
		{"negative timeout", Config{Timeout: -time.Second}, true},
		{"https base", Config{BaseURL: "https://api.example.com"}, false},
		{"ftp base", Config{BaseURL: "ftp://example.com"}, true},
		{"blank header", Config{Headers: map[string]string{" ": "x"}}, true},
		{"cert without key", Config{TLS: &TLSConfig{CertFile: "c.pem"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_ResolveURL(t *testing.T) {
	cfg := Config{BaseURL: "https://api.example.com/v1/"}
	tests := map[string]string{
		"/users":                 "https://api.example.com/v1/users",
		"users?x=1":              "https://api.example.com/v1/users?x=1",
		"http://other.test/path": "http://other.test/path",
	}
	for in, want := range tests {
		if got := cfg.resolveURL(in); got != want {
			t.Errorf("resolveURL(%q): expected %q, got %q", in, want, got)
		}
	}
	if got := (&Config{}).resolveURL("/rel"); got != "/rel" {
		t.Errorf("expected unchanged url without base, got %q", got)
	}
}

func TestTLSConfig_Build(t *testing.T) {
	var nilCfg *TLSConfig
	if c, err := nilCfg.Build(); c != nil || err != nil {
		t.Errorf("expected nil config, got %v (%v)", c, err)
	}
	if c, _ := (&TLSConfig{}).Build(); c != nil {
		t.Error("expected nil config when nothing is set")
	}
	c, err := (&TLSConfig{ServerName: "api.internal"}).Build()
	if err != nil || c == nil || c.ServerName != "api.internal" {
		t.Errorf("expected server name override, got %v (%v)", c, err)
	}
	if _, err := (&TLSConfig{CAFile: "/nonexistent/ca.pem"}).Build(); err == nil {
		t.Error("expected error for missing CA file")
	}
}

func TestNew_HTTP2(t *testing.T) {
	c, err := New(Config{HTTP2: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Config().HTTP2 {
		t.Error("expected http2 config to be kept")
	}
}
