package httpclient

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config configures the HTTP client.
type Config struct {
	// Name identifies the client in logs and the component registry.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to request URLs that are not absolute.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// UserAgent replaces DefaultUserAgent when set.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Timeout bounds whole-body requests. Zero means no client timeout;
	// callers bound calls through the context. Streams never use it.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// TLS configures TLS settings for the HTTP transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// HTTP2 enables HTTP/2 on the transport via golang.org/x/net/http2.
	HTTP2 bool `yaml:"http2" mapstructure:"http2"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("httpclient: timeout must not be negative")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("httpclient: invalid base_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("httpclient: base_url must be http or https, got %q", c.BaseURL)
		}
	}
	for k := range c.Headers {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("httpclient: empty header name")
		}
	}
	return c.TLS.Validate()
}

// resolveURL joins a relative request URL onto BaseURL.
func (c *Config) resolveURL(raw string) string {
	if c.BaseURL == "" || strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(raw, "/")
}
