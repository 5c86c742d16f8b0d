package main

import (
	"fmt"

	"github.com/kbukum/fetchkit/auth"
	"github.com/kbukum/fetchkit/config"
	"github.com/kbukum/fetchkit/httpclient"
	"github.com/kbukum/fetchkit/observability"
)

// Config is the fetch binary configuration, loaded from config.yml,
// .env and FETCHKIT_ environment variables.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP      httpclient.Config    `yaml:"http" mapstructure:"http"`
	Auth      AuthConfig           `yaml:"auth" mapstructure:"auth"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// AuthConfig selects how requests are authorized. A literal Token wins over JWT.
type AuthConfig struct {
	Token string         `yaml:"token" mapstructure:"token"`
	JWT   auth.JWTConfig `yaml:"jwt" mapstructure:"jwt"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "fetch"
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
	if c.Logging.Level == "" && !c.Debug {
		c.Logging.Level = "warn"
	}
	c.ServiceConfig.ApplyDefaults()
	c.HTTP.ApplyDefaults()
	if c.Auth.JWT.Secret != "" {
		c.Auth.JWT.ApplyDefaults()
	}
	c.Telemetry.ApplyDefaults(c.Name, c.Version, c.Environment)
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if c.Auth.JWT.Secret != "" {
		if err := c.Auth.JWT.Validate(); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}
	return nil
}

// tokenSource returns the configured bearer token source, or nil.
func (c *Config) tokenSource() (httpclient.TokenSource, error) {
	switch {
	case c.Auth.Token != "":
		return auth.Static(c.Auth.Token), nil
	case c.Auth.JWT.Secret != "":
		return auth.NewJWTSource(c.Auth.JWT)
	default:
		return nil, nil
	}
}
