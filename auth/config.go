package auth

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names a supported JWT signing algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
	RS256 SigningMethod = "RS256"
	ES256 SigningMethod = "ES256"
)

// JWTConfig configures a JWTSource.
type JWTConfig struct {
	// Secret is the HMAC signing key (HS* methods).
	Secret string `yaml:"secret" mapstructure:"secret"`

	// PrivateKey is an *rsa.PrivateKey (RS256) or *ecdsa.PrivateKey (ES256).
	PrivateKey any `yaml:"-" mapstructure:"-"`

	// Method is the signing algorithm. Defaults to HS256.
	Method SigningMethod `yaml:"method" mapstructure:"method"`

	Issuer   string   `yaml:"issuer" mapstructure:"issuer"`
	Subject  string   `yaml:"subject" mapstructure:"subject"`
	Audience []string `yaml:"audience" mapstructure:"audience"`

	// TTL is the lifetime of each minted token. Defaults to 15m.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// Leeway is how long before expiry a cached token is replaced. Defaults to 30s.
	Leeway time.Duration `yaml:"leeway" mapstructure:"leeway"`

	// Claims are extra private claims added to every token.
	Claims map[string]any `yaml:"claims" mapstructure:"claims"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *JWTConfig) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL <= 0 {
		c.TTL = 15 * time.Minute
	}
	if c.Leeway <= 0 {
		c.Leeway = 30 * time.Second
	}
}

// Validate checks required fields based on the signing method.
func (c *JWTConfig) Validate() error {
	if c.Leeway >= c.TTL {
		return errors.New("auth: leeway must be shorter than ttl")
	}
	switch c.Method {
	case HS256, HS384, HS512:
		if c.Secret == "" {
			return errors.New("auth: secret is required for HMAC signing methods")
		}
	case RS256:
		if _, ok := c.PrivateKey.(*rsa.PrivateKey); !ok {
			return errors.New("auth: RS256 requires an *rsa.PrivateKey")
		}
	case ES256:
		if _, ok := c.PrivateKey.(*ecdsa.PrivateKey); !ok {
			return errors.New("auth: ES256 requires an *ecdsa.PrivateKey")
		}
	default:
		return errors.New("auth: unsupported signing method: " + string(c.Method))
	}
	return nil
}

func (c *JWTConfig) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	case RS256:
		return gojwt.SigningMethodRS256
	case ES256:
		return gojwt.SigningMethodES256
	default:
		return gojwt.SigningMethodHS256
	}
}

func (c *JWTConfig) signKey() any {
	switch c.Method {
	case RS256, ES256:
		return c.PrivateKey
	default:
		return []byte(c.Secret)
	}
}
