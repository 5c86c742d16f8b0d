package auth

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/fetchkit/httpclient"
)

// JWTSource mints signed bearer tokens and caches each one until Leeway
// before it expires. It is safe for concurrent use.
type JWTSource struct {
	cfg JWTConfig
	now func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

var _ httpclient.TokenSource = (*JWTSource)(nil)

// NewJWTSource validates cfg and returns a token source.
func NewJWTSource(cfg JWTConfig) (*JWTSource, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &JWTSource{cfg: cfg, now: time.Now}, nil
}

// Token returns the cached token, minting a new one when it is missing or
// about to expire.
func (s *JWTSource) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(s.cfg.Leeway).Before(s.expires) {
		return s.token, nil
	}

	token, expires, err := s.mint(now)
	if err != nil {
		return "", err
	}
	s.token, s.expires = token, expires
	return token, nil
}

func (s *JWTSource) mint(now time.Time) (string, time.Time, error) {
	expires := now.Add(s.cfg.TTL)

	claims := gojwt.MapClaims{}
	maps.Copy(claims, s.cfg.Claims)
	claims["iat"] = gojwt.NewNumericDate(now)
	claims["nbf"] = gojwt.NewNumericDate(now)
	claims["exp"] = gojwt.NewNumericDate(expires)
	claims["jti"] = uuid.NewString()
	if s.cfg.Issuer != "" {
		claims["iss"] = s.cfg.Issuer
	}
	if s.cfg.Subject != "" {
		claims["sub"] = s.cfg.Subject
	}
	if len(s.cfg.Audience) > 0 {
		claims["aud"] = gojwt.ClaimStrings(s.cfg.Audience)
	}

	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString(s.cfg.signKey())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expires, nil
}
