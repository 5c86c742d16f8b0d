package httpclient

import (
	"context"
	"fmt"
)

// TokenSource supplies bearer tokens per call. It is consulted only when a
// request carries no literal token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

// Token implements TokenSource.
func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// resolveToken returns the literal token, else the source's token.
func resolveToken(ctx context.Context, token string, src TokenSource) (string, error) {
	if token != "" || src == nil {
		return token, nil
	}
	tok, err := src.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("httpclient: token source: %w", err)
	}
	return tok, nil
}
