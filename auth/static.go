package auth

import (
	"context"

	"github.com/kbukum/fetchkit/httpclient"
)

// Static is a token source that always returns the same token.
type Static string

var _ httpclient.TokenSource = Static("")

// Token implements httpclient.TokenSource.
func (s Static) Token(context.Context) (string, error) {
	return string(s), nil
}
