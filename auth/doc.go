// Package auth provides bearer token sources for httpclient.
//
// Static returns a fixed token. JWTSource mints signed JWTs with
// github.com/golang-jwt/jwt/v5 and reuses each token until shortly before
// it expires:
//
//	src, err := auth.NewJWTSource(auth.JWTConfig{
//	    Secret:  os.Getenv("API_SECRET"),
//	    Subject: "fetch-cli",
//	    TTL:     10 * time.Minute,
//	})
//	resp, err := client.Get(ctx, "/me", httpclient.WithTokenSource(src))
package auth
