// Package version carries build version information for fetchkit.
//
// Values are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/fetchkit/version.Version=1.0.0"
package version
