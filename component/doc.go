// Package component defines the lifecycle contract shared by fetchkit's
// long-lived pieces (the HTTP client, telemetry exporters) and a registry
// that starts them in order and stops them in reverse.
package component
