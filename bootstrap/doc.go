// Package bootstrap runs fetchkit binaries with a uniform lifecycle.
//
// NewApp validates a typed config and initializes the logger. RunTask starts
// the registered components in order, runs one task with signal-aware
// cancellation and stops everything in reverse order.
package bootstrap
