// Package observability wires OpenTelemetry tracing and metrics for fetchkit.
//
// InitTracer and InitMeter install OTLP/HTTP exporters as the global
// providers. ClientMetrics holds the instruments the HTTP client records on
// every call. Without initialization the global providers are no-ops, so
// instrumentation costs nothing.
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("fetch"))
//	defer tp.Shutdown(ctx)
package observability
