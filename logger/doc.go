// Package logger provides structured logging for fetchkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. The HTTP client logs
// every call through a logger tagged with the "httpclient" component.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "fetch").WithComponent("cli")
//	log.Info("request sent", logger.Fields("method", "GET", "status", 200))
package logger
