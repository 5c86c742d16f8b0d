package bootstrap

import (
	"context"
	"time"

	"github.com/kbukum/fetchkit/component"
	"github.com/kbukum/fetchkit/logger"
)

// Summary records how the application started.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
}

// NewSummary creates a startup summary for a service.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// StartupDuration returns the recorded startup time.
func (s *Summary) StartupDuration() time.Duration {
	return s.startupDuration
}

// Log writes the summary and live component health at debug level.
func (s *Summary) Log(ctx context.Context, registry *component.Registry, log *logger.Logger) {
	if !log.Enabled("debug") {
		return
	}
	healthy := 0
	results := registry.HealthAll(ctx)
	for _, h := range results {
		if h.Status == component.StatusHealthy {
			healthy++
		}
		fields := logger.Fields(logger.FieldComponent, h.Name, "status", string(h.Status))
		if h.Message != "" {
			fields["message"] = h.Message
		}
		log.Debug("component health", fields)
	}
	log.Debug("started", logger.Fields(
		"name", s.serviceName,
		"version", s.version,
		logger.FieldDuration, s.startupDuration.Milliseconds(),
		"healthy", healthy,
		"components", len(results),
	))
}
