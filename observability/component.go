package observability

import (
	"context"
	"errors"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/fetchkit/component"
)

// Config groups tracing and metrics settings. An empty Endpoint disables
// the corresponding exporter.
type Config struct {
	Tracing TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// Component owns the tracer and meter providers for the process lifetime.
type Component struct {
	config Config
	tp     *sdktrace.TracerProvider
	mp     *sdkmetric.MeterProvider
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a telemetry component. Providers are created in Start.
func NewComponent(cfg Config) *Component {
	return &Component{config: cfg}
}

// Name returns the component name.
func (c *Component) Name() string { return "telemetry" }

// Start initializes the configured exporters.
func (c *Component) Start(ctx context.Context) error {
	if c.config.Tracing.Endpoint != "" {
		tp, err := InitTracer(ctx, c.config.Tracing)
		if err != nil {
			return err
		}
		c.tp = tp
	}
	if c.config.Metrics.Endpoint != "" {
		mp, err := InitMeter(ctx, c.config.Metrics)
		if err != nil {
			return err
		}
		c.mp = mp
	}
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
	}
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Health reports healthy; exporters fail asynchronously and log on their own.
func (c *Component) Health(context.Context) component.Health {
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe summarizes which exporters are enabled.
func (c *Component) Describe() component.Description {
	details := "disabled"
	switch {
	case c.config.Tracing.Endpoint != "" && c.config.Metrics.Endpoint != "":
		details = "traces+metrics"
	case c.config.Tracing.Endpoint != "":
		details = "traces -> " + c.config.Tracing.Endpoint
	case c.config.Metrics.Endpoint != "":
		details = "metrics -> " + c.config.Metrics.Endpoint
	}
	return component.Description{Name: "Telemetry", Type: "telemetry", Details: details}
}

// ApplyDefaults fills unset service identity and sampling fields.
func (c *Config) ApplyDefaults(serviceName, serviceVersion, environment string) {
	for _, id := range []struct{ name, version, env *string }{
		{&c.Tracing.ServiceName, &c.Tracing.ServiceVersion, &c.Tracing.Environment},
		{&c.Metrics.ServiceName, &c.Metrics.ServiceVersion, &c.Metrics.Environment},
	} {
		if *id.name == "" {
			*id.name = serviceName
		}
		if *id.version == "" {
			*id.version = serviceVersion
		}
		if *id.env == "" {
			*id.env = environment
		}
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
	if c.Metrics.Interval <= 0 {
		c.Metrics.Interval = 15 * time.Second
	}
}
