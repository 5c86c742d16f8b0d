package observability

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("fetch")
	if cfg.ServiceName != "fetch" {
		t.Errorf("expected ServiceName 'fetch', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("fetch")
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestTracer_UsesProvider(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	_, span := Tracer(tp).Start(context.Background(), SpanHTTPRequest)
	span.End()

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != SpanHTTPRequest {
		t.Errorf("expected span %q, got %q", SpanHTTPRequest, spans[0].Name())
	}
	if spans[0].InstrumentationScope().Name != InstrumentationName {
		t.Errorf("unexpected scope %q", spans[0].InstrumentationScope().Name)
	}
}

func TestClientMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewClientMetrics(mp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	m.RecordStart(ctx, "json")
	m.RecordEnd(ctx, "GET", "json", OutcomeSuccess, 200, 5*time.Millisecond)
	m.RecordStart(ctx, "raw")
	m.RecordEnd(ctx, "POST", "raw", OutcomeStatusError, 503, time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			found[md.Name] = true
			if md.Name == "http.client.requests" {
				sum, ok := md.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatalf("unexpected data type %T", md.Data)
				}
				var total int64
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
				if total != 2 {
					t.Errorf("expected 2 requests, got %d", total)
				}
			}
		}
	}
	for _, name := range []string{"http.client.requests", "http.client.request.duration", "http.client.active_requests"} {
		if !found[name] {
			t.Errorf("metric %s not recorded", name)
		}
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{0: "none", 200: "2xx", 301: "3xx", 404: "4xx", 503: "5xx"}
	for in, want := range tests {
		if got := statusClass(in); got != want {
			t.Errorf("statusClass(%d): expected %s, got %s", in, want, got)
		}
	}
}

func TestComponent_DisabledByDefault(t *testing.T) {
	c := NewComponent(Config{})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.tp != nil || c.mp != nil {
		t.Error("expected no providers without endpoints")
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("unexpected stop error: %v", err)
	}
	if got := c.Describe().Details; got != "disabled" {
		t.Errorf("expected 'disabled', got %q", got)
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{Tracing: TracerConfig{ServiceName: "custom", SampleRate: 0.5}}
	cfg.ApplyDefaults("fetch", "1.2.0", "production")

	if cfg.Tracing.ServiceName != "custom" {
		t.Errorf("expected explicit name kept, got %s", cfg.Tracing.ServiceName)
	}
	if cfg.Metrics.ServiceName != "fetch" || cfg.Metrics.ServiceVersion != "1.2.0" || cfg.Metrics.Environment != "production" {
		t.Errorf("unexpected metrics identity %+v", cfg.Metrics)
	}
	if cfg.Tracing.SampleRate != 0.5 {
		t.Errorf("expected sample rate 0.5, got %v", cfg.Tracing.SampleRate)
	}
	if cfg.Metrics.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.Metrics.Interval)
	}
}
