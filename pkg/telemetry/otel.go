package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/vantascan/vantascan/pkg/defaults"
	"github.com/vantascan/vantascan/pkg/duration"
	"github.com/vantascan/vantascan/pkg/finding"
	"github.com/vantascan/vantascan/pkg/recorder"
)

// Compile-time interface check.
var _ recorder.Sink = (*TraceSink)(nil)

// TraceSink exports each finding as a span to an OpenTelemetry collector.
// Connection failures surface as LogFinding errors, which the recorder
// logs and drops.
type TraceSink struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer

	mu     sync.Mutex
	closed bool
}

// TraceOptions configures the OTLP exporter.
type TraceOptions struct {
	// Endpoint is the OTLP gRPC endpoint, e.g. "localhost:4317".
	Endpoint string

	// ServiceName overrides the default service identity.
	ServiceName string

	// Insecure disables TLS toward the collector.
	Insecure bool
}

// NewTraceSink connects the exporter and builds the sink.
func NewTraceSink(ctx context.Context, opts TraceOptions) (*TraceSink, error) {
	if opts.Endpoint == "" {
		opts.Endpoint = "localhost:4317"
	}
	if opts.ServiceName == "" {
		opts.ServiceName = defaults.ToolName
	}

	exporterOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(opts.Endpoint),
	}
	if opts.Insecure {
		exporterOpts = append(exporterOpts,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}

	connectCtx, cancel := context.WithTimeout(ctx, duration.TelemetryConnect)
	defer cancel()
	exporter, err := otlptracegrpc.New(connectCtx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(defaults.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return &TraceSink{
		provider: provider,
		tracer:   provider.Tracer(defaults.ToolName),
	}, nil
}

// LogFinding implements recorder.Sink.
func (s *TraceSink) LogFinding(ctx context.Context, f finding.Finding) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	_, span := s.tracer.Start(ctx, "finding",
		trace.WithAttributes(
			attribute.String("finding.id", f.ID),
			attribute.String("finding.category", f.Category),
			attribute.String("finding.severity", string(f.Severity)),
			attribute.String("finding.technique", f.Technique),
			attribute.String("finding.parameter", f.Parameter),
			attribute.String("finding.target", f.Target),
		),
	)
	span.End()
	return nil
}

// Close flushes pending spans and shuts the provider down.
func (s *TraceSink) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	shutdownCtx, cancel := context.WithTimeout(ctx, duration.TelemetryShutdown)
	defer cancel()
	return s.provider.Shutdown(shutdownCtx)
}
