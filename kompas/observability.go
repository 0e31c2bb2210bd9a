package kompas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	ExporterStdout     = "stdout"
	ExporterOtlp       = "otlp"
	ExporterPrometheus = "prometheus"
)

func startTrace(ctx context.Context, res *resource.Resource, cfg ObsConfig) (*trace.TracerProvider, error) {
	var traceExporter trace.SpanExporter
	var err error

	switch cfg.Exporter {
	case ExporterOtlp:
		opts := []otlptracehttp.Option{}
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		}
		if !cfg.Secure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		traceExporter, err = otlptracehttp.New(ctx, opts...)

	default:
		slog.Debug("initialize stdout trace")
		traceExporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	return trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithResource(res),
	), nil
}

func startMetric(ctx context.Context, res *resource.Resource, cfg ObsConfig) (*metric.MeterProvider, error) {
	var reader metric.Reader

	switch cfg.Exporter {
	case ExporterPrometheus:
		// registers into the default prometheus registry, scraped via /metrics.
		exporter, err := otelprom.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		reader = exporter

	case ExporterOtlp:
		opts := []otlpmetrichttp.Option{}
		if cfg.Endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(cfg.Endpoint))
		}
		if !cfg.Secure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exporter, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp http metric exporter: %w", err)
		}
		reader = metric.NewPeriodicReader(exporter)

	default:
		slog.Debug("initialize stdout metric")
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		reader = metric.NewPeriodicReader(exporter)
	}

	return metric.NewMeterProvider(
		metric.WithReader(reader),
		metric.WithResource(res),
	), nil
}

// Initializes and configures OpenTelemetry for the application.
// It returns a shutdown function that must be called on application exit.
func InitObservability(ctx context.Context, serviceName string, cfg ObsConfig) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enable {
		slog.Info("observability is disabled")
		return noop, nil
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("failed to create otel resource: %w", err)
	}

	sfn := []func(context.Context) error{}

	tracerProvider, err := startTrace(ctx, res, cfg)
	if err != nil {
		return noop, err
	}
	otel.SetTracerProvider(tracerProvider)
	sfn = append(sfn, tracerProvider.Shutdown)

	meterProvider, err := startMetric(ctx, res, cfg)
	if err != nil {
		return noop, err
	}
	otel.SetMeterProvider(meterProvider)
	sfn = append(sfn, meterProvider.Shutdown)

	// Set the global propagator to tracecontext.
	otel.SetTextMapPropagator(propagation.TraceContext{})

	// to ensure all telemetry data is flushed on exit.
	return func(ctx context.Context) error {
		var shutdownErr error
		for _, fn := range sfn {
			if xerr := fn(ctx); xerr != nil {
				shutdownErr = errors.Join(shutdownErr, xerr)
			}
		}
		return shutdownErr
	}, nil
}
