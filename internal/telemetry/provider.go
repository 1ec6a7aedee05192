// Package telemetry wires OpenTelemetry tracing. Tracing is opt-in and stays
// a no-op until an OTLP endpoint is configured.
package telemetry

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const TracerName = "github.com/rocketscienceinc/chainreaction-backend"

type Config struct {
	Enabled     bool   `env:"CHAINREACTION_OTEL_ENABLED" envDefault:"true"`
	Endpoint    string `env:"CHAINREACTION_OTEL_ENDPOINT"`
	ServiceName string `env:"CHAINREACTION_OTEL_SERVICE_NAME" envDefault:"chainreaction-backend"`
}

// LoadConfig reads the telemetry settings from the environment.
func LoadConfig() (Config, error) {
	var conf Config
	if err := env.Parse(&conf); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return conf, nil
}

// Setup registers a global tracer provider exporting over OTLP/HTTP. When
// tracing is disabled or no endpoint is set it registers nothing.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, conf Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if !conf.Enabled || conf.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(conf.Endpoint),
	)
	if err != nil {
		return noop, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(conf.ServiceName),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns the tracer used across the service. It follows whatever
// provider is registered globally, a no-op one by default.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
