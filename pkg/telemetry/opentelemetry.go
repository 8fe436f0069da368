package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/goto/salt/log"
	"go.opentelemetry.io/contrib/instrumentation/host"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/contrib/samplers/probability/consistent"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/encoding/gzip"
)

const instrumentationName = "github.com/goto/fulltext"

type OpenTelemetryConfig struct {
	Enabled                bool          `yaml:"enabled" mapstructure:"enabled" default:"false"`
	CollectorAddr          string        `yaml:"collector_addr" mapstructure:"collector_addr" default:"localhost:4317"`
	PeriodicReadInterval   time.Duration `yaml:"periodic_read_interval" mapstructure:"periodic_read_interval" default:"1s"`
	TraceSampleProbability float64       `yaml:"trace_sample_probability" mapstructure:"trace_sample_probability" default:"1"`
	// RuntimeMetrics enables host and Go runtime metrics, useful for long
	// running embedders only
	RuntimeMetrics bool `yaml:"runtime_metrics" mapstructure:"runtime_metrics" default:"false"`
}

// Tracer returns the tracer used for spans around searches. It is a no-op
// tracer until Init enabled OpenTelemetry.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

func initOTLP(ctx context.Context, cfg Config, logger log.Logger) (func(), error) {
	if !cfg.OpenTelemetry.Enabled {
		logger.Debug("OpenTelemetry monitoring is disabled.")
		return noOp, nil
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.AppName),
			semconv.ServiceVersion(cfg.AppVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	var shutdowns []func()
	shutdownAll := func() {
		// reverse order, tracer first
		for i := len(shutdowns) - 1; i >= 0; i-- {
			shutdowns[i]()
		}
	}

	shutdownMetric, err := initGlobalMetrics(ctx, res, cfg.OpenTelemetry, logger)
	if err != nil {
		return nil, err
	}
	shutdowns = append(shutdowns, shutdownMetric)

	shutdownTracer, err := initGlobalTracer(ctx, res, cfg.OpenTelemetry, logger)
	if err != nil {
		shutdownAll()
		return nil, err
	}
	shutdowns = append(shutdowns, shutdownTracer)

	if cfg.OpenTelemetry.RuntimeMetrics {
		if err := host.Start(); err != nil {
			shutdownAll()
			return nil, fmt.Errorf("start host metrics: %w", err)
		}
		if err := runtime.Start(); err != nil {
			shutdownAll()
			return nil, fmt.Errorf("start runtime metrics: %w", err)
		}
	}

	return shutdownAll, nil
}

func initGlobalMetrics(ctx context.Context, res *resource.Resource, cfg OpenTelemetryConfig, logger log.Logger) (func(), error) {
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.CollectorAddr),
		otlpmetricgrpc.WithCompressor(gzip.Name),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.PeriodicReadInterval))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res))
	otel.SetMeterProvider(provider)

	return shutdownFunc("metric-provider", provider.Shutdown, logger), nil
}

func initGlobalTracer(ctx context.Context, res *resource.Resource, cfg OpenTelemetryConfig, logger log.Logger) (func(), error) {
	exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(
		otlptracegrpc.WithEndpoint(cfg.CollectorAddr),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithCompressor(gzip.Name),
	))
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(consistent.ProbabilityBased(cfg.TraceSampleProbability)),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	return shutdownFunc("trace-provider", provider.Shutdown, logger), nil
}

func shutdownFunc(name string, shutdown func(context.Context) error, logger log.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), gracePeriod)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Error("otlp "+name+" failed to shutdown", "err", err)
		}
	}
}
