package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/aoi-sim/aoi-sim"

// TracingConfig governs how run tracing is initialised.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Writer      io.Writer // span output; os.Stderr when nil
}

// InitTracing installs a global tracer provider that writes spans as JSON.
// It returns a shutdown function that flushes pending spans.
func InitTracing(ctx context.Context, cfg TracingConfig) (func(context.Context) error, error) {
	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		logrus.Debug("tracing disabled; using noop tracer provider")
		return func(context.Context) error { return nil }, nil
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
		stdouttrace.WithoutTimestamps(),
	)
	if err != nil {
		return nil, fmt.Errorf("create span exporter: %w", err)
	}

	service := cfg.ServiceName
	if service == "" {
		service = "aoi-sim"
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", service),
	))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	logrus.Infof("tracing enabled; service %s", service)
	return tp.Shutdown, nil
}

// RunAttributes describes a scenario run on its span.
type RunAttributes struct {
	Seed       int64
	Flows      int
	Horizon    time.Duration
	Configured bool
	Weight     float64
}

// StartRun opens the scenario.run span on the global tracer provider.
func StartRun(ctx context.Context, attrs RunAttributes) (context.Context, oteltrace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "scenario.run", oteltrace.WithAttributes(
		attribute.Int64("aoi.seed", attrs.Seed),
		attribute.Int("aoi.flows", attrs.Flows),
		attribute.String("aoi.horizon", attrs.Horizon.String()),
		attribute.Bool("aoi.configured_grant", attrs.Configured),
		attribute.Float64("aoi.weight", attrs.Weight),
	))
}

// AddFlowEvent records one flow's end state as an event on span.
func AddFlowEvent(span oteltrace.Span, flowID uint32, state string, sent uint64, age float64) {
	span.AddEvent("flow.end", oteltrace.WithAttributes(
		attribute.Int64("aoi.flow", int64(flowID)),
		attribute.String("aoi.timer_state", state),
		attribute.Int64("aoi.packets_sent", int64(sent)),
		attribute.Float64("aoi.age", age),
	))
}

// ShutdownWithTimeout invokes the provided shutdown function with a bounded
// timeout, logging errors in the shutdown path.
func ShutdownWithTimeout(ctx context.Context, shutdown func(context.Context) error) {
	if shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logrus.Warnf("tracing shutdown failed: %v", err)
	}
}
