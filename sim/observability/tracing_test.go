package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_WritesRunSpan(t *testing.T) {
	// GIVEN tracing enabled into a buffer
	var buf bytes.Buffer
	ctx := context.Background()
	shutdown, err := InitTracing(ctx, TracingConfig{Enabled: true, Writer: &buf})
	require.NoError(t, err)

	// WHEN a run span with a flow event ends
	_, span := StartRun(ctx, RunAttributes{Seed: 42, Flows: 1, Horizon: time.Second, Configured: true, Weight: 0.5})
	AddFlowEvent(span, 1, "drained", 3, 0)
	span.End()
	ShutdownWithTimeout(ctx, shutdown)

	// THEN the exporter wrote both
	out := buf.String()
	assert.Contains(t, out, "scenario.run")
	assert.Contains(t, out, "flow.end")
	assert.Contains(t, out, "aoi.configured_grant")
}

func TestInitTracing_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()
	shutdown, err := InitTracing(ctx, TracingConfig{})
	require.NoError(t, err)

	_, span := StartRun(ctx, RunAttributes{})
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, shutdown(ctx))
}

func TestShutdownWithTimeout_NilIsSafe(t *testing.T) {
	assert.NotPanics(t, func() { ShutdownWithTimeout(context.Background(), nil) })
}
