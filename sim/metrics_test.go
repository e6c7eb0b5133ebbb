package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoi-sim/aoi-sim/sim/timer"
)

func TestMetrics_CollectAfterHorizon(t *testing.T) {
	// GIVEN a run cut off by the horizon while the flow is still sending
	cfg := singleFlowConfig(100)
	cfg.Horizon = cfg.Grant.ConfigurationDelay

	s, _ := runWithTrace(t, cfg)

	// THEN the flow is between packets with its grant configured
	require.Len(t, s.Metrics.Flows, 1)
	f := s.Metrics.Flows[0]
	assert.Equal(t, timer.WaitingNextSlot, f.State)
	assert.Equal(t, uint64(2), f.PacketsSent)
	assert.Equal(t, 0, f.Buffered, "the slot at the horizon still runs")
	assert.NotEmpty(t, s.EventQueue)
}

func TestMetrics_Print(t *testing.T) {
	s, _ := runWithTrace(t, singleFlowConfig(1))

	var buf bytes.Buffer
	s.Metrics.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "=== Flow State ===")
	assert.Contains(t, out, "Simulation Ended At  : 125000 ns")
	assert.Contains(t, out, "drained")
}
