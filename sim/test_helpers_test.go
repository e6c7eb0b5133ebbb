package sim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aoi-sim/aoi-sim/sim/trace"
)

// singleFlowConfig returns a one-UE scenario starting at t=0 with the given
// packet count.
func singleFlowConfig(packets uint64) ScenarioConfig {
	cfg := DefaultScenarioConfig()
	cfg.Flows.Count = 1
	cfg.Flows.InitDelay = 0
	cfg.Flows.Packets = packets
	return cfg
}

// runWithTrace builds and runs a simulator that records every decision.
func runWithTrace(t *testing.T, cfg ScenarioConfig) (*Simulator, *trace.SimulationTrace) {
	t.Helper()
	st := newDecisionTrace()
	s, err := NewSimulator(cfg, st)
	require.NoError(t, err)
	s.Run()
	return s, st
}

func creationTimes(st *trace.SimulationTrace, flowID uint32) []int64 {
	var out []int64
	for _, c := range st.Creations {
		if c.FlowID == flowID {
			out = append(out, c.Clock)
		}
	}
	return out
}

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func ms(n int64) int64 { return n * int64(time.Millisecond) }

func us(n int64) int64 { return n * int64(time.Microsecond) }

func newDecisionTrace() *trace.SimulationTrace {
	return trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
}
