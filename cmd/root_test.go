package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/aoi-sim/aoi-sim/sim"
	"github.com/aoi-sim/aoi-sim/sim/aoi"
)

// newTestRunCmd returns a fresh run command parsed with args. The flag
// variables are package globals, so the scenario path is reset afterwards.
func newTestRunCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "run"}
	registerRunFlags(c)
	require.NoError(t, c.ParseFlags(args))
	t.Cleanup(func() { scenarioPath = "" })
	return c
}

func TestApplyFlagOverrides_OnlyChangedFlags(t *testing.T) {
	// GIVEN a config that differs from the flag defaults
	cfg := sim.DefaultScenarioConfig()
	cfg.Flows.Count = 7
	cfg.Metric.Weight = 0.9

	// WHEN only --weight and --periodicity are set
	c := newTestRunCmd(t, "--weight", "0.25", "--periodicity", "20ms")
	applyFlagOverrides(c, &cfg)

	// THEN those override and the rest keep the config's values
	assert.Equal(t, 0.25, cfg.Metric.Weight)
	assert.Equal(t, 20*time.Millisecond, cfg.Flows.Periodicity)
	assert.Equal(t, 7, cfg.Flows.Count)
}

func TestResolveScenario_FileThenFlags(t *testing.T) {
	// GIVEN a scenario file with 4 UEs and dynamic grant
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grant:\n  configured: false\nflows:\n  count: 4\n  packets: 5\n"), 0644))

	// WHEN the UE count is overridden on the command line
	c := newTestRunCmd(t, "--scenario", path, "--ues", "2")
	cfg, err := resolveScenario(c)

	// THEN the flag wins where set and the file elsewhere
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Flows.Count)
	assert.Equal(t, uint64(5), cfg.Flows.Packets)
	assert.False(t, cfg.Grant.Configured)
}

func TestResolveScenario_RejectsInvalidWeight(t *testing.T) {
	c := newTestRunCmd(t, "--weight", "2")
	_, err := resolveScenario(c)
	assert.ErrorIs(t, err, aoi.ErrInvalidArgument)
}

func TestRunScenario_WritesReports(t *testing.T) {
	// GIVEN a small scenario with every output requested
	dir := t.TempDir()
	cfg := sim.DefaultScenarioConfig()
	cfg.Flows.Count = 2
	cfg.Flows.Packets = 3
	cfg.Flows.InitDelay = 0
	var spans, out bytes.Buffer
	opts := runOptions{
		ScenarioOut: filepath.Join(dir, "Scenario.txt"),
		MetricsOut:  filepath.Join(dir, "metrics.prom"),
		TraceSpans:  true,
		SpanWriter:  &spans,
	}

	// WHEN the scenario runs
	require.NoError(t, runScenario(context.Background(), cfg, opts, &out))

	// THEN the summary reaches the writer
	assert.Contains(t, out.String(), "Packets Created      : 6")
	assert.Contains(t, out.String(), "=== Flow State ===")

	// AND the scenario table, metrics and spans were written
	table, err := os.ReadFile(opts.ScenarioOut)
	require.NoError(t, err)
	assert.Contains(t, string(table), sim.ScenarioTableHeader)

	metrics, err := os.ReadFile(opts.MetricsOut)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "aoi_packets_created_total 6")
	assert.Contains(t, string(metrics), `aoi_deliveries_total{outcome="delivered"} 6`)
	assert.Contains(t, string(metrics), `aoi_current_age{flow="2"}`)

	assert.Contains(t, spans.String(), "scenario.run")
}

func TestRunScenario_InvalidConfig(t *testing.T) {
	cfg := sim.DefaultScenarioConfig()
	cfg.Flows.Count = 0
	var out bytes.Buffer
	assert.Error(t, runScenario(context.Background(), cfg, runOptions{}, &out))
}

func TestDescribeScenario_WritesTable(t *testing.T) {
	cfg := sim.DefaultScenarioConfig()
	cfg.Flows.Count = 3
	path := filepath.Join(t.TempDir(), "Scenario.txt")

	require.NoError(t, describeScenario(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), sim.ScenarioTableHeader+"\n3\n")
}
