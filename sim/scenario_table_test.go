package sim

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteScenarioTable_Layout(t *testing.T) {
	cfg := DefaultScenarioConfig()
	cfg.Flows.Count = 2

	var buf bytes.Buffer
	require.NoError(t, WriteScenarioTable(&buf, cfg.FlowSpecs()))

	want := strings.Join([]string{
		ScenarioTableHeader,
		"2",
		"100000", "100000", "",
		"10000000", "10000000", "",
		"10", "10", "",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestSaveScenarioTable_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0644))

	cfg := DefaultScenarioConfig()
	cfg.Flows.Count = 1
	require.NoError(t, SaveScenarioTable(path, cfg.FlowSpecs()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.True(t, strings.HasPrefix(string(data), ScenarioTableHeader+"\n1\n"))
}

func TestSaveScenarioTable_BadPath(t *testing.T) {
	err := SaveScenarioTable(filepath.Join(t.TempDir(), "missing", "x.txt"), nil)
	assert.Error(t, err)
}
