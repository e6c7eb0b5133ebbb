package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/aoi-sim/aoi-sim/sim"
)

// describeCmd writes the scenario table without running the simulation
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Write the per-UE scenario table",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := describeScenario(cfg, scenarioOut); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// describeScenario writes the table to path, or to stdout when path is empty.
func describeScenario(cfg sim.ScenarioConfig, path string) error {
	if path == "" {
		return sim.WriteScenarioTable(os.Stdout, cfg.FlowSpecs())
	}
	return sim.SaveScenarioTable(path, cfg.FlowSpecs())
}

func init() {
	registerScenarioFlags(describeCmd)
	describeCmd.Flags().StringVar(&scenarioOut, "scenario-out", "", "Write the scenario table to this path instead of stdout")
}
