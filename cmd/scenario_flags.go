package cmd

import (
	"github.com/spf13/cobra"

	sim "github.com/aoi-sim/aoi-sim/sim"
)

// resolveScenario loads the scenario file, if any, applies explicitly set
// flags on top and validates the result.
func resolveScenario(cmd *cobra.Command) (sim.ScenarioConfig, error) {
	cfg := sim.DefaultScenarioConfig()
	if scenarioPath != "" {
		loaded, err := sim.LoadScenarioConfig(scenarioPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	applyFlagOverrides(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyFlagOverrides copies flag values into cfg. Only flags the user set
// are applied so that scenario file values survive flag defaults.
func applyFlagOverrides(cmd *cobra.Command, cfg *sim.ScenarioConfig) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("seed") {
		cfg.Seed = seed
	}
	if changed("horizon") {
		cfg.Horizon = simulationHorizon
	}
	if changed("slot") {
		cfg.Slot = slotDuration
	}
	if changed("trace-level") {
		cfg.TraceLevel = traceLevel
	}
	if changed("ues") {
		cfg.Flows.Count = numUEs
	}
	if changed("packets") {
		cfg.Flows.Packets = numPackets
	}
	if changed("periodicity") {
		cfg.Flows.Periodicity = periodicity
	}
	if changed("init-delay") {
		cfg.Flows.InitDelay = initDelay
	}
	if changed("deadline") {
		cfg.Flows.Deadline = deadline
	}
	if changed("packet-size") {
		cfg.Flows.PacketSize = packetSize
	}
	if changed("data-rate") {
		cfg.Flows.DataRate = dataRate
	}
	if changed("configured-grant") {
		cfg.Grant.Configured = configuredGrant
	}
	if changed("config-delay") {
		cfg.Grant.ConfigurationDelay = configDelay
	}
	if changed("weight") {
		cfg.Metric.Weight = weight
	}
	if changed("age-unit") {
		cfg.Metric.AgeUnit = ageUnit
	}
	if changed("epoch-baseline") {
		cfg.Metric.EpochBaseline = epochBaseline
	}
	if changed("resources-per-slot") {
		cfg.Allocator.ResourcesPerSlot = resourcesPerSlot
	}
	if changed("failure-penalty") {
		cfg.Allocator.FailurePenaltySlots = failurePenalty
	}
	if changed("max-retransmissions") {
		cfg.Allocator.MaxRetransmissions = maxRetx
	}
	if changed("success-prob") {
		cfg.Channel.SuccessProbability = successProb
	}
	if changed("tx-delay") {
		cfg.Channel.TxDelay = txDelay
	}
}
