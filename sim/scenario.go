package sim

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aoi-sim/aoi-sim/sim/aoi"
	"github.com/aoi-sim/aoi-sim/sim/timer"
	"github.com/aoi-sim/aoi-sim/sim/trace"
)

// ScenarioConfig describes one uplink AoI scenario, loadable from a YAML file.
// Durations are written as Go duration strings ("10ms", "125us").
type ScenarioConfig struct {
	Seed       int64           `yaml:"seed"`
	Horizon    time.Duration   `yaml:"horizon"`
	Slot       time.Duration   `yaml:"slot"`
	TraceLevel string          `yaml:"trace_level"`
	Metric     MetricConfig    `yaml:"metric"`
	Grant      GrantConfig     `yaml:"grant"`
	Allocator  AllocatorConfig `yaml:"allocator"`
	Channel    ChannelConfig   `yaml:"channel"`
	Flows      FlowsConfig     `yaml:"flows"`
}

// MetricConfig holds the AoI and reliability parameters shared by all flows.
type MetricConfig struct {
	Weight          float64 `yaml:"weight"`
	AgeUnit         string  `yaml:"age_unit"` // "slots" or "duration"
	EpochBaseline   float64 `yaml:"epoch_baseline"`
	ReliabilitySeed uint64  `yaml:"reliability_seed"`
}

// GrantConfig selects configured grant (one-time configuration phase) or
// dynamic grant.
type GrantConfig struct {
	Configured         bool          `yaml:"configured"`
	ConfigurationDelay time.Duration `yaml:"configuration_delay"`
}

// AllocatorConfig holds gNB uplink scheduler parameters.
type AllocatorConfig struct {
	ResourcesPerSlot    int    `yaml:"resources_per_slot"`
	FailurePenaltySlots uint32 `yaml:"failure_penalty_slots"`
	MaxRetransmissions  int    `yaml:"max_retransmissions"`
}

// ChannelConfig holds the outcome model parameters.
type ChannelConfig struct {
	SuccessProbability float64       `yaml:"success_probability"`
	TxDelay            time.Duration `yaml:"tx_delay"`
}

// FlowsConfig describes the UEs. Every UE gets the same vectors entry.
type FlowsConfig struct {
	Count       int           `yaml:"count"`
	InitDelay   time.Duration `yaml:"init_delay"`
	Periodicity time.Duration `yaml:"periodicity"`
	Deadline    time.Duration `yaml:"deadline"`
	PacketSize  uint32        `yaml:"packet_size"`
	Packets     uint64        `yaml:"packets"`
	DataRate    float64       `yaml:"data_rate"` // bits per second
}

// FlowSpec is one UE's resolved parameters.
type FlowSpec struct {
	ID          uint32
	InitDelay   time.Duration
	Periodicity time.Duration
	Deadline    time.Duration
	PacketSize  uint32
	Packets     uint64
	DataRate    float64
}

// DefaultScenarioConfig returns the reference scenario: 20 UEs sending 10-byte
// packets every 10ms after a 100ms start, configured grant with a 60ms
// configuration phase, 125µs slots, one second of simulated time.
func DefaultScenarioConfig() ScenarioConfig {
	return ScenarioConfig{
		Seed:       42,
		Horizon:    time.Second,
		Slot:       125 * time.Microsecond,
		TraceLevel: string(trace.TraceLevelNone),
		Metric: MetricConfig{
			Weight:  aoi.DefaultWeight,
			AgeUnit: aoi.SlotCount.String(),
		},
		Grant: GrantConfig{
			Configured:         true,
			ConfigurationDelay: 60 * time.Millisecond,
		},
		Allocator: AllocatorConfig{
			ResourcesPerSlot:    1,
			FailurePenaltySlots: 1,
		},
		Channel: ChannelConfig{
			SuccessProbability: 1.0,
			TxDelay:            125 * time.Microsecond,
		},
		Flows: FlowsConfig{
			Count:       20,
			InitDelay:   100 * time.Millisecond,
			Periodicity: 10 * time.Millisecond,
			Deadline:    10 * time.Second,
			PacketSize:  10,
			Packets:     1000,
			DataRate:    1e6,
		},
	}
}

// LoadScenarioConfig reads a YAML scenario file on top of the defaults.
// Unknown keys are rejected so that typos surface as errors.
func LoadScenarioConfig(path string) (ScenarioConfig, error) {
	cfg := DefaultScenarioConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading scenario config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing scenario config: %w", err)
	}
	return cfg, nil
}

// Validate checks every parameter range. Metric weight errors wrap
// aoi.ErrInvalidArgument.
func (c ScenarioConfig) Validate() error {
	var errs []error
	if c.Horizon <= 0 {
		errs = append(errs, fmt.Errorf("horizon must be positive, got %v", c.Horizon))
	}
	if c.Slot <= 0 {
		errs = append(errs, fmt.Errorf("slot must be positive, got %v", c.Slot))
	}
	if !trace.IsValidTraceLevel(c.TraceLevel) {
		errs = append(errs, fmt.Errorf("unknown trace level %q", c.TraceLevel))
	}
	if _, err := aoi.NewCalculator(c.Metric.Weight); err != nil {
		errs = append(errs, err)
	}
	if _, err := aoi.ParseAgeUnit(c.Metric.AgeUnit); err != nil {
		errs = append(errs, err)
	}
	if c.Metric.EpochBaseline < 0 || math.IsNaN(c.Metric.EpochBaseline) {
		errs = append(errs, fmt.Errorf("epoch_baseline must be non-negative, got %v", c.Metric.EpochBaseline))
	}
	if c.Grant.Configured && c.Grant.ConfigurationDelay <= 0 {
		errs = append(errs, fmt.Errorf("configured grant requires a positive configuration_delay, got %v", c.Grant.ConfigurationDelay))
	}
	if c.Allocator.ResourcesPerSlot <= 0 {
		errs = append(errs, fmt.Errorf("resources_per_slot must be positive, got %d", c.Allocator.ResourcesPerSlot))
	}
	if c.Allocator.MaxRetransmissions < 0 {
		errs = append(errs, fmt.Errorf("max_retransmissions must be non-negative, got %d", c.Allocator.MaxRetransmissions))
	}
	if c.Channel.SuccessProbability < 0 || c.Channel.SuccessProbability > 1 || math.IsNaN(c.Channel.SuccessProbability) {
		errs = append(errs, fmt.Errorf("success_probability must be in [0, 1], got %v", c.Channel.SuccessProbability))
	}
	if c.Channel.TxDelay < 0 {
		errs = append(errs, fmt.Errorf("tx_delay must be non-negative, got %v", c.Channel.TxDelay))
	}
	if c.Flows.Count <= 0 {
		errs = append(errs, fmt.Errorf("flows.count must be positive, got %d", c.Flows.Count))
	}
	if c.Flows.InitDelay < 0 {
		errs = append(errs, fmt.Errorf("flows.init_delay must be non-negative, got %v", c.Flows.InitDelay))
	}
	if c.Flows.Periodicity <= 0 {
		errs = append(errs, fmt.Errorf("flows.periodicity must be positive, got %v", c.Flows.Periodicity))
	}
	if c.Flows.Deadline < 0 {
		errs = append(errs, fmt.Errorf("flows.deadline must be non-negative, got %v", c.Flows.Deadline))
	}
	if c.Flows.Packets == 0 {
		errs = append(errs, errors.New("flows.packets must be positive"))
	}
	if c.Flows.DataRate < 0 {
		errs = append(errs, fmt.Errorf("flows.data_rate must be non-negative, got %v", c.Flows.DataRate))
	}
	return errors.Join(errs...)
}

// FlowSpecs expands the flows section into one spec per UE. UE ids start at 1;
// id 0 is the gNB.
func (c ScenarioConfig) FlowSpecs() []FlowSpec {
	specs := make([]FlowSpec, 0, c.Flows.Count)
	for i := 0; i < c.Flows.Count; i++ {
		specs = append(specs, FlowSpec{
			ID:          uint32(i + 1),
			InitDelay:   c.Flows.InitDelay,
			Periodicity: c.Flows.Periodicity,
			Deadline:    c.Flows.Deadline,
			PacketSize:  c.Flows.PacketSize,
			Packets:     c.Flows.Packets,
			DataRate:    c.Flows.DataRate,
		})
	}
	return specs
}

// TimerConfig converts a flow spec into TransmissionTimer parameters.
func (f FlowSpec) TimerConfig(grant GrantConfig) timer.Config {
	mode := timer.DynamicGrant
	if grant.Configured {
		mode = timer.ConfiguredGrant
	}
	return timer.Config{
		FlowID:             f.ID,
		DestinationAddress: "gnb-0",
		PacketSize:         f.PacketSize,
		PacketsTotal:       f.Packets,
		DataRate:           f.DataRate,
		Periodicity:        int64(f.Periodicity),
		ConfigurationDelay: int64(grant.ConfigurationDelay),
		Deadline:           int64(f.Deadline),
		Mode:               mode,
	}
}
