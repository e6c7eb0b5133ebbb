package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/aoi-sim/aoi-sim/sim"
	"github.com/aoi-sim/aoi-sim/sim/observability"
	"github.com/aoi-sim/aoi-sim/sim/trace"
)

var (
	// CLI flags for the scenario; each overrides the scenario file only when set
	scenarioPath      string        // Optional YAML scenario file
	seed              int64         // Seed for channel outcomes
	simulationHorizon time.Duration // Total simulated time
	logLevel          string        // Log verbosity level
	slotDuration      time.Duration // Duration of one uplink slot
	traceLevel        string        // none or decisions
	numUEs            int           // Number of UEs
	numPackets        uint64        // Packets per UE
	periodicity       time.Duration // Steady send period
	initDelay         time.Duration // First send offset per UE
	deadline          time.Duration // Advisory per-packet deadline
	packetSize        uint32        // Payload bytes
	dataRate          float64       // Bits per second
	configuredGrant   bool          // Use a configured grant with a one-time configuration phase
	configDelay       time.Duration // Configuration phase length
	weight            float64       // Age weight in the scheduling metric
	ageUnit           string        // slots or duration
	epochBaseline     float64       // Age restored on delivery
	resourcesPerSlot  int           // Grants per slot
	failurePenalty    uint32        // Slots charged on a failed transmission
	maxRetx           int           // Retransmissions before a drop
	successProb       float64       // Per-transmission success probability
	txDelay           time.Duration // Granted transmission to delivery

	// CLI flags for outputs
	scenarioOut string // Scenario table path
	metricsOut  string // Prometheus text exposition path
	traceSpans  bool   // Emit OpenTelemetry spans for the run
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "aoi-sim",
	Short: "Discrete-event simulator for AoI-aware uplink scheduling",
}

// runOptions are the outputs requested for one run.
type runOptions struct {
	ScenarioOut string
	MetricsOut  string
	TraceSpans  bool
	SpanWriter  io.Writer
}

// runCmd executes the simulation using a scenario file and CLI overrides
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the AoI scheduling simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, err := resolveScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		opts := runOptions{
			ScenarioOut: scenarioOut,
			MetricsOut:  metricsOut,
			TraceSpans:  traceSpans,
			SpanWriter:  os.Stderr,
		}
		if err := runScenario(cmd.Context(), cfg, opts, os.Stdout); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runScenario runs one validated scenario and writes its reports to out.
func runScenario(ctx context.Context, cfg sim.ScenarioConfig, opts runOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled: opts.TraceSpans,
		Writer:  opts.SpanWriter,
	})
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown)

	if opts.ScenarioOut != "" {
		if err := sim.SaveScenarioTable(opts.ScenarioOut, cfg.FlowSpecs()); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	collector, err := observability.NewCollector(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(cfg.TraceLevel)})

	s, err := sim.NewSimulator(cfg, trace.Tee(st, collector))
	if err != nil {
		return err
	}

	logrus.Infof("Starting simulation with %d UEs, horizon=%v, slot=%v, weight=%v, configured grant=%v",
		cfg.Flows.Count, cfg.Horizon, cfg.Slot, cfg.Metric.Weight, cfg.Grant.Configured)
	_, span := observability.StartRun(ctx, observability.RunAttributes{
		Seed:       cfg.Seed,
		Flows:      cfg.Flows.Count,
		Horizon:    cfg.Horizon,
		Configured: cfg.Grant.Configured,
		Weight:     cfg.Metric.Weight,
	})
	startTime := time.Now()
	s.Run()
	for _, f := range s.Metrics.Flows {
		collector.SetFlowState(f.FlowID, f.FinalAoI, f.Successes, f.Priority)
		observability.AddFlowEvent(span, f.FlowID, f.State.String(), f.PacketsSent, f.FinalAoI)
	}
	span.End()
	logrus.Infof("Simulation wall time: %v", time.Since(startTime))

	sim.PrintTraceSummary(out, st)
	s.Metrics.Print(out)

	if opts.MetricsOut != "" {
		if err := observability.SaveMetrics(opts.MetricsOut, reg); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerScenarioFlags adds the scenario flags shared by run and describe.
func registerScenarioFlags(cmd *cobra.Command) {
	d := sim.DefaultScenarioConfig()
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file; flags override its values")
	cmd.Flags().IntVar(&numUEs, "ues", d.Flows.Count, "Number of UEs")
	cmd.Flags().DurationVar(&initDelay, "init-delay", d.Flows.InitDelay, "Time of each UE's first packet")
	cmd.Flags().DurationVar(&periodicity, "periodicity", d.Flows.Periodicity, "Packet period after the configuration phase")
	cmd.Flags().DurationVar(&deadline, "deadline", d.Flows.Deadline, "Advisory per-packet deadline")
}

// registerRunFlags adds every flag of the run command.
func registerRunFlags(cmd *cobra.Command) {
	d := sim.DefaultScenarioConfig()

	registerScenarioFlags(cmd)
	cmd.Flags().Int64Var(&seed, "seed", d.Seed, "Seed for channel outcomes")
	cmd.Flags().DurationVar(&simulationHorizon, "horizon", d.Horizon, "Total simulated time")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().DurationVar(&slotDuration, "slot", d.Slot, "Duration of one uplink slot")
	cmd.Flags().StringVar(&traceLevel, "trace-level", d.TraceLevel, "Trace verbosity (none, decisions)")

	// Sender configs
	cmd.Flags().Uint64Var(&numPackets, "packets", d.Flows.Packets, "Packets sent by each UE")
	cmd.Flags().Uint32Var(&packetSize, "packet-size", d.Flows.PacketSize, "Packet payload in bytes")
	cmd.Flags().Float64Var(&dataRate, "data-rate", d.Flows.DataRate, "Application data rate in bits per second")
	cmd.Flags().BoolVar(&configuredGrant, "configured-grant", d.Grant.Configured, "Use a configured grant with a one-time configuration phase")
	cmd.Flags().DurationVar(&configDelay, "config-delay", d.Grant.ConfigurationDelay, "Configuration phase after the first packet")

	// Metric configs
	cmd.Flags().Float64Var(&weight, "weight", d.Metric.Weight, "Weight of age against reliability, in [0, 1]")
	cmd.Flags().StringVar(&ageUnit, "age-unit", d.Metric.AgeUnit, "Age unit (slots, duration)")
	cmd.Flags().Float64Var(&epochBaseline, "epoch-baseline", d.Metric.EpochBaseline, "Age restored when a packet is delivered")

	// Allocator and channel configs
	cmd.Flags().IntVar(&resourcesPerSlot, "resources-per-slot", d.Allocator.ResourcesPerSlot, "Flows granted per slot")
	cmd.Flags().Uint32Var(&failurePenalty, "failure-penalty", d.Allocator.FailurePenaltySlots, "Slots of age charged on a failed transmission")
	cmd.Flags().IntVar(&maxRetx, "max-retransmissions", d.Allocator.MaxRetransmissions, "Retransmissions before a packet is dropped")
	cmd.Flags().Float64Var(&successProb, "success-prob", d.Channel.SuccessProbability, "Per-transmission success probability")
	cmd.Flags().DurationVar(&txDelay, "tx-delay", d.Channel.TxDelay, "Delay from grant to delivery")

	// Outputs
	cmd.Flags().StringVar(&scenarioOut, "scenario-out", "", "Write the scenario table to this path")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics in text format to this path")
	cmd.Flags().BoolVar(&traceSpans, "trace-spans", false, "Write OpenTelemetry spans for the run to stderr")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)

	// Attach `run` and `describe` as subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(describeCmd)
}
