// Package sim provides the discrete-event harness that drives per-flow Age of
// Information tracking for an NR uplink scenario.
//
// # Reading Guide
//
// Start with these files:
//   - event.go: Event types that drive the simulation (Send, Slot, Delivery)
//   - simulator.go: the deterministic event queue and the Run loop
//   - sender.go: per-UE application that stamps provenance tags and re-arms its timer
//   - allocator.go: per-slot uplink grants ranked by the AoI/reliability metric
//
// # Architecture
//
// The sim package wires implementations from sub-packages:
//   - sim/aoi/: AgeTracker, ReliabilityEstimator, metric Calculator, flow Registry
//   - sim/timer/: TransmissionTimer (configured grant vs dynamic grant cadence)
//   - sim/packet/: Packet and its immutable ProvenanceTag
//   - sim/trace/: telemetry Sink and in-memory SimulationTrace
//   - sim/observability/: Prometheus collector and OpenTelemetry spans
//
// Time is int64 simulated nanoseconds ("ticks"). Execution is single-threaded:
// every state change happens inside an Event.Execute call dispatched in
// nondecreasing timestamp order.
package sim
