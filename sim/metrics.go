// Tracks simulation-wide and per-flow AoI state at the end of a run.

package sim

import (
	"fmt"
	"io"

	"github.com/aoi-sim/aoi-sim/sim/timer"
)

// FlowMetrics is one flow's state when the simulation ended.
type FlowMetrics struct {
	FlowID      uint32
	PacketsSent uint64
	State       timer.State
	FinalAoI    float64
	Successes   uint64
	Attempts    uint64
	Priority    float64
	Buffered    int
}

// Metrics aggregates end-of-run state for final reporting.
type Metrics struct {
	SimEndedTime int64 // min(last event time, horizon), in ticks
	Flows        []FlowMetrics
}

// NewMetrics returns an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{Flows: make([]FlowMetrics, 0)}
}

// Collect snapshots every sender's flow state.
func (m *Metrics) Collect(sim *Simulator) {
	m.Flows = m.Flows[:0]
	for _, s := range sim.Senders {
		m.Flows = append(m.Flows, FlowMetrics{
			FlowID:      s.FlowID,
			PacketsSent: s.Timer.PacketsSent(),
			State:       s.Timer.State(),
			FinalAoI:    s.Flow.Age.CurrentAoI(),
			Successes:   s.Flow.Reliability.Reliability(),
			Attempts:    s.Flow.Reliability.Attempts(),
			Priority:    sim.Calculator.Priority(s.Flow),
			Buffered:    sim.Allocator.Buffered(s.FlowID),
		})
	}
}

// Print writes the per-flow end state.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Flow State ===")
	fmt.Fprintf(w, "Simulation Ended At  : %d ns\n", m.SimEndedTime)
	fmt.Fprintf(w, "%-6s %-8s %-18s %-12s %-10s %-10s %-10s %-8s\n",
		"Flow", "Sent", "Timer", "AoI", "Successes", "Attempts", "Priority", "Queued")
	for _, f := range m.Flows {
		fmt.Fprintf(w, "%-6d %-8d %-18s %-12.2f %-10d %-10d %-10.4f %-8d\n",
			f.FlowID, f.PacketsSent, f.State, f.FinalAoI, f.Successes, f.Attempts, f.Priority, f.Buffered)
	}
}
