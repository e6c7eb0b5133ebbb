// sim/metrics_utils.go
package sim

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/aoi-sim/aoi-sim/sim/trace"
)

const ticksPerMs = 1e6

type IntOrFloat64 interface {
	int | int64 | float64
}

// CalculatePercentile is a util function that calculates the p-th percentile
// of a sorted list of tick values. Return values are in milliseconds.
func CalculatePercentile[T IntOrFloat64](data []T, p float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if upperIdx >= n {
		return float64(data[n-1]) / ticksPerMs
	}
	if lowerIdx == upperIdx {
		return float64(data[lowerIdx]) / ticksPerMs
	}
	lowerVal := float64(data[lowerIdx])
	upperVal := float64(data[upperIdx])
	return (lowerVal + (upperVal-lowerVal)*(rank-float64(lowerIdx))) / ticksPerMs
}

// CalculateMean is a util function that calculates the mean of a list of tick
// values. Return values are in milliseconds.
func CalculateMean[T IntOrFloat64](numbers []T) float64 {
	if len(numbers) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, number := range numbers {
		sum += float64(number)
	}

	return (sum / float64(len(numbers))) / ticksPerMs
}

// DeliveredLatencies returns the sorted latencies of delivered packets.
func DeliveredLatencies(st *trace.SimulationTrace) []int64 {
	if st == nil {
		return nil
	}
	lat := make([]int64, 0, len(st.Deliveries))
	for _, d := range st.Deliveries {
		if d.Delivered {
			lat = append(lat, d.Latency)
		}
	}
	sort.Slice(lat, func(i, j int) bool { return lat[i] < lat[j] })
	return lat
}

// PrintTraceSummary writes run totals, latency percentiles and per-flow outcomes.
func PrintTraceSummary(w io.Writer, st *trace.SimulationTrace) {
	s := trace.Summarize(st)
	lat := DeliveredLatencies(st)

	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Packets Created      : %d\n", s.TotalCreated)
	fmt.Fprintf(w, "Packets Delivered    : %d\n", s.TotalDelivered)
	fmt.Fprintf(w, "Packets Dropped      : %d\n", s.TotalDropped)
	fmt.Fprintf(w, "Deadline Misses      : %d\n", s.DeadlineMisses)
	if s.TotalDelivered > 0 {
		fmt.Fprintf(w, "Mean Latency         : %.3f ms\n", CalculateMean(lat))
		fmt.Fprintf(w, "P90 Latency          : %.3f ms\n", CalculatePercentile(lat, 90))
		fmt.Fprintf(w, "P99 Latency          : %.3f ms\n", CalculatePercentile(lat, 99))
		fmt.Fprintf(w, "Max Latency          : %.3f ms\n", float64(s.MaxLatency)/ticksPerMs)
	}
	if s.TotalGrants > 0 {
		fmt.Fprintf(w, "Grants               : %d\n", s.TotalGrants)
	}
	fmt.Fprintf(w, "%-6s %-8s %-10s %-8s %-10s %-12s %-12s\n",
		"Flow", "Created", "Delivered", "Dropped", "Deadline", "Mean(ms)", "Max(ms)")
	for _, f := range s.Flows {
		fmt.Fprintf(w, "%-6d %-8d %-10d %-8d %-10d %-12.3f %-12.3f\n",
			f.FlowID, f.Created, f.Delivered, f.Dropped, f.DeadlineMisses,
			f.MeanLatency/ticksPerMs, float64(f.MaxLatency)/ticksPerMs)
	}
}
