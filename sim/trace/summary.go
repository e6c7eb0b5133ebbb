package trace

import "sort"

// FlowSummary aggregates one flow's packet outcomes.
type FlowSummary struct {
	FlowID         uint32
	Created        int
	Delivered      int
	Dropped        int
	DeadlineMisses int
	MeanLatency    float64 // ticks, delivered packets only
	MaxLatency     int64   // ticks
	Grants         int     // only populated at TraceLevelDecisions
}

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalCreated   int
	TotalDelivered int
	TotalDropped   int
	DeadlineMisses int
	MeanLatency    float64
	MaxLatency     int64
	TotalGrants    int
	Flows          []FlowSummary // ascending flow id
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{Flows: make([]FlowSummary, 0)}
	if st == nil {
		return summary
	}

	flows := make(map[uint32]*FlowSummary)
	flow := func(id uint32) *FlowSummary {
		f, ok := flows[id]
		if !ok {
			f = &FlowSummary{FlowID: id}
			flows[id] = f
		}
		return f
	}
	latencySums := make(map[uint32]int64)

	for _, c := range st.Creations {
		flow(c.FlowID).Created++
		summary.TotalCreated++
	}

	var totalLatency int64
	for _, d := range st.Deliveries {
		f := flow(d.FlowID)
		if !d.Delivered {
			f.Dropped++
			summary.TotalDropped++
			continue
		}
		f.Delivered++
		summary.TotalDelivered++
		latencySums[d.FlowID] += d.Latency
		totalLatency += d.Latency
		if d.Latency > f.MaxLatency {
			f.MaxLatency = d.Latency
		}
		if d.Latency > summary.MaxLatency {
			summary.MaxLatency = d.Latency
		}
		if d.DeadlineMissed {
			f.DeadlineMisses++
			summary.DeadlineMisses++
		}
	}

	for _, g := range st.Grants {
		summary.TotalGrants += len(g.Granted)
		for _, id := range g.Granted {
			flow(id).Grants++
		}
	}

	if summary.TotalDelivered > 0 {
		summary.MeanLatency = float64(totalLatency) / float64(summary.TotalDelivered)
	}
	for id, f := range flows {
		if f.Delivered > 0 {
			f.MeanLatency = float64(latencySums[id]) / float64(f.Delivered)
		}
		summary.Flows = append(summary.Flows, *f)
	}
	sort.Slice(summary.Flows, func(i, j int) bool { return summary.Flows[i].FlowID < summary.Flows[j].FlowID })

	return summary
}
