// Package trace provides the telemetry sink the simulation reports into.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// CreationRecord captures one packet creation at a sender.
type CreationRecord struct {
	FlowID   uint32
	SourceID uint32
	Seq      uint64
	Clock    int64
}

// CandidateScore captures one pending flow's standing at a grant decision.
type CandidateScore struct {
	FlowID    uint32
	Age       float64
	Successes uint64
	Priority  float64
}

// GrantRecord captures one slot's allocation decision.
type GrantRecord struct {
	Clock      int64
	Granted    []uint32         // flows that received a resource, in rank order
	Candidates []CandidateScore // all pending flows sorted by priority desc
}

// DeliveryRecord captures the final outcome of one packet.
// Latency is derived from the packet's provenance tag, not sender state.
type DeliveryRecord struct {
	FlowID         uint32
	SourceID       uint32
	Seq            uint64
	CreatedAt      int64
	Clock          int64 // delivery or drop time
	Latency        int64 // Clock - CreatedAt
	Delivered      bool
	Attempts       int
	DeadlineMissed bool
}
