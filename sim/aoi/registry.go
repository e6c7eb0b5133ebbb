package aoi

import (
	"fmt"
	"sort"
)

// FlowState is the per-flow state a resource allocator ranks.
type FlowState struct {
	ID          uint32
	Age         *AgeTracker
	Reliability *ReliabilityEstimator
}

// Score is one flow's priority at a decision point.
type Score struct {
	FlowID    uint32
	Age       float64
	Successes uint64
	Priority  float64
}

// Registry maps flow identifiers to their AoI and reliability state.
// Flows are independent; the registry only exists so an allocator can rank them.
//
// Thread-safety: NOT thread-safe. Must be called from the simulation goroutine.
type Registry struct {
	ageConfig       AgeConfig
	reliabilitySeed uint64
	flows           map[uint32]*FlowState
}

// NewRegistry creates an empty registry. Every admitted flow gets a tracker
// built from ageConfig and an estimator seeded with reliabilitySeed.
func NewRegistry(ageConfig AgeConfig, reliabilitySeed uint64) *Registry {
	return &Registry{
		ageConfig:       ageConfig,
		reliabilitySeed: reliabilitySeed,
		flows:           make(map[uint32]*FlowState),
	}
}

// Admit creates state for a new flow.
func (r *Registry) Admit(id uint32) (*FlowState, error) {
	if _, exists := r.flows[id]; exists {
		return nil, fmt.Errorf("%w: flow %d already admitted", ErrInvalidArgument, id)
	}
	f := &FlowState{
		ID:          id,
		Age:         NewAgeTracker(r.ageConfig),
		Reliability: NewReliabilityEstimator(r.reliabilitySeed),
	}
	r.flows[id] = f
	return f, nil
}

// Get returns the state of a flow, if admitted.
func (r *Registry) Get(id uint32) (*FlowState, bool) {
	f, ok := r.flows[id]
	return f, ok
}

// Remove drops a terminated flow.
func (r *Registry) Remove(id uint32) {
	delete(r.flows, id)
}

// Len returns the number of admitted flows.
func (r *Registry) Len() int {
	return len(r.flows)
}

// IDs returns the admitted flow identifiers in ascending order.
func (r *Registry) IDs() []uint32 {
	ids := make([]uint32, 0, len(r.flows))
	for id := range r.flows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Rank refreshes the age of each listed flow at now and orders them by
// priority, highest first. Equal priorities are ordered by ascending flow id.
// Unknown ids are skipped.
func (r *Registry) Rank(now int64, ids []uint32, calc *Calculator) []Score {
	scores := make([]Score, 0, len(ids))
	for _, id := range ids {
		f, ok := r.flows[id]
		if !ok {
			continue
		}
		f.Age.UpdateAoI(now)
		scores = append(scores, Score{
			FlowID:    id,
			Age:       f.Age.CurrentAoI(),
			Successes: f.Reliability.Reliability(),
			Priority:  calc.Priority(f),
		})
	}
	SortScores(scores)
	return scores
}

// SortScores orders scores by priority descending, then flow id ascending.
func SortScores(scores []Score) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Priority != scores[j].Priority {
			return scores[i].Priority > scores[j].Priority
		}
		return scores[i].FlowID < scores[j].FlowID
	})
}
