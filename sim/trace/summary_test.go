package trace

import "testing"

func TestSummarize_NilAndEmpty_ZeroValues(t *testing.T) {
	for _, st := range []*SimulationTrace{nil, NewSimulationTrace(TraceConfig{})} {
		summary := Summarize(st)
		if summary.TotalCreated != 0 || summary.TotalDelivered != 0 || summary.TotalDropped != 0 {
			t.Errorf("expected zero counts, got %+v", summary)
		}
		if len(summary.Flows) != 0 {
			t.Errorf("expected no flows, got %d", len(summary.Flows))
		}
	}
}

func TestSummarize_PerFlowCountsAndLatency(t *testing.T) {
	// GIVEN two flows with deliveries, a drop and a deadline miss
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordCreation(CreationRecord{FlowID: 2, Seq: 0})
	st.RecordCreation(CreationRecord{FlowID: 1, Seq: 0})
	st.RecordCreation(CreationRecord{FlowID: 1, Seq: 1})
	st.RecordCreation(CreationRecord{FlowID: 1, Seq: 2})
	st.RecordDelivery(DeliveryRecord{FlowID: 1, Seq: 0, Latency: 100, Delivered: true})
	st.RecordDelivery(DeliveryRecord{FlowID: 1, Seq: 1, Latency: 300, Delivered: true, DeadlineMissed: true})
	st.RecordDelivery(DeliveryRecord{FlowID: 1, Seq: 2, Latency: 999, Delivered: false})
	st.RecordDelivery(DeliveryRecord{FlowID: 2, Seq: 0, Latency: 50, Delivered: true})
	st.RecordGrant(GrantRecord{Granted: []uint32{1}})
	st.RecordGrant(GrantRecord{Granted: []uint32{1, 2}})

	// WHEN summarized
	s := Summarize(st)

	// THEN totals and per-flow values match
	if s.TotalCreated != 4 || s.TotalDelivered != 3 || s.TotalDropped != 1 {
		t.Errorf("totals = %d/%d/%d, want 4/3/1", s.TotalCreated, s.TotalDelivered, s.TotalDropped)
	}
	if s.DeadlineMisses != 1 {
		t.Errorf("deadline misses = %d, want 1", s.DeadlineMisses)
	}
	if s.MeanLatency != 150 || s.MaxLatency != 300 {
		t.Errorf("latency mean/max = %v/%d, want 150/300", s.MeanLatency, s.MaxLatency)
	}
	if s.TotalGrants != 3 {
		t.Errorf("grants = %d, want 3", s.TotalGrants)
	}
	if len(s.Flows) != 2 || s.Flows[0].FlowID != 1 || s.Flows[1].FlowID != 2 {
		t.Fatalf("flows not sorted by id: %+v", s.Flows)
	}
	f1 := s.Flows[0]
	if f1.Created != 3 || f1.Delivered != 2 || f1.Dropped != 1 || f1.Grants != 2 {
		t.Errorf("flow 1 = %+v", f1)
	}
	if f1.MeanLatency != 200 || f1.MaxLatency != 300 {
		t.Errorf("flow 1 latency mean/max = %v/%d, want 200/300", f1.MeanLatency, f1.MaxLatency)
	}
}
