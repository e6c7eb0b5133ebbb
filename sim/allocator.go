package sim

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/aoi-sim/aoi-sim/sim/packet"
	"github.com/aoi-sim/aoi-sim/sim/trace"
)

// Allocator is the gNB uplink scheduler. It buffers packets per flow and, at
// each slot boundary while anything is buffered, grants resources to the
// flows with the highest AoI/reliability priority.
type Allocator struct {
	SlotDuration       int64
	ResourcesPerSlot   int
	FailurePenalty     uint32
	MaxRetransmissions int

	buffers   map[uint32][]packet.Packet
	slotEvent *SlotEvent // pending slot, nil when idle
}

// NewAllocator creates an idle allocator.
func NewAllocator(cfg AllocatorConfig, slotDuration int64) *Allocator {
	return &Allocator{
		SlotDuration:       slotDuration,
		ResourcesPerSlot:   cfg.ResourcesPerSlot,
		FailurePenalty:     cfg.FailurePenaltySlots,
		MaxRetransmissions: cfg.MaxRetransmissions,
		buffers:            make(map[uint32][]packet.Packet),
	}
}

// Enqueue buffers a packet and makes sure a slot is pending.
func (a *Allocator) Enqueue(sim *Simulator, p packet.Packet) {
	a.buffers[p.FlowID] = append(a.buffers[p.FlowID], p)
	a.armSlot(sim, a.nextBoundary(sim.Clock))
}

// Buffered returns the number of packets waiting for a flow.
func (a *Allocator) Buffered(flowID uint32) int {
	return len(a.buffers[flowID])
}

// nextBoundary returns the first slot boundary at or after now.
func (a *Allocator) nextBoundary(now int64) int64 {
	if rem := now % a.SlotDuration; rem != 0 {
		return now + a.SlotDuration - rem
	}
	return now
}

func (a *Allocator) armSlot(sim *Simulator, at int64) {
	if a.slotEvent != nil {
		return
	}
	a.slotEvent = &SlotEvent{time: at}
	sim.Schedule(a.slotEvent)
}

// pending returns the ids of flows with buffered packets, ascending.
func (a *Allocator) pending() []uint32 {
	ids := make([]uint32, 0, len(a.buffers))
	for id, q := range a.buffers {
		if len(q) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// RunSlot ranks the pending flows at now and transmits the head packet of
// each granted flow.
func (a *Allocator) RunSlot(sim *Simulator, now int64) {
	a.slotEvent = nil
	ids := a.pending()
	if len(ids) == 0 {
		return
	}

	scores := sim.Flows.Rank(now, ids, sim.Calculator)
	granted := scores
	if len(granted) > a.ResourcesPerSlot {
		granted = granted[:a.ResourcesPerSlot]
	}

	record := trace.GrantRecord{
		Clock:      now,
		Granted:    make([]uint32, 0, len(granted)),
		Candidates: make([]trace.CandidateScore, 0, len(scores)),
	}
	for _, sc := range scores {
		record.Candidates = append(record.Candidates, trace.CandidateScore{
			FlowID:    sc.FlowID,
			Age:       sc.Age,
			Successes: sc.Successes,
			Priority:  sc.Priority,
		})
	}
	for _, sc := range granted {
		record.Granted = append(record.Granted, sc.FlowID)
	}
	sim.Sink.RecordGrant(record)

	for _, sc := range granted {
		a.transmit(sim, sc.FlowID, now)
	}

	if len(a.pending()) > 0 {
		a.armSlot(sim, now+a.SlotDuration)
	}
}

func (a *Allocator) transmit(sim *Simulator, flowID uint32, now int64) {
	q := a.buffers[flowID]
	p := q[0]
	a.buffers[flowID] = q[1:]
	p.Attempts++

	flow, ok := sim.Flows.Get(flowID)
	if !ok {
		logrus.Warnf("[tick %012d] grant for unknown flow %d", now, flowID)
		return
	}

	success, delay := sim.Channel.Transmit(p, now)
	flow.Reliability.UpdateReliability(success)
	if success {
		sim.Schedule(&DeliveryEvent{time: now + delay, Packet: p})
		return
	}

	flow.Age.IncrementAoI(a.FailurePenalty)
	if p.Attempts <= a.MaxRetransmissions {
		logrus.Debugf("[tick %012d] %s failed, retransmission %d", now, p, p.Attempts)
		a.buffers[flowID] = append([]packet.Packet{p}, a.buffers[flowID]...)
		return
	}
	logrus.Debugf("[tick %012d] %s dropped after %d attempts", now, p, p.Attempts)
	sim.Sink.RecordDelivery(a.outcome(p, now, false))
}

// Deliver completes a successful transmission: the latency comes from the
// packet's provenance tag and the flow starts a new AoI epoch.
func (a *Allocator) Deliver(sim *Simulator, p packet.Packet, now int64) {
	if flow, ok := sim.Flows.Get(p.FlowID); ok {
		flow.Age.ResetAoI(now)
	}
	rec := a.outcome(p, now, true)
	logrus.Infof("Data received at: %d ns from UE %d, delay %d ns", now, p.Tag.SourceID(), rec.Latency)
	sim.Sink.RecordDelivery(rec)
}

func (a *Allocator) outcome(p packet.Packet, now int64, delivered bool) trace.DeliveryRecord {
	latency := p.Tag.LatencyAt(now)
	return trace.DeliveryRecord{
		FlowID:         p.FlowID,
		SourceID:       p.Tag.SourceID(),
		Seq:            p.Seq,
		CreatedAt:      int64(p.Tag.CreationTimestamp()),
		Clock:          now,
		Latency:        latency,
		Delivered:      delivered,
		Attempts:       p.Attempts,
		DeadlineMissed: delivered && p.Deadline > 0 && latency > p.Deadline,
	}
}
