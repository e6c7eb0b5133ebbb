// sim/simulator.go
package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/aoi-sim/aoi-sim/sim/aoi"
	"github.com/aoi-sim/aoi-sim/sim/timer"
	"github.com/aoi-sim/aoi-sim/sim/trace"
)

// queuedEvent pairs an event with its scheduling sequence number.
type queuedEvent struct {
	ev  Event
	seq uint64
}

// EventQueue implements heap.Interface with deterministic ordering.
// Order by: timestamp → event priority → scheduling sequence.
type EventQueue []queuedEvent

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	ei, ej := eq[i], eq[j]
	if ei.ev.Timestamp() != ej.ev.Timestamp() {
		return ei.ev.Timestamp() < ej.ev.Timestamp()
	}
	if ei.ev.Priority() != ej.ev.Priority() {
		return ei.ev.Priority() < ej.ev.Priority()
	}
	return ei.seq < ej.seq
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(queuedEvent))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator is the core object that holds simulation time, flow state, and the event loop.
type Simulator struct {
	Clock   int64
	Horizon int64
	// EventQueue has all pending send, slot and delivery events
	EventQueue EventQueue
	seq        uint64

	Config     ScenarioConfig
	RNG        *PartitionedRNG
	Flows      *aoi.Registry
	Calculator *aoi.Calculator
	// Senders are ordered by flow id
	Senders   []*Sender
	Allocator *Allocator
	Channel   Channel
	// Sink receives all telemetry; never nil
	Sink    trace.Sink
	Metrics *Metrics
}

// NewSimulator validates cfg, admits one flow per UE and arms each sender's
// first send at its initial delay. A nil sink discards telemetry.
func NewSimulator(cfg ScenarioConfig, sink trace.Sink) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = trace.Discard
	}
	unit, err := aoi.ParseAgeUnit(cfg.Metric.AgeUnit)
	if err != nil {
		return nil, err
	}
	calc, err := aoi.NewCalculator(cfg.Metric.Weight)
	if err != nil {
		return nil, err
	}

	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	s := &Simulator{
		Clock:      0,
		Horizon:    int64(cfg.Horizon),
		EventQueue: make(EventQueue, 0),
		Config:     cfg,
		RNG:        rng,
		Flows: aoi.NewRegistry(aoi.AgeConfig{
			Unit:          unit,
			SlotDuration:  int64(cfg.Slot),
			EpochBaseline: cfg.Metric.EpochBaseline,
		}, cfg.Metric.ReliabilitySeed),
		Calculator: calc,
		Allocator:  NewAllocator(cfg.Allocator, int64(cfg.Slot)),
		Channel:    NewBernoulliChannel(cfg.Channel, rng),
		Sink:       sink,
		Metrics:    NewMetrics(),
	}

	for _, spec := range cfg.FlowSpecs() {
		flow, err := s.Flows.Admit(spec.ID)
		if err != nil {
			return nil, err
		}
		tm := timer.New()
		if err := tm.Setup(spec.TimerConfig(cfg.Grant)); err != nil {
			return nil, err
		}
		sender := &Sender{FlowID: spec.ID, SourceID: spec.ID, Timer: tm, Flow: flow}
		s.Senders = append(s.Senders, sender)
		sender.schedule(s, int64(spec.InitDelay))
	}
	return s, nil
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	sim.seq++
	heap.Push(&sim.EventQueue, queuedEvent{ev: ev, seq: sim.seq})
}

// Run dispatches events in order until the queue empties or the next event
// lies beyond the horizon.
func (sim *Simulator) Run() {
	for len(sim.EventQueue) > 0 {
		next := sim.EventQueue[0].ev
		if next.Timestamp() > sim.Horizon {
			break
		}
		ev := heap.Pop(&sim.EventQueue).(queuedEvent).ev
		if ev.Timestamp() < sim.Clock {
			panic(fmt.Sprintf("sim: event %T at %d scheduled in the past (clock %d)", ev, ev.Timestamp(), sim.Clock))
		}
		sim.Clock = ev.Timestamp()
		logrus.Debugf("[tick %012d] Executing %T", sim.Clock, ev)
		ev.Execute(sim)
	}
	sim.Metrics.SimEndedTime = min(sim.Clock, sim.Horizon)
	sim.Metrics.Collect(sim)
	logrus.Infof("[tick %012d] Simulation ended", sim.Clock)
}

// Sender returns the sender for a flow.
func (sim *Simulator) Sender(flowID uint32) (*Sender, bool) {
	for _, s := range sim.Senders {
		if s.FlowID == flowID {
			return s, true
		}
	}
	return nil, false
}

// StopFlow cancels a flow's remaining sends. Its queued send event, if any,
// fires as a no-op.
func (sim *Simulator) StopFlow(flowID uint32) error {
	s, ok := sim.Sender(flowID)
	if !ok {
		return fmt.Errorf("%w: unknown flow %d", aoi.ErrInvalidArgument, flowID)
	}
	s.Timer.Stop()
	logrus.Infof("[tick %012d] flow %d stopped after %d packets", sim.Clock, flowID, s.Timer.PacketsSent())
	return nil
}
