package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/aoi-sim/aoi-sim/sim/packet"
)

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in ticks), a Priority used to order
// events sharing a timestamp, and an Execute method that advances state.
type Event interface {
	Timestamp() int64
	Priority() int
	Execute(*Simulator)
}

// Same-timestamp ordering: deliveries resolve before new packets are created,
// and packets created in a slot are eligible for that slot's grant.
const (
	priorityDelivery = iota
	prioritySend
	prioritySlot
)

// SendEvent fires a sender's next packet creation.
type SendEvent struct {
	time   int64
	Sender *Sender
}

// Timestamp returns the scheduled time of the SendEvent.
func (e *SendEvent) Timestamp() int64 { return e.time }

// Priority orders SendEvent after deliveries at the same tick.
func (e *SendEvent) Priority() int { return prioritySend }

// Execute creates a packet unless the sender was stopped after this event
// was queued, in which case the event is a no-op.
func (e *SendEvent) Execute(sim *Simulator) {
	if !e.Sender.Timer.Running() {
		logrus.Debugf("<< Send: flow %d cancelled at %d ticks", e.Sender.FlowID, e.time)
		return
	}
	logrus.Debugf("<< Send: flow %d at %d ticks", e.Sender.FlowID, e.time)
	e.Sender.Send(sim, e.time)
}

// SlotEvent is one uplink scheduling opportunity.
type SlotEvent struct {
	time int64
}

// Timestamp returns the scheduled time of the SlotEvent.
func (e *SlotEvent) Timestamp() int64 { return e.time }

// Priority orders SlotEvent last at its tick.
func (e *SlotEvent) Priority() int { return prioritySlot }

// Execute runs the allocator for this slot.
func (e *SlotEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Slot at %d ticks", e.time)
	sim.Allocator.RunSlot(sim, e.time)
}

// DeliveryEvent is a packet reaching the gNB after a successful transmission.
type DeliveryEvent struct {
	time   int64
	Packet packet.Packet
}

// Timestamp returns the scheduled time of the DeliveryEvent.
func (e *DeliveryEvent) Timestamp() int64 { return e.time }

// Priority orders DeliveryEvent first at its tick.
func (e *DeliveryEvent) Priority() int { return priorityDelivery }

// Execute records the delivery and starts a new AoI epoch for the flow.
func (e *DeliveryEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Delivery: %s at %d ticks", e.Packet, e.time)
	sim.Allocator.Deliver(sim, e.Packet, e.time)
}
