package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/aoi-sim/aoi-sim/sim/aoi"
	"github.com/aoi-sim/aoi-sim/sim/packet"
	"github.com/aoi-sim/aoi-sim/sim/timer"
	"github.com/aoi-sim/aoi-sim/sim/trace"
)

// Sender is one UE's uplink application. It creates a packet on each send
// event, stamps its provenance, and re-arms itself from its timer.
type Sender struct {
	FlowID   uint32
	SourceID uint32
	Timer    *timer.TransmissionTimer
	Flow     *aoi.FlowState
	nextSeq  uint64
}

// Send creates one packet at now and hands it to the allocator.
func (s *Sender) Send(sim *Simulator, now int64) {
	s.Timer.BeginSend()
	cfg := s.Timer.Config()

	p := packet.Packet{
		FlowID:      s.FlowID,
		Seq:         s.nextSeq,
		Size:        cfg.PacketSize,
		Periodicity: cfg.Periodicity,
		Deadline:    cfg.Deadline,
		Tag:         packet.NewProvenanceTag(now, s.SourceID),
	}
	s.nextSeq++

	s.Flow.Age.SetPacketCreationTime(now)
	sim.Sink.RecordCreation(trace.CreationRecord{
		FlowID:   s.FlowID,
		SourceID: s.SourceID,
		Seq:      p.Seq,
		Clock:    now,
	})
	logrus.Infof("Packet created by UE %d at: %d ns", s.SourceID, now)

	sim.Allocator.Enqueue(sim, p)

	delay, ok := s.Timer.OnSent()
	if !ok {
		logrus.Infof("[tick %012d] flow %d drained after %d packets", now, s.FlowID, s.Timer.PacketsSent())
		return
	}
	s.schedule(sim, now+delay)
}

func (s *Sender) schedule(sim *Simulator, at int64) {
	sim.Schedule(&SendEvent{time: at, Sender: s})
}
