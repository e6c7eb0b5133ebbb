package packet

import "fmt"

// Packet is one simulated uplink transmission unit.
type Packet struct {
	FlowID      uint32
	Seq         uint64 // per-flow sequence number, from 0
	Size        uint32 // bytes
	Periodicity int64  // ticks; carried for the receiving side
	Deadline    int64  // ticks; advisory
	Tag         ProvenanceTag
	Attempts    int // transmissions so far
}

func (p Packet) String() string {
	return fmt.Sprintf("flow=%d seq=%d size=%d %s", p.FlowID, p.Seq, p.Size, p.Tag)
}
