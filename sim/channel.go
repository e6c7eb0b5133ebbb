package sim

import (
	"github.com/aoi-sim/aoi-sim/sim/packet"
)

// Channel stands in for the PHY/MAC layers: it reports whether a granted
// transmission succeeded and how long delivery takes. The AoI core only
// consumes the reported outcome.
type Channel interface {
	Transmit(p packet.Packet, now int64) (success bool, delay int64)
}

// BernoulliChannel succeeds independently per transmission with a fixed
// probability, drawing from a per-flow RNG partition so that adding a flow
// does not perturb the outcomes of the others.
type BernoulliChannel struct {
	SuccessProbability float64
	TxDelay            int64
	rng                *PartitionedRNG
}

// NewBernoulliChannel creates a channel from its configuration.
func NewBernoulliChannel(cfg ChannelConfig, rng *PartitionedRNG) *BernoulliChannel {
	return &BernoulliChannel{
		SuccessProbability: cfg.SuccessProbability,
		TxDelay:            int64(cfg.TxDelay),
		rng:                rng,
	}
}

// Transmit draws one outcome for p.
func (c *BernoulliChannel) Transmit(p packet.Packet, _ int64) (bool, int64) {
	if c.SuccessProbability >= 1 {
		return true, c.TxDelay
	}
	draw := c.rng.ForSubsystem(SubsystemChannel(p.FlowID)).Float64()
	return draw < c.SuccessProbability, c.TxDelay
}
