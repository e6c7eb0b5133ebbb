// Package aoi tracks per-flow Age of Information and reliability, and blends
// the two into a single scheduling priority.
//
// All timestamps are simulated nanoseconds (ticks). Nothing in this package
// blocks or performs I/O; callers serialize updates per flow by simulated time.
package aoi

import (
	"fmt"
	"strings"
)

// DefaultSlotDuration is one NR slot at numerology 3 (125µs), in ticks.
const DefaultSlotDuration int64 = 125_000

// AgeUnit selects how staleness is measured. It is fixed when a tracker is
// constructed and never changes over the flow's lifetime.
type AgeUnit int

const (
	// SlotCount accumulates elapsed whole slots across UpdateAoI calls
	// until the next reset.
	SlotCount AgeUnit = iota
	// Duration replaces the age with the ticks elapsed since the last touch.
	Duration
)

func (u AgeUnit) String() string {
	switch u {
	case SlotCount:
		return "slots"
	case Duration:
		return "duration"
	default:
		return fmt.Sprintf("AgeUnit(%d)", int(u))
	}
}

// validAgeUnits maps accepted age unit names.
var validAgeUnits = map[string]AgeUnit{
	"":         SlotCount,
	"slots":    SlotCount,
	"duration": Duration,
}

// ParseAgeUnit converts a configuration name into an AgeUnit.
func ParseAgeUnit(name string) (AgeUnit, error) {
	u, ok := validAgeUnits[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown age unit %q", ErrInvalidArgument, name)
	}
	return u, nil
}

// AgeConfig parameterizes an AgeTracker.
type AgeConfig struct {
	Unit          AgeUnit
	SlotDuration  int64   // ticks per slot; 0 means DefaultSlotDuration
	EpochBaseline float64 // value restored by ResetAoI
}

// AgeTracker owns one flow's staleness state.
type AgeTracker struct {
	unit          AgeUnit
	slotDuration  int64
	epochBaseline float64

	creationTime   int64
	lastUpdateTime int64
	currentAge     float64
}

// NewAgeTracker creates a tracker anchored at time zero with the age at its
// epoch baseline. Panics on a negative baseline or slot duration.
func NewAgeTracker(cfg AgeConfig) *AgeTracker {
	slot := cfg.SlotDuration
	if slot == 0 {
		slot = DefaultSlotDuration
	}
	if slot < 0 {
		panic(fmt.Sprintf("aoi: slot duration must be positive, got %d", slot))
	}
	if cfg.EpochBaseline < 0 {
		panic(fmt.Sprintf("aoi: epoch baseline must be non-negative, got %f", cfg.EpochBaseline))
	}
	return &AgeTracker{
		unit:          cfg.Unit,
		slotDuration:  slot,
		epochBaseline: cfg.EpochBaseline,
		currentAge:    cfg.EpochBaseline,
	}
}

// SetPacketCreationTime records a new packet for the flow. Both the creation
// time and the last refresh move to t.
func (a *AgeTracker) SetPacketCreationTime(t int64) {
	a.creationTime = t
	a.lastUpdateTime = t
}

// PacketCreationTime returns the creation time of the flow's latest packet.
func (a *AgeTracker) PacketCreationTime() int64 {
	return a.creationTime
}

// LastUpdateTime returns the time of the last staleness refresh.
func (a *AgeTracker) LastUpdateTime() int64 {
	return a.lastUpdateTime
}

// UpdateAoI refreshes the age from the time elapsed since the last refresh.
// Simulated time never runs backwards; a now earlier than the last refresh
// means the event scheduler is broken and the call panics.
func (a *AgeTracker) UpdateAoI(now int64) {
	if now < a.lastUpdateTime {
		panic(fmt.Sprintf("aoi: UpdateAoI at %d precedes last update at %d", now, a.lastUpdateTime))
	}
	elapsed := now - a.lastUpdateTime
	switch a.unit {
	case SlotCount:
		a.currentAge += float64(elapsed / a.slotDuration)
	case Duration:
		a.currentAge = float64(elapsed)
	}
	a.lastUpdateTime = now
}

// IncrementAoI charges a known number of slots to the flow, independent of
// elapsed time. Duration trackers convert the slots to ticks.
func (a *AgeTracker) IncrementAoI(slots uint32) {
	switch a.unit {
	case SlotCount:
		a.currentAge += float64(slots)
	case Duration:
		a.currentAge += float64(int64(slots) * a.slotDuration)
	}
}

// CurrentAoI returns the current staleness in the tracker's unit.
func (a *AgeTracker) CurrentAoI() float64 {
	return a.currentAge
}

// ResetAoI starts a new epoch at now: the age returns to the baseline and
// both anchors move to now.
func (a *AgeTracker) ResetAoI(now int64) {
	a.currentAge = a.epochBaseline
	a.lastUpdateTime = now
	a.creationTime = now
}

// Unit returns the tracker's age unit.
func (a *AgeTracker) Unit() AgeUnit {
	return a.unit
}

// SlotDuration returns the ticks per slot used by the tracker.
func (a *AgeTracker) SlotDuration() int64 {
	return a.slotDuration
}

// EpochBaseline returns the value restored by ResetAoI.
func (a *AgeTracker) EpochBaseline() float64 {
	return a.epochBaseline
}
