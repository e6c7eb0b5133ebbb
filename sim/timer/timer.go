// Package timer decides when a flow's sender transmits next.
//
// A flow sends its first packet, then waits either a one-time configuration
// delay (configured grant: the UE negotiates its grant with the gNB) or its
// steady periodicity (dynamic grant), then keeps the periodic cadence until
// all packets are sent or the timer is stopped.
package timer

import (
	"errors"
	"fmt"
)

// State is the lifecycle position of a TransmissionTimer.
type State int

const (
	Idle State = iota
	Armed
	Sending
	WaitingNextSlot
	Drained
)

var stateNames = map[State]string{
	Idle:            "idle",
	Armed:           "armed",
	Sending:         "sending",
	WaitingNextSlot: "waiting-next-slot",
	Drained:         "drained",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// GrantMode selects the timing policy after the first send.
type GrantMode int

const (
	// DynamicGrant sends at a steady periodicity from the start.
	DynamicGrant GrantMode = iota
	// ConfiguredGrant waits ConfigurationDelay once after the first send.
	ConfiguredGrant
)

func (m GrantMode) String() string {
	if m == ConfiguredGrant {
		return "configured"
	}
	return "dynamic"
}

// Config holds the parameters recorded by Setup. Times are ticks.
type Config struct {
	FlowID             uint32
	DestinationAddress string
	PacketSize         uint32
	PacketsTotal       uint64
	DataRate           float64 // bits per second; advisory
	Periodicity        int64
	ConfigurationDelay int64
	Deadline           int64 // advisory, consumed by trace observers
	Mode               GrantMode
}

// Validate checks that the timer can be armed with this config.
func (c Config) Validate() error {
	var errs []error
	if c.PacketsTotal == 0 {
		errs = append(errs, errors.New("packets total must be positive"))
	}
	if c.Periodicity <= 0 {
		errs = append(errs, fmt.Errorf("periodicity must be positive, got %d", c.Periodicity))
	}
	if c.Mode == ConfiguredGrant && c.ConfigurationDelay <= 0 {
		errs = append(errs, fmt.Errorf("configured grant requires a positive configuration delay, got %d", c.ConfigurationDelay))
	}
	if c.ConfigurationDelay < 0 {
		errs = append(errs, fmt.Errorf("configuration delay must be non-negative, got %d", c.ConfigurationDelay))
	}
	if c.Deadline < 0 {
		errs = append(errs, fmt.Errorf("deadline must be non-negative, got %d", c.Deadline))
	}
	if c.DataRate < 0 {
		errs = append(errs, fmt.Errorf("data rate must be non-negative, got %f", c.DataRate))
	}
	return errors.Join(errs...)
}

// TransmissionTimer is one flow's send scheduling state.
//
// Thread-safety: NOT thread-safe. Driven by the single simulation goroutine.
type TransmissionTimer struct {
	cfg         Config
	state       State
	running     bool
	packetsSent uint64
}

// New returns an Idle timer.
func New() *TransmissionTimer {
	return &TransmissionTimer{state: Idle}
}

// Setup records the flow parameters and arms the timer.
func (t *TransmissionTimer) Setup(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("timer setup for flow %d: %w", cfg.FlowID, err)
	}
	t.cfg = cfg
	t.running = true
	t.packetsSent = 0
	t.state = Armed
	return nil
}

// BeginSend marks a send in progress. Panics if the timer is not running:
// a cancelled send must never reach the sender.
func (t *TransmissionTimer) BeginSend() {
	if !t.running {
		panic(fmt.Sprintf("timer: flow %d send while not running (state %s)", t.cfg.FlowID, t.state))
	}
	t.state = Sending
}

// OnSent accounts for a completed send and returns the delay until the next
// one. ok is false once the flow is drained. Panics if the timer is not running.
func (t *TransmissionTimer) OnSent() (delay int64, ok bool) {
	if !t.running {
		panic(fmt.Sprintf("timer: flow %d scheduling while not running (state %s)", t.cfg.FlowID, t.state))
	}
	t.packetsSent++
	if t.packetsSent >= t.cfg.PacketsTotal {
		t.drain()
		return 0, false
	}
	t.state = WaitingNextSlot
	if t.packetsSent == 1 && t.cfg.Mode == ConfiguredGrant {
		return t.cfg.ConfigurationDelay, true
	}
	return t.cfg.Periodicity, true
}

// Stop cancels all future sends. Events already queued observe Running()
// and do nothing.
func (t *TransmissionTimer) Stop() {
	t.drain()
}

func (t *TransmissionTimer) drain() {
	t.running = false
	t.state = Drained
}

// Running reports whether further sends may happen.
func (t *TransmissionTimer) Running() bool {
	return t.running
}

// State returns the lifecycle state.
func (t *TransmissionTimer) State() State {
	return t.state
}

// PacketsSent returns the number of completed sends.
func (t *TransmissionTimer) PacketsSent() uint64 {
	return t.packetsSent
}

// PacketsTotal returns the configured packet count.
func (t *TransmissionTimer) PacketsTotal() uint64 {
	return t.cfg.PacketsTotal
}

// Config returns the parameters recorded by Setup.
func (t *TransmissionTimer) Config() Config {
	return t.cfg
}
