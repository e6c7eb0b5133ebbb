package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone keeps packet records but drops per-slot grant decisions.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions also captures every grant decision with its candidates.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Sink receives telemetry from the simulation. It is passed to constructors
// explicitly; nothing in the simulator writes to process-wide state.
type Sink interface {
	RecordCreation(CreationRecord)
	RecordGrant(GrantRecord)
	RecordDelivery(DeliveryRecord)
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects records in memory.
type SimulationTrace struct {
	Config     TraceConfig
	Creations  []CreationRecord
	Grants     []GrantRecord
	Deliveries []DeliveryRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:     config,
		Creations:  make([]CreationRecord, 0),
		Grants:     make([]GrantRecord, 0),
		Deliveries: make([]DeliveryRecord, 0),
	}
}

// RecordCreation appends a packet creation record.
func (st *SimulationTrace) RecordCreation(record CreationRecord) {
	st.Creations = append(st.Creations, record)
}

// RecordGrant appends a grant decision when decisions are traced.
func (st *SimulationTrace) RecordGrant(record GrantRecord) {
	if st.Config.Level != TraceLevelDecisions {
		return
	}
	st.Grants = append(st.Grants, record)
}

// RecordDelivery appends a delivery outcome record.
func (st *SimulationTrace) RecordDelivery(record DeliveryRecord) {
	st.Deliveries = append(st.Deliveries, record)
}

type tee []Sink

// Tee fans every record out to all non-nil sinks, in order.
func Tee(sinks ...Sink) Sink {
	t := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			t = append(t, s)
		}
	}
	return t
}

func (t tee) RecordCreation(r CreationRecord) {
	for _, s := range t {
		s.RecordCreation(r)
	}
}

func (t tee) RecordGrant(r GrantRecord) {
	for _, s := range t {
		s.RecordGrant(r)
	}
}

func (t tee) RecordDelivery(r DeliveryRecord) {
	for _, s := range t {
		s.RecordDelivery(r)
	}
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) RecordCreation(CreationRecord) {}
func (discard) RecordGrant(GrantRecord)       {}
func (discard) RecordDelivery(DeliveryRecord) {}
