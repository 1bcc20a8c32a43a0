package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures drains, spin-ups and read placements.
	TraceLevelDecisions TraceLevel = "decisions"
)

var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// SimulationTrace collects decision records during an array simulation.
// A nil *SimulationTrace records nothing.
type SimulationTrace struct {
	Level   TraceLevel
	Drains  []DrainRecord
	SpinUps []SpinUpRecord
	Reads   []ReadRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
// Returns nil for TraceLevelNone.
func NewSimulationTrace(level TraceLevel) *SimulationTrace {
	if level == TraceLevelNone || level == "" {
		return nil
	}
	return &SimulationTrace{
		Level:   level,
		Drains:  make([]DrainRecord, 0),
		SpinUps: make([]SpinUpRecord, 0),
		Reads:   make([]ReadRecord, 0),
	}
}

func (st *SimulationTrace) RecordDrain(r DrainRecord) {
	if st == nil {
		return
	}
	st.Drains = append(st.Drains, r)
}

func (st *SimulationTrace) RecordSpinUp(r SpinUpRecord) {
	if st == nil {
		return
	}
	st.SpinUps = append(st.SpinUps, r)
}

func (st *SimulationTrace) RecordRead(r ReadRecord) {
	if st == nil {
		return
	}
	st.Reads = append(st.Reads, r)
}
