package trace

// TraceLevel selects which admission decisions a run keeps.
type TraceLevel string

const (
	// TraceLevelNone keeps nothing; RecordAdmission is a no-op.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions keeps one record per pod that reached the scheduler.
	TraceLevelDecisions TraceLevel = "decisions"
)

var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // same as none
}

// IsValidTraceLevel reports whether level names a known TraceLevel.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// SimulationTrace holds the admission records of a single run, in dispatch order.
type SimulationTrace struct {
	Level      TraceLevel
	Admissions []AdmissionRecord
}

func NewSimulationTrace(level TraceLevel) *SimulationTrace {
	return &SimulationTrace{
		Level:      level,
		Admissions: make([]AdmissionRecord, 0),
	}
}

// Enabled reports whether records should be kept. A nil trace is disabled,
// so the cluster can call it unconditionally.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Level == TraceLevelDecisions
}

// RecordAdmission appends the outcome of one pod arrival.
func (st *SimulationTrace) RecordAdmission(record AdmissionRecord) {
	if !st.Enabled() {
		return
	}
	st.Admissions = append(st.Admissions, record)
}
